package ledger

import (
	"math"
	"testing"

	"github.com/splitrail/tripledger/internal/models"
)

func roster(names ...string) []models.Participant {
	ps := make([]models.Participant, len(names))
	for i, n := range names {
		ps[i] = models.Participant{ID: "id-" + n, Name: n}
	}
	return ps
}

func id(name string) string { return "id-" + name }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 0.01
}

func TestComputeBalances(t *testing.T) {
	tests := []struct {
		name         string
		participants []models.Participant
		expenses     []models.Expense
		want         map[string]float64
	}{
		{
			name:         "regular expense splits across full roster",
			participants: roster("P1", "P2", "P3"),
			expenses: []models.Expense{
				{Description: "Hotel", Amount: 90, PaidBy: id("P1"), Kind: models.ExpenseRegular},
			},
			want: map[string]float64{id("P1"): 60, id("P2"): -30, id("P3"): -30},
		},
		{
			name:         "itemized expense charges only named shares",
			participants: roster("P1", "P2"),
			expenses: []models.Expense{
				{
					Description: "Dinner",
					Amount:      20,
					PaidBy:      id("P2"),
					Kind:        models.ExpenseItemized,
					ItemShares:  map[string]float64{id("P1"): 12, id("P2"): 8},
				},
			},
			want: map[string]float64{id("P1"): -12, id("P2"): 12},
		},
		{
			name:         "participant outside item shares owes nothing",
			participants: roster("P1", "P2", "P3"),
			expenses: []models.Expense{
				{
					Description: "Lunch",
					Amount:      30,
					PaidBy:      id("P1"),
					Kind:        models.ExpenseItemized,
					ItemShares:  map[string]float64{id("P1"): 10, id("P2"): 20},
				},
			},
			want: map[string]float64{id("P1"): 20, id("P2"): -20, id("P3"): 0},
		},
		{
			name:         "mixed expenses accumulate",
			participants: roster("P1", "P2"),
			expenses: []models.Expense{
				{Description: "Taxi", Amount: 10, PaidBy: id("P1"), Kind: models.ExpenseRegular},
				{
					Description: "Dinner",
					Amount:      20,
					PaidBy:      id("P2"),
					Kind:        models.ExpenseItemized,
					ItemShares:  map[string]float64{id("P1"): 12, id("P2"): 8},
				},
			},
			// P1: -5 +10 -12 = -7, P2: -5 -8 +20 = +7
			want: map[string]float64{id("P1"): -7, id("P2"): 7},
		},
		{
			name:         "no expenses means all zero",
			participants: roster("P1", "P2"),
			expenses:     nil,
			want:         map[string]float64{id("P1"): 0, id("P2"): 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeBalances(tt.participants, tt.expenses)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d balances, want %d", len(got), len(tt.want))
			}
			for pid, want := range tt.want {
				if !almostEqual(got[pid], want) {
					t.Errorf("balance[%s] = %v, want %v", pid, got[pid], want)
				}
			}
		})
	}
}

func TestComputeBalances_OrderInvariant(t *testing.T) {
	participants := roster("P1", "P2", "P3")
	expenses := []models.Expense{
		{Description: "Hotel", Amount: 90, PaidBy: id("P1"), Kind: models.ExpenseRegular},
		{Description: "Taxi", Amount: 24, PaidBy: id("P2"), Kind: models.ExpenseRegular},
		{
			Description: "Dinner",
			Amount:      45,
			PaidBy:      id("P3"),
			Kind:        models.ExpenseItemized,
			ItemShares:  map[string]float64{id("P1"): 15, id("P2"): 12, id("P3"): 18},
		},
	}

	want := ComputeBalances(participants, expenses)

	permutations := [][]int{{0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for _, perm := range permutations {
		shuffled := make([]models.Expense, len(expenses))
		for i, j := range perm {
			shuffled[i] = expenses[j]
		}
		got := ComputeBalances(participants, shuffled)
		for pid := range want {
			if !almostEqual(got[pid], want[pid]) {
				t.Errorf("permutation %v: balance[%s] = %v, want %v", perm, pid, got[pid], want[pid])
			}
		}
	}
}

func TestComputeBalances_Idempotent(t *testing.T) {
	participants := roster("P1", "P2")
	expenses := []models.Expense{
		{Description: "Fuel", Amount: 37.5, PaidBy: id("P1"), Kind: models.ExpenseRegular},
	}

	first := ComputeBalances(participants, expenses)
	second := ComputeBalances(participants, expenses)

	for pid := range first {
		if first[pid] != second[pid] {
			t.Errorf("balance[%s] changed between runs: %v vs %v", pid, first[pid], second[pid])
		}
	}
}

func TestComputeBalances_SumsToZero(t *testing.T) {
	participants := roster("P1", "P2", "P3", "P4")
	expenses := []models.Expense{
		{Description: "Hotel", Amount: 200, PaidBy: id("P1"), Kind: models.ExpenseRegular},
		{Description: "Museum", Amount: 48, PaidBy: id("P3"), Kind: models.ExpenseRegular},
		{
			Description: "Dinner",
			Amount:      60,
			PaidBy:      id("P2"),
			Kind:        models.ExpenseItemized,
			ItemShares:  map[string]float64{id("P1"): 25, id("P2"): 15, id("P4"): 20},
		},
	}

	balances := ComputeBalances(participants, expenses)
	var sum float64
	for _, b := range balances {
		sum += b
	}
	if math.Abs(sum) > 0.01 {
		t.Errorf("balances sum to %v, want ~0", sum)
	}
}

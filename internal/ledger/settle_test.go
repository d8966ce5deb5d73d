package ledger

import (
	"math"
	"testing"

	"github.com/splitrail/tripledger/internal/models"
)

func TestSettle(t *testing.T) {
	tests := []struct {
		name         string
		participants []models.Participant
		balances     map[string]float64
		want         []models.Settlement
	}{
		{
			name:         "two debtors pay one creditor",
			participants: roster("P1", "P2", "P3"),
			balances:     map[string]float64{id("P1"): 60, id("P2"): -30, id("P3"): -30},
			want: []models.Settlement{
				{From: id("P2"), To: id("P1"), Amount: 30},
				{From: id("P3"), To: id("P1"), Amount: 30},
			},
		},
		{
			name:         "single pair",
			participants: roster("P1", "P2"),
			balances:     map[string]float64{id("P1"): -12, id("P2"): 12},
			want: []models.Settlement{
				{From: id("P1"), To: id("P2"), Amount: 12},
			},
		},
		{
			name:         "already settled yields no payments",
			participants: roster("P1", "P2"),
			balances:     map[string]float64{id("P1"): 0, id("P2"): 0},
			want:         nil,
		},
		{
			name:         "dust below threshold is ignored",
			participants: roster("P1", "P2"),
			balances:     map[string]float64{id("P1"): 0.005, id("P2"): -0.005},
			want:         nil,
		},
		{
			name:         "debtor split across two creditors in roster order",
			participants: roster("P1", "P2", "P3"),
			balances:     map[string]float64{id("P1"): 40, id("P2"): 20, id("P3"): -60},
			want: []models.Settlement{
				{From: id("P3"), To: id("P1"), Amount: 40},
				{From: id("P3"), To: id("P2"), Amount: 20},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Settle(tt.participants, tt.balances)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d settlements %v, want %d", len(got), got, len(tt.want))
			}
			for i, want := range tt.want {
				if got[i].From != want.From || got[i].To != want.To {
					t.Errorf("settlement[%d] = %s->%s, want %s->%s", i, got[i].From, got[i].To, want.From, want.To)
				}
				if !almostEqual(got[i].Amount, want.Amount) {
					t.Errorf("settlement[%d].Amount = %v, want %v", i, got[i].Amount, want.Amount)
				}
			}
		})
	}
}

// Applying every payment must drive each participant's adjusted balance to
// within the dust threshold of zero.
func TestSettle_DrivesBalancesToZero(t *testing.T) {
	cases := []map[string]float64{
		{id("P1"): 60, id("P2"): -30, id("P3"): -30},
		{id("P1"): 40, id("P2"): 20, id("P3"): -60},
		{id("P1"): 13.37, id("P2"): -5.12, id("P3"): -8.25},
		{id("P1"): 100, id("P2"): -99.995, id("P3"): -0.005},
		{id("P1"): 25.5, id("P2"): 74.5, id("P3"): -50, id("P4"): -50},
	}

	participants := roster("P1", "P2", "P3", "P4")
	for _, balances := range cases {
		adjusted := make(map[string]float64, len(balances))
		for pid, b := range balances {
			adjusted[pid] = b
		}

		for _, s := range Settle(participants, balances) {
			if s.Amount <= models.ShareTolerance {
				t.Errorf("emitted dust payment %v", s)
			}
			adjusted[s.From] += s.Amount
			adjusted[s.To] -= s.Amount
		}

		for pid, b := range adjusted {
			if math.Abs(b) > models.ShareTolerance {
				t.Errorf("balances %v: %s left with %v after settlement", balances, pid, b)
			}
		}
	}
}

// The working balance map is shared across creditors, so a debtor already
// paid down by one creditor must not be charged again by the next.
func TestSettle_NoDoubleCharge(t *testing.T) {
	participants := roster("P1", "P2", "P3")
	balances := map[string]float64{id("P1"): 30, id("P2"): 30, id("P3"): -60}

	settlements := Settle(participants, balances)

	var paid float64
	for _, s := range settlements {
		if s.From != id("P3") {
			t.Errorf("unexpected debtor %s", s.From)
		}
		paid += s.Amount
	}
	if !almostEqual(paid, 60) {
		t.Errorf("debtor paid %v in total, want 60", paid)
	}
}

func TestSettle_DeterministicOrder(t *testing.T) {
	participants := roster("P1", "P2", "P3", "P4")
	balances := map[string]float64{id("P1"): 50, id("P2"): -20, id("P3"): 10, id("P4"): -40}

	first := Settle(participants, balances)
	second := Settle(participants, balances)

	if len(first) != len(second) {
		t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("settlement[%d] differs between runs: %v vs %v", i, first[i], second[i])
		}
	}
}

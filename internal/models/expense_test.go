package models

import (
	"errors"
	"testing"
)

func testTrip() *Trip {
	return &Trip{
		ID:   "trip-1",
		Name: "Lisbon",
		Participants: []Participant{
			{ID: "p1", Name: "Sam"},
			{ID: "p2", Name: "Alex"},
		},
	}
}

func TestExpenseValidate(t *testing.T) {
	trip := testTrip()

	tests := []struct {
		name          string
		expense       Expense
		wantField     string // non-empty: expect ValidationError on this field
		wantImbalance bool
	}{
		{
			name:    "valid regular expense",
			expense: Expense{Description: "Hotel", Amount: 90, PaidBy: "p1", Kind: ExpenseRegular},
		},
		{
			name: "valid itemized expense with exact shares",
			expense: Expense{
				Description: "Dinner", Amount: 20, PaidBy: "p2", Kind: ExpenseItemized,
				ItemShares: map[string]float64{"p1": 12, "p2": 8},
			},
		},
		{
			name:      "missing description",
			expense:   Expense{Amount: 10, PaidBy: "p1", Kind: ExpenseRegular},
			wantField: "description",
		},
		{
			name:      "zero amount",
			expense:   Expense{Description: "Taxi", PaidBy: "p1", Kind: ExpenseRegular},
			wantField: "amount",
		},
		{
			name:      "missing payer",
			expense:   Expense{Description: "Taxi", Amount: 10, Kind: ExpenseRegular},
			wantField: "paid_by",
		},
		{
			name:      "payer off roster",
			expense:   Expense{Description: "Taxi", Amount: 10, PaidBy: "stranger", Kind: ExpenseRegular},
			wantField: "paid_by",
		},
		{
			name: "share for unknown participant",
			expense: Expense{
				Description: "Dinner", Amount: 20, PaidBy: "p1", Kind: ExpenseItemized,
				ItemShares: map[string]float64{"p1": 10, "ghost": 10},
			},
			wantField: "item_shares",
		},
		{
			name: "shares off by more than tolerance",
			expense: Expense{
				Description: "Dinner", Amount: 20.00, PaidBy: "p1", Kind: ExpenseItemized,
				ItemShares: map[string]float64{"p1": 12.00, "p2": 7.98},
			},
			wantImbalance: true,
		},
		{
			name: "shares within tolerance pass",
			expense: Expense{
				Description: "Dinner", Amount: 20.00, PaidBy: "p1", Kind: ExpenseItemized,
				ItemShares: map[string]float64{"p1": 12.00, "p2": 7.995},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.expense.Validate(trip)

			switch {
			case tt.wantField != "":
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("Validate() = %v, want ValidationError", err)
				}
				if verr.Field != tt.wantField {
					t.Errorf("ValidationError.Field = %q, want %q", verr.Field, tt.wantField)
				}
			case tt.wantImbalance:
				var ierr *ImbalanceError
				if !errors.As(err, &ierr) {
					t.Fatalf("Validate() = %v, want ImbalanceError", err)
				}
				if ierr.Declared != tt.expense.Amount {
					t.Errorf("ImbalanceError.Declared = %v, want %v", ierr.Declared, tt.expense.Amount)
				}
				if ierr.ShareSum == 0 {
					t.Error("ImbalanceError.ShareSum not populated")
				}
			default:
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
			}
		})
	}
}

// Exact shares never raise an imbalance; perturbing any single share by more
// than the tolerance always does.
func TestExpenseValidate_ImbalanceRoundTrip(t *testing.T) {
	trip := testTrip()

	exact := func() Expense {
		return Expense{
			Description: "Dinner", Amount: 20, PaidBy: "p1", Kind: ExpenseItemized,
			ItemShares: map[string]float64{"p1": 12, "p2": 8},
		}
	}

	e := exact()
	if err := e.Validate(trip); err != nil {
		t.Fatalf("exact shares rejected: %v", err)
	}

	for _, pid := range []string{"p1", "p2"} {
		for _, delta := range []float64{0.02, -0.02, 1.5} {
			e := exact()
			e.ItemShares[pid] += delta
			var ierr *ImbalanceError
			if err := e.Validate(trip); !errors.As(err, &ierr) {
				t.Errorf("share %s perturbed by %v: got %v, want ImbalanceError", pid, delta, err)
			}
		}
	}
}

func TestTripParticipantLookup(t *testing.T) {
	trip := testTrip()

	if p := trip.Participant("p2"); p == nil || p.Name != "Alex" {
		t.Errorf("Participant(p2) = %v, want Alex", p)
	}
	if trip.Participant("nope") != nil {
		t.Error("Participant(nope) should be nil")
	}
	if !trip.HasParticipant("p1") || trip.HasParticipant("zzz") {
		t.Error("HasParticipant gave wrong answer")
	}
}

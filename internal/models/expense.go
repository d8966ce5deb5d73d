package models

import "math"

// ExpenseKind distinguishes how an expense is split across the roster.
type ExpenseKind string

const (
	// ExpenseRegular splits the amount equally among the entire roster.
	ExpenseRegular ExpenseKind = "regular"

	// ExpenseItemized splits the amount according to per-participant shares
	// (e.g. individual food orders).
	ExpenseItemized ExpenseKind = "itemized"
)

// ShareTolerance is the maximum allowed drift between an itemized expense's
// declared amount and the sum of its item shares, and also the dust threshold
// below which balances count as settled.
const ShareTolerance = 0.01

// Expense is a single cost paid by one participant on behalf of the trip.
// Expenses are immutable once created except for explicit update or delete
// by ID.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Description is the human-readable label (e.g. "Hotel", "Dinner").
	Description string

	// Amount is the full cost paid, always positive.
	Amount float64

	// PaidBy is the participant ID of whoever fronted the money.
	PaidBy string

	// Kind selects equal or itemized splitting.
	Kind ExpenseKind

	// ItemShares maps participant ID to that person's share of the amount.
	// Present only for itemized expenses. Participants absent from the map
	// owe nothing for this expense.
	ItemShares map[string]float64

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// ShareSum returns the total of all item shares.
func (e *Expense) ShareSum() float64 {
	var sum float64
	for _, v := range e.ItemShares {
		sum += v
	}
	return sum
}

// Validate checks the expense against the trip roster. It returns a
// *ValidationError for missing or malformed fields and an *ImbalanceError
// when itemized shares do not sum to the declared amount within
// ShareTolerance. A valid expense returns nil.
func (e *Expense) Validate(trip *Trip) error {
	if e.Description == "" {
		return &ValidationError{Field: "description", Reason: "required"}
	}
	if e.Amount <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if e.PaidBy == "" {
		return &ValidationError{Field: "paid_by", Reason: "required"}
	}
	if !trip.HasParticipant(e.PaidBy) {
		return &ValidationError{Field: "paid_by", Reason: "not a trip participant"}
	}

	switch e.Kind {
	case ExpenseRegular:
		// Equal split needs nothing beyond the fields above.
	case ExpenseItemized:
		for id, share := range e.ItemShares {
			if share <= 0 {
				return &ValidationError{Field: "item_shares", Reason: "shares must be positive"}
			}
			if !trip.HasParticipant(id) {
				return &ValidationError{Field: "item_shares", Reason: "unknown participant " + id}
			}
		}
		if sum := e.ShareSum(); math.Abs(sum-e.Amount) > ShareTolerance {
			return &ImbalanceError{Declared: e.Amount, ShareSum: sum}
		}
	default:
		return &ValidationError{Field: "kind", Reason: "must be regular or itemized"}
	}
	return nil
}

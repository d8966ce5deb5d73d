package models

// Settlement is a single directed payment that reduces one debtor's and one
// creditor's outstanding balance. A settlement run regenerates the full list
// from scratch; settlements are never merged with a previous run.
type Settlement struct {
	// From is the participant ID of the debtor making the payment.
	From string

	// To is the participant ID of the creditor receiving it.
	To string

	// Amount is the payment amount, always positive.
	Amount float64
}

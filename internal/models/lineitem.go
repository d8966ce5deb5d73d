package models

// LineItem is a candidate item extracted from receipt text, prior to being
// aggregated into an itemized expense. Line items live for one parse cycle:
// they are either discarded or converted into expense shares, never stored.
type LineItem struct {
	// ID is a synthesized identifier for the parse cycle (UUID format).
	ID string

	// Name is the cleaned item label.
	Name string

	// Amount is the parsed price, always positive.
	Amount float64

	// AssignedTo is the participant ID this item belongs to, or empty when
	// unassigned. Unassigned items count toward an imported expense's total
	// but toward nobody's share.
	AssignedTo string
}

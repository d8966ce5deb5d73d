package models

import "fmt"

// ValidationError reports a missing or malformed expense field. The expense
// is rejected; nothing is committed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid expense: %s %s", e.Field, e.Reason)
}

// ImbalanceError reports that an itemized expense's shares do not sum to the
// declared amount within ShareTolerance. Both totals are carried so callers
// can display the discrepancy.
type ImbalanceError struct {
	Declared float64
	ShareSum float64
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("item shares total %.2f does not match expense amount %.2f (difference %.2f)",
		e.ShareSum, e.Declared, e.ShareSum-e.Declared)
}

package receipt

import "github.com/splitrail/tripledger/internal/models"

// Draft is a proposed itemized expense aggregated from parsed line items,
// awaiting confirmation before it becomes a real expense.
type Draft struct {
	// Amount is the sum of every item's amount, assigned or not.
	Amount float64

	// Shares maps participant ID to the sum of that person's assigned items.
	Shares map[string]float64
}

// BuildDraft sums each item into its assignee's bucket. Unassigned items
// contribute to the total but to nobody's bucket, so the buckets can sum to
// less than the total. Such a draft fails the itemized balance check when the
// expense is created, and that imbalance must surface to the caller; the
// adapter never silently drops the difference.
func BuildDraft(items []models.LineItem) Draft {
	draft := Draft{Shares: make(map[string]float64)}
	for _, item := range items {
		draft.Amount += item.Amount
		if item.AssignedTo != "" {
			draft.Shares[item.AssignedTo] += item.Amount
		}
	}
	return draft
}

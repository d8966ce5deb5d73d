// Package ledger derives net balances from a trip's expense list and reduces
// them to a settlement plan. All functions are pure: they take their inputs
// explicitly, own their working copies, and are safe to call concurrently
// for different trips.
package ledger

import "github.com/splitrail/tripledger/internal/models"

// ComputeBalances returns each participant's net position, keyed by
// participant ID. Positive means the participant is owed money, negative
// means they owe.
//
// Algorithm:
//   - Every roster member starts at zero.
//   - Regular expense: every roster member owes amount/len(roster) (the
//     split always covers the full roster, not just participants named in
//     any share map) and the payer is credited the full amount.
//   - Itemized expense: each share's participant owes exactly their share,
//     participants absent from the share map owe nothing, and the payer is
//     credited the full amount.
//
// Accumulation is commutative, so expense order never changes the result,
// and recomputing over an unchanged list is idempotent. Balances are always
// derived from scratch; there is no incremental update path.
func ComputeBalances(participants []models.Participant, expenses []models.Expense) map[string]float64 {
	balances := make(map[string]float64, len(participants))
	for _, p := range participants {
		balances[p.ID] = 0
	}

	for _, expense := range expenses {
		if expense.Kind == models.ExpenseItemized && expense.ItemShares != nil {
			for id, share := range expense.ItemShares {
				balances[id] -= share
			}
			balances[expense.PaidBy] += expense.Amount
		} else {
			perPersonShare := expense.Amount / float64(len(participants))
			for _, p := range participants {
				balances[p.ID] -= perPersonShare
			}
			balances[expense.PaidBy] += expense.Amount
		}
	}

	return balances
}

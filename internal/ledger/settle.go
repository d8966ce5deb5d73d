package ledger

import (
	"math"

	"github.com/splitrail/tripledger/internal/models"
)

// Settle reduces a balance map to a list of directed payments. After applying
// every payment, each participant's adjusted balance is within
// models.ShareTolerance of zero.
//
// The algorithm is a greedy bipartite match: participants are partitioned
// into creditors (balance > 0.01) and debtors (balance < -0.01) in roster
// order, then every creditor scans the full debtor list in order, paying down
// a shared working-balance map in place. A debtor can therefore be settled
// piecemeal by several creditors. Payments at or below the dust threshold are
// not emitted.
//
// The plan is deterministic for a given roster order but not guaranteed to be
// transaction-minimal; that is a known limitation, not a bug.
func Settle(participants []models.Participant, balances map[string]float64) []models.Settlement {
	var creditors, debtors []string
	for _, p := range participants {
		switch b := balances[p.ID]; {
		case b > models.ShareTolerance:
			creditors = append(creditors, p.ID)
		case b < -models.ShareTolerance:
			debtors = append(debtors, p.ID)
		}
	}

	// Working copy shared across the whole creditor loop.
	working := make(map[string]float64, len(balances))
	for id, b := range balances {
		working[id] = b
	}

	var settlements []models.Settlement
	for _, creditor := range creditors {
		remainingCredit := balances[creditor]

		for _, debtor := range debtors {
			if remainingCredit > models.ShareTolerance && working[debtor] < -models.ShareTolerance {
				amount := math.Min(remainingCredit, math.Abs(working[debtor]))
				if amount > models.ShareTolerance {
					settlements = append(settlements, models.Settlement{
						From:   debtor,
						To:     creditor,
						Amount: amount,
					})
					remainingCredit -= amount
					working[debtor] += amount
				}
			}
		}
	}

	return settlements
}

package app

import "trip_planner/internal/domain"

// Tier thresholds; both bounds belong to Medium.
const (
	lowBudgetCeiling = 20000
	highBudgetFloor  = 30000
)

// ClassifyBudget maps a total trip budget to a tier. Anything that is not
// clearly Low or High falls through to Medium.
func ClassifyBudget(total int) domain.BudgetTier {
	switch {
	case total < lowBudgetCeiling:
		return domain.TierLow
	case total > highBudgetFloor:
		return domain.TierHigh
	default:
		return domain.TierMedium
	}
}

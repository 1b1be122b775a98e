package insight

import "fmt"

// Deterministic rules evaluated before any hashing or provider call. Certain
// situations warrant an immediate, always-correct answer rather than a
// probabilistic one; these fire in fixed priority order and the first match
// wins.

// Crisis threshold: total debt at or above 60% of annual income.
const crisisDebtToIncome = 0.6

// High earners with almost nothing set aside get the idle-income nudge.
const (
	highIncomeFloor     = 150000
	negligibleAssetsCap = 10000
)

type rule struct {
	name    string
	applies func(Profile) bool
	respond func(Profile) string
}

var rules = []rule{
	{
		name: "debt-crisis",
		applies: func(p Profile) bool {
			return p.AnnualIncome > 0 && p.TotalDebt/p.AnnualIncome >= crisisDebtToIncome
		},
		respond: func(p Profile) string {
			return fmt.Sprintf(
				"Your debt of $%.0f is %.0f%% of your annual income, which puts debt paydown ahead of every other goal. "+
					"Before investing or saving for anything else, focus on your highest-interest balance first and look into "+
					"whether consolidating at a lower rate is available to you. Freeing up that interest cost is the highest-return "+
					"move you can make right now.",
				p.TotalDebt, p.TotalDebt/p.AnnualIncome*100)
		},
	},
	{
		name: "idle-income",
		applies: func(p Profile) bool {
			return p.AnnualIncome >= highIncomeFloor && p.TotalAssets < negligibleAssetsCap
		},
		respond: func(p Profile) string {
			return fmt.Sprintf(
				"With an income of $%.0f and less than $%.0f in assets, the gap between what you earn and what you keep is the "+
					"story here. Automating a fixed transfer into savings and investments each payday, before discretionary spending, "+
					"is the most reliable way to convert a strong income into actual net worth.",
				p.AnnualIncome, float64(negligibleAssetsCap))
		},
	},
}

// EvaluateHeuristics runs the rule chain and returns the canned response of
// the first matching rule.
func EvaluateHeuristics(p Profile) (response string, matched bool) {
	for _, r := range rules {
		if r.applies(p) {
			return r.respond(p), true
		}
	}
	return "", false
}

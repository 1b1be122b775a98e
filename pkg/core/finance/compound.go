// Package finance implements the two trusted built-in algorithms a calculator
// specification can select instead of a free-form formula: compound growth
// with periodic contributions, and a fixed-rate amortizing loan. Both are
// deterministic and pure; inputs are assumed validated by the caller (the
// explicit zero-rate case is handled, not rejected).
package finance

import "math"

// CompoundingFrequency maps to periods per year.
type CompoundingFrequency string

const (
	CompoundAnnually CompoundingFrequency = "annually"
	CompoundMonthly  CompoundingFrequency = "monthly"
	CompoundDaily    CompoundingFrequency = "daily"
)

// PeriodsPerYear returns n for the frequency; unknown values fall back to
// monthly, the UI default.
func (f CompoundingFrequency) PeriodsPerYear() int {
	switch f {
	case CompoundAnnually:
		return 1
	case CompoundDaily:
		return 365
	default:
		return 12
	}
}

// GrowthInput holds compound-growth parameters. MonthlyContribution is always
// expressed per month regardless of compounding frequency; the algorithm
// normalizes it to an effective per-period amount assuming the money arrives
// uniformly across the year.
type GrowthInput struct {
	Principal           float64
	MonthlyContribution float64
	AnnualRatePct       float64
	Years               int
	Frequency           CompoundingFrequency
}

// GrowthYear is one year-boundary snapshot. Figures are rounded to whole
// currency units at the snapshot, not per sub-period, so rounding error does
// not compound.
type GrowthYear struct {
	Year          int     `json:"year"`
	Balance       float64 `json:"balance"`
	Contributions float64 `json:"contributions"`
	Interest      float64 `json:"interest"`
}

// GrowthResult carries the aggregate totals plus the year-by-year schedule.
// Schedule[0] is the year-0 snapshot so charts start at the initial principal.
type GrowthResult struct {
	FinalBalance       float64      `json:"finalBalance"`
	TotalContributions float64      `json:"totalContributions"`
	TotalInterest      float64      `json:"totalInterest"`
	Schedule           []GrowthYear `json:"schedule"`
}

// CompoundGrowth runs the year-by-year accumulation.
//
// Per sub-period: interest = balance * (rate/100) / n, then the period's share
// of the contribution is added. Contribution share by frequency:
//
//	monthly: MonthlyContribution as-is
//	annual:  MonthlyContribution * 12
//	daily:   MonthlyContribution * 12 / 365
func CompoundGrowth(in GrowthInput) GrowthResult {
	n := in.Frequency.PeriodsPerYear()
	periodRate := in.AnnualRatePct / 100 / float64(n)
	periodContribution := in.MonthlyContribution * 12 / float64(n)

	balance := in.Principal
	contributed := in.Principal
	interest := 0.0

	schedule := make([]GrowthYear, 0, in.Years+1)
	schedule = append(schedule, GrowthYear{
		Year:          0,
		Balance:       math.Round(balance),
		Contributions: math.Round(contributed),
		Interest:      0,
	})

	for year := 1; year <= in.Years; year++ {
		for period := 0; period < n; period++ {
			accrued := balance * periodRate
			balance += accrued
			interest += accrued

			balance += periodContribution
			contributed += periodContribution
		}
		schedule = append(schedule, GrowthYear{
			Year:          year,
			Balance:       math.Round(balance),
			Contributions: math.Round(contributed),
			Interest:      math.Round(interest),
		})
	}

	return GrowthResult{
		FinalBalance:       math.Round(balance),
		TotalContributions: math.Round(contributed),
		TotalInterest:      math.Round(interest),
		Schedule:           schedule,
	}
}

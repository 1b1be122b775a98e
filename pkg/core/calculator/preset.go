package calculator

import (
	"wealthplan/pkg/core/finance"
	"wealthplan/pkg/core/projection"
)

// Canonical input-field ids the presets read. A specification that selects a
// preset is expected to author its inputs under these ids; missing ids fall
// back to zero values, which the validity checks below reject.
const (
	fieldPrincipal           = "principal"
	fieldMonthlyContribution = "monthlyContribution"
	fieldRate                = "rate"
	fieldYears               = "years"
	fieldFrequency           = "frequency"

	fieldHomePrice           = "homePrice"
	fieldDownPaymentPercent  = "downPaymentPercent"
	fieldPropertyTaxRate     = "propertyTaxRate"
	fieldHomeInsuranceAnnual = "homeInsuranceAnnual"
	fieldHOAMonthly          = "hoaFeesMonthly"
	fieldExtraMonthly        = "extraMonthlyPayment"
)

// presetResult carries the trusted algorithm's scalar totals and its yearly
// schedule, reshaped as per-data-key series for chart backing.
type presetResult struct {
	outputs map[string]float64
	series  map[string][]seriesPoint
}

type seriesPoint struct {
	year  int
	value float64
}

// runPreset validates the non-degenerate preconditions the finance package
// assumes, then maps the canonical fields onto the typed algorithm input.
// Returns nil when the inputs are degenerate; the calculation pass then simply
// produces no preset-backed outputs.
func runPreset(spec Specification, values ValueBinding, numeric map[string]float64) *presetResult {
	switch spec.Logic.Preset {
	case PresetCompoundGrowth:
		return runCompoundGrowth(spec, values, numeric)
	case PresetAmortizingLoan:
		return runAmortizingLoan(numeric)
	}
	return nil
}

func runCompoundGrowth(spec Specification, values ValueBinding, numeric map[string]float64) *presetResult {
	years := int(numeric[fieldYears])
	if years < 1 || years > projection.MaxLoopBound {
		return nil
	}
	if numeric[fieldPrincipal] < 0 || numeric[fieldRate] < 0 {
		return nil
	}

	res := finance.CompoundGrowth(finance.GrowthInput{
		Principal:           numeric[fieldPrincipal],
		MonthlyContribution: numeric[fieldMonthlyContribution],
		AnnualRatePct:       numeric[fieldRate],
		Years:               years,
		Frequency:           finance.CompoundingFrequency(values.Text(spec, fieldFrequency)),
	})

	out := &presetResult{
		outputs: map[string]float64{
			"finalBalance":       res.FinalBalance,
			"totalContributions": res.TotalContributions,
			"totalInterest":      res.TotalInterest,
		},
		series: make(map[string][]seriesPoint),
	}
	for _, snap := range res.Schedule {
		out.series["balance"] = append(out.series["balance"], seriesPoint{snap.Year, snap.Balance})
		out.series["contributions"] = append(out.series["contributions"], seriesPoint{snap.Year, snap.Contributions})
		out.series["interest"] = append(out.series["interest"], seriesPoint{snap.Year, snap.Interest})
	}
	return out
}

func runAmortizingLoan(numeric map[string]float64) *presetResult {
	years := int(numeric[fieldYears])
	if years < 1 || years > 50 {
		return nil
	}
	if numeric[fieldHomePrice] <= 0 || numeric[fieldRate] < 0 {
		return nil
	}
	down := numeric[fieldDownPaymentPercent]
	if down < 0 || down >= 100 {
		return nil
	}

	in := finance.LoanInput{
		HomePrice:           numeric[fieldHomePrice],
		DownPaymentPct:      down,
		AnnualRatePct:       numeric[fieldRate],
		TermYears:           years,
		PropertyTaxRatePct:  numeric[fieldPropertyTaxRate],
		HomeInsuranceAnnual: numeric[fieldHomeInsuranceAnnual],
		HOAMonthly:          numeric[fieldHOAMonthly],
	}
	res := finance.AmortizingLoan(in)

	out := &presetResult{
		outputs: map[string]float64{
			"loanAmount":                  res.LoanAmount,
			"monthlyPrincipalAndInterest": res.MonthlyPrincipalAndInterest,
			"monthlyPropertyTax":          res.MonthlyPropertyTax,
			"monthlyInsurance":            res.MonthlyInsurance,
			"monthlyHOA":                  res.MonthlyHOA,
			"monthlyTotal":                res.MonthlyTotal,
			"totalInterestPaid":           res.TotalInterestPaid,
			"totalPrincipalPaid":          res.TotalPrincipalPaid,
		},
		series: make(map[string][]seriesPoint),
	}
	for _, snap := range res.Schedule {
		out.series["remainingBalance"] = append(out.series["remainingBalance"], seriesPoint{snap.Year, snap.RemainingBalance})
		out.series["cumulativeInterest"] = append(out.series["cumulativeInterest"], seriesPoint{snap.Year, snap.CumulativeInterest})
		out.series["cumulativePrincipal"] = append(out.series["cumulativePrincipal"], seriesPoint{snap.Year, snap.CumulativePrincipal})
	}

	if extra := numeric[fieldExtraMonthly]; extra > 0 {
		cmp := finance.CompareExtraPayment(in, extra)
		out.outputs["monthsSaved"] = float64(cmp.MonthsSaved)
		out.outputs["interestSaved"] = cmp.InterestSaved
	}
	return out
}

// schedulePoints converts the trusted schedule into chart points for the
// requested series, truncated to the loop bound. Growth schedules carry a
// year-0 snapshot so the chart starts at the initial principal.
func (p *presetResult) schedulePoints(series []projection.Series, bound int) []projection.Point {
	points := []projection.Point{}
	for idx := 0; ; idx++ {
		values := make(map[string]float64, len(series))
		year := -1
		for _, s := range series {
			sched, ok := p.series[s.DataKey]
			if !ok || idx >= len(sched) {
				continue
			}
			year = sched[idx].year
			values[s.DataKey] = sched[idx].value
		}
		if year < 0 || year > bound {
			break
		}
		points = append(points, projection.Point{Index: year, Values: values})
	}
	return points
}

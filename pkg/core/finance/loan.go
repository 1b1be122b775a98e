package finance

import "math"

// LoanInput holds fixed-rate mortgage parameters. Percent fields are whole
// percents (7 means 7%), matching how calculator input fields are authored.
type LoanInput struct {
	HomePrice           float64
	DownPaymentPct      float64
	AnnualRatePct       float64
	TermYears           int
	PropertyTaxRatePct  float64
	HomeInsuranceAnnual float64
	HOAMonthly          float64
}

// LoanYear is one year-boundary snapshot of the amortization loop.
type LoanYear struct {
	Year                int     `json:"year"`
	RemainingBalance    float64 `json:"remainingBalance"`
	CumulativeInterest  float64 `json:"cumulativeInterest"`
	CumulativePrincipal float64 `json:"cumulativePrincipal"`
}

// LoanResult carries the monthly payment breakdown, lifetime totals and the
// yearly amortization schedule. All currency figures are rounded at this
// reporting boundary only.
type LoanResult struct {
	LoanAmount                  float64    `json:"loanAmount"`
	MonthlyPrincipalAndInterest float64    `json:"monthlyPrincipalAndInterest"`
	MonthlyPropertyTax          float64    `json:"monthlyPropertyTax"`
	MonthlyInsurance            float64    `json:"monthlyInsurance"`
	MonthlyHOA                  float64    `json:"monthlyHOA"`
	MonthlyTotal                float64    `json:"monthlyTotal"`
	TotalInterestPaid           float64    `json:"totalInterestPaid"`
	TotalPrincipalPaid          float64    `json:"totalPrincipalPaid"`
	Schedule                    []LoanYear `json:"schedule"`
}

// AmortizingLoan computes the standard annuity payment and walks the
// month-by-month amortization.
//
// FORMULA: payment = P·i·(1+i)^n / ((1+i)^n − 1)
//
// with i = AnnualRatePct/100/12 and n = TermYears*12. The i = 0 degenerate
// case amortizes equally (P/n). The final principal payment is clamped to the
// remaining balance so floating-point drift cannot leave a negative balance.
func AmortizingLoan(in LoanInput) LoanResult {
	principal := in.HomePrice * (1 - in.DownPaymentPct/100)
	months := in.TermYears * 12
	monthlyRate := in.AnnualRatePct / 100 / 12

	var payment float64
	if monthlyRate == 0 {
		payment = principal / float64(months)
	} else {
		growth := math.Pow(1+monthlyRate, float64(months))
		payment = principal * monthlyRate * growth / (growth - 1)
	}

	balance := principal
	cumInterest := 0.0
	cumPrincipal := 0.0

	schedule := make([]LoanYear, 0, in.TermYears)
	for month := 1; month <= months; month++ {
		interest := balance * monthlyRate
		principalPaid := payment - interest
		if principalPaid > balance {
			principalPaid = balance
		}
		balance -= principalPaid
		cumInterest += interest
		cumPrincipal += principalPaid

		if month%12 == 0 {
			schedule = append(schedule, LoanYear{
				Year:                month / 12,
				RemainingBalance:    math.Round(balance),
				CumulativeInterest:  math.Round(cumInterest),
				CumulativePrincipal: math.Round(cumPrincipal),
			})
		}
	}

	// Tax and insurance are derived independently of the amortization loop and
	// summed with P&I and the fixed fee into the total monthly payment.
	monthlyTax := in.HomePrice * (in.PropertyTaxRatePct / 100) / 12
	monthlyInsurance := in.HomeInsuranceAnnual / 12
	monthlyTotal := payment + monthlyTax + monthlyInsurance + in.HOAMonthly

	return LoanResult{
		LoanAmount:                  math.Round(principal),
		MonthlyPrincipalAndInterest: roundCents(payment),
		MonthlyPropertyTax:          roundCents(monthlyTax),
		MonthlyInsurance:            roundCents(monthlyInsurance),
		MonthlyHOA:                  roundCents(in.HOAMonthly),
		MonthlyTotal:                roundCents(monthlyTotal),
		TotalInterestPaid:           math.Round(cumInterest),
		TotalPrincipalPaid:          math.Round(cumPrincipal),
		Schedule:                    schedule,
	}
}

// PayoffComparison contrasts the scheduled loan against the same loan with a
// fixed extra principal payment each month.
type PayoffComparison struct {
	MonthsSaved   int     `json:"monthsSaved"`
	InterestSaved float64 `json:"interestSaved"`
	PayoffMonths  int     `json:"payoffMonths"`
}

// CompareExtraPayment reruns the amortization loop with extra principal per
// month and reports the months and interest saved against the baseline.
func CompareExtraPayment(in LoanInput, extraMonthly float64) PayoffComparison {
	base := AmortizingLoan(in)

	principal := in.HomePrice * (1 - in.DownPaymentPct/100)
	months := in.TermYears * 12
	monthlyRate := in.AnnualRatePct / 100 / 12

	var payment float64
	if monthlyRate == 0 {
		payment = principal / float64(months)
	} else {
		growth := math.Pow(1+monthlyRate, float64(months))
		payment = principal * monthlyRate * growth / (growth - 1)
	}

	balance := principal
	interest := 0.0
	month := 0
	for balance > 0 && month < months {
		month++
		accrued := balance * monthlyRate
		principalPaid := payment + extraMonthly - accrued
		if principalPaid > balance {
			principalPaid = balance
		}
		balance -= principalPaid
		interest += accrued
	}

	return PayoffComparison{
		MonthsSaved:   months - month,
		InterestSaved: math.Round(base.TotalInterestPaid - math.Round(interest)),
		PayoffMonths:  month,
	}
}

// roundCents rounds a monthly currency figure to 2 decimals.
func roundCents(value float64) float64 {
	return math.Round(value*100) / 100
}

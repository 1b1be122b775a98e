package finance

import (
	"math"
	"testing"
)

func mortgageInput() LoanInput {
	return LoanInput{
		HomePrice:           400000,
		DownPaymentPct:      20,
		AnnualRatePct:       7,
		TermYears:           30,
		PropertyTaxRatePct:  1.2,
		HomeInsuranceAnnual: 1200,
		HOAMonthly:          0,
	}
}

func TestAmortizingLoanMortgageScenario(t *testing.T) {
	res := AmortizingLoan(mortgageInput())

	if res.LoanAmount != 320000 {
		t.Errorf("expected loan amount 320000, got %f", res.LoanAmount)
	}
	// Standard annuity: 320000 at 7%/30y comes to about $2,129/month.
	if math.Abs(res.MonthlyPrincipalAndInterest-2129) > 2 {
		t.Errorf("expected monthly P&I near 2129, got %f", res.MonthlyPrincipalAndInterest)
	}
	if math.Abs(res.TotalInterestPaid-446440) > 600 {
		t.Errorf("expected total interest near 446440, got %f", res.TotalInterestPaid)
	}

	// Tax: 400000 * 1.2% / 12 = 400/month. Insurance: 1200/12 = 100/month.
	if res.MonthlyPropertyTax != 400 {
		t.Errorf("expected monthly tax 400, got %f", res.MonthlyPropertyTax)
	}
	if res.MonthlyInsurance != 100 {
		t.Errorf("expected monthly insurance 100, got %f", res.MonthlyInsurance)
	}
	want := res.MonthlyPrincipalAndInterest + 400 + 100
	if math.Abs(res.MonthlyTotal-want) > 0.01 {
		t.Errorf("expected monthly total %f, got %f", want, res.MonthlyTotal)
	}
}

func TestAmortizingLoanPrincipalIdempotence(t *testing.T) {
	// The principal paid over the full schedule must equal the amount borrowed.
	inputs := []LoanInput{
		mortgageInput(),
		{HomePrice: 250000, DownPaymentPct: 10, AnnualRatePct: 5.5, TermYears: 15},
		{HomePrice: 100000, DownPaymentPct: 0, AnnualRatePct: 12, TermYears: 5},
	}
	for _, in := range inputs {
		res := AmortizingLoan(in)
		principal := in.HomePrice * (1 - in.DownPaymentPct/100)
		if math.Abs(res.TotalPrincipalPaid-principal) > 1 {
			t.Errorf("%+v: principal paid %f, borrowed %f", in, res.TotalPrincipalPaid, principal)
		}
	}
}

func TestAmortizingLoanZeroRate(t *testing.T) {
	res := AmortizingLoan(LoanInput{
		HomePrice:      120000,
		DownPaymentPct: 0,
		AnnualRatePct:  0,
		TermYears:      10,
	})

	// No division by zero: equal amortization of principal / n.
	want := 120000.0 / 120
	if res.MonthlyPrincipalAndInterest != want {
		t.Errorf("expected exact %f, got %f", want, res.MonthlyPrincipalAndInterest)
	}
	if res.TotalInterestPaid != 0 {
		t.Errorf("expected zero interest, got %f", res.TotalInterestPaid)
	}
}

func TestAmortizingLoanScheduleShape(t *testing.T) {
	res := AmortizingLoan(mortgageInput())

	if len(res.Schedule) != 30 {
		t.Fatalf("expected 30 yearly snapshots, got %d", len(res.Schedule))
	}
	final := res.Schedule[len(res.Schedule)-1]
	if final.RemainingBalance != 0 {
		t.Errorf("expected zero balance after final year, got %f", final.RemainingBalance)
	}

	// Balance decreases monotonically; cumulative figures increase.
	for i := 1; i < len(res.Schedule); i++ {
		prev, cur := res.Schedule[i-1], res.Schedule[i]
		if cur.RemainingBalance > prev.RemainingBalance {
			t.Errorf("year %d: balance rose from %f to %f", cur.Year, prev.RemainingBalance, cur.RemainingBalance)
		}
		if cur.CumulativeInterest < prev.CumulativeInterest || cur.CumulativePrincipal < prev.CumulativePrincipal {
			t.Errorf("year %d: cumulative figures must not decrease", cur.Year)
		}
	}
}

func TestCompareExtraPayment(t *testing.T) {
	cmp := CompareExtraPayment(mortgageInput(), 300)

	if cmp.MonthsSaved <= 0 {
		t.Errorf("extra payments should shorten the loan, saved %d months", cmp.MonthsSaved)
	}
	if cmp.InterestSaved <= 0 {
		t.Errorf("extra payments should save interest, saved %f", cmp.InterestSaved)
	}
	if cmp.PayoffMonths >= 360 {
		t.Errorf("expected payoff before 360 months, got %d", cmp.PayoffMonths)
	}

	// Zero extra changes nothing.
	same := CompareExtraPayment(mortgageInput(), 0)
	if same.MonthsSaved != 0 {
		t.Errorf("zero extra payment should save zero months, got %d", same.MonthsSaved)
	}
	if math.Abs(same.InterestSaved) > 1 {
		t.Errorf("zero extra payment should save no interest, got %f", same.InterestSaved)
	}
}

package calculator

import (
	"math"
	"testing"

	"wealthplan/pkg/core/projection"
)

func formulaSpec() Specification {
	return Specification{
		ID:    "simple-growth",
		Title: "Simple Growth",
		Inputs: []InputField{
			{ID: "principal", Label: "Starting amount", Type: FieldNumber, Default: 1000},
			{ID: "rate", Label: "Annual return", Type: FieldSlider, Min: 0, Max: 15, Step: 0.5, Default: 7},
			{ID: "years", Label: "Years", Type: FieldSlider, Min: 1, Max: 50, Step: 1, Default: 10},
		},
		Logic: Logic{Formula: "principal * (1 + rate / 100) ^ years"},
		Outputs: []OutputDefinition{
			{ID: "futureValue", Label: "Future value", Format: FormatCurrency, Formula: ""},
			{ID: "gain", Label: "Total gain", Format: FormatCurrency, Formula: "principal * (1 + rate / 100) ^ years - principal"},
			{ID: "orphan", Label: "No formula anywhere"},
			{ID: "broken", Label: "Bad formula", Formula: "nope +"},
		},
		Charts: []ChartDefinition{
			{
				ID:      "growth",
				LoopKey: "years",
				Series: []projection.Series{
					{Label: "Balance", DataKey: "balance", Formula: "principal * (1 + rate / 100) ^ i"},
				},
			},
		},
	}
}

func TestEvaluateFormulaOutputs(t *testing.T) {
	engine := NewEngine()
	res := engine.Evaluate(formulaSpec(), ValueBinding{"principal": 100.0, "rate": 8.0, "years": 9.0})

	want := 100 * math.Pow(1.08, 9)
	got, ok := res.Outputs["futureValue"]
	if !ok {
		t.Fatal("expected futureValue output (default formula)")
	}
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("expected futureValue %f, got %f", want, got)
	}

	gain, ok := res.Outputs["gain"]
	if !ok || math.Abs(gain-(want-100)) > 1e-6 {
		t.Errorf("expected gain %f, got %f (ok=%v)", want-100, gain, ok)
	}
}

func TestEvaluateMissingOutputsAreAbsent(t *testing.T) {
	engine := NewEngine()
	res := engine.Evaluate(formulaSpec(), ValueBinding{"principal": 100.0, "rate": 8.0, "years": 9.0})

	// Unresolvable and not-computable outputs are absent, not zero-filled:
	// "no value" must stay distinguishable from "computed to zero".
	if _, ok := res.Outputs["orphan"]; ok {
		t.Error("output without any formula must be absent")
	}
	if _, ok := res.Outputs["broken"]; ok {
		t.Error("NotComputable output must be absent")
	}
}

func TestEvaluateZeroIsPresent(t *testing.T) {
	spec := formulaSpec()
	spec.Outputs = append(spec.Outputs, OutputDefinition{ID: "zero", Formula: "principal - principal"})

	res := NewEngine().Evaluate(spec, ValueBinding{"principal": 100.0, "rate": 8.0, "years": 9.0})
	v, ok := res.Outputs["zero"]
	if !ok || v != 0 {
		t.Errorf("a genuine zero must be present, got %f (ok=%v)", v, ok)
	}
}

func TestEvaluateChartBoundSafety(t *testing.T) {
	engine := NewEngine()

	for _, years := range []float64{0, -3, 101} {
		res := engine.Evaluate(formulaSpec(), ValueBinding{"principal": 100.0, "rate": 8.0, "years": years})
		if _, ok := res.Charts["growth"]; ok {
			t.Errorf("years=%v: chart must be omitted", years)
		}
		// Outputs still computed; only the chart is dropped.
		if _, ok := res.Outputs["gain"]; !ok {
			t.Errorf("years=%v: outputs must survive an omitted chart", years)
		}
	}

	res := engine.Evaluate(formulaSpec(), ValueBinding{"principal": 100.0, "rate": 8.0, "years": 25.0})
	if len(res.Charts["growth"]) != 25 {
		t.Errorf("expected 25 chart points, got %d", len(res.Charts["growth"]))
	}
}

func TestEvaluateUsesDefaults(t *testing.T) {
	engine := NewEngine()
	// No explicit values at all: the spec defaults drive everything.
	res := engine.Evaluate(formulaSpec(), ValueBinding{})

	want := 1000 * math.Pow(1.07, 10)
	if math.Abs(res.Outputs["futureValue"]-want) > 1e-6 {
		t.Errorf("expected default-driven futureValue %f, got %f", want, res.Outputs["futureValue"])
	}
	if len(res.Charts["growth"]) != 10 {
		t.Errorf("expected 10 default chart points, got %d", len(res.Charts["growth"]))
	}
}

func TestEvaluateStringValuesParse(t *testing.T) {
	// Form state and query parameters arrive as strings.
	res := NewEngine().Evaluate(formulaSpec(), ValueBinding{"principal": "200", "rate": "10", "years": "2"})
	want := 200 * 1.1 * 1.1
	if math.Abs(res.Outputs["futureValue"]-want) > 1e-6 {
		t.Errorf("expected %f from string inputs, got %f", want, res.Outputs["futureValue"])
	}
}

func growthPresetSpec() Specification {
	return Specification{
		ID: "compound-growth",
		Inputs: []InputField{
			{ID: "principal", Type: FieldNumber, Default: 10000},
			{ID: "monthlyContribution", Type: FieldNumber, Default: 0},
			{ID: "rate", Type: FieldSlider, Default: 8},
			{ID: "years", Type: FieldSlider, Default: 9},
			{ID: "frequency", Type: FieldSelect, Default: "annually", Options: []string{"annually", "monthly", "daily"}},
		},
		Logic: Logic{Preset: PresetCompoundGrowth},
		Outputs: []OutputDefinition{
			{ID: "finalBalance", Format: FormatCurrency},
			{ID: "totalContributions", Format: FormatCurrency},
			{ID: "totalInterest", Format: FormatCurrency, Variant: "positive"},
		},
		Charts: []ChartDefinition{
			{
				ID:      "balance-over-time",
				LoopKey: "years",
				Series: []projection.Series{
					{Label: "Balance", DataKey: "balance"},
					{Label: "Contributions", DataKey: "contributions"},
				},
			},
		},
	}
}

func TestEvaluateCompoundGrowthPreset(t *testing.T) {
	res := NewEngine().Evaluate(growthPresetSpec(), ValueBinding{})

	final, ok := res.Outputs["finalBalance"]
	if !ok {
		t.Fatal("expected finalBalance from preset")
	}
	if math.Abs(final-19990) > 19990*0.02 {
		t.Errorf("expected final balance near 19990, got %f", final)
	}
	if res.Outputs["totalContributions"] != 10000 {
		t.Errorf("expected contributions 10000, got %f", res.Outputs["totalContributions"])
	}

	points := res.Charts["balance-over-time"]
	if len(points) != 10 { // year 0 snapshot + years 1..9
		t.Fatalf("expected 10 schedule points, got %d", len(points))
	}
	if points[0].Index != 0 || points[0].Values["balance"] != 10000 {
		t.Errorf("chart must start at the initial principal, got %+v", points[0])
	}
	if points[len(points)-1].Values["balance"] != final {
		t.Errorf("last point (%f) should match final balance (%f)",
			points[len(points)-1].Values["balance"], final)
	}
}

func TestEvaluatePresetDegenerateInputs(t *testing.T) {
	res := NewEngine().Evaluate(growthPresetSpec(), ValueBinding{"years": 0.0})
	if len(res.Outputs) != 0 {
		t.Errorf("degenerate preset inputs must produce no outputs, got %v", res.Outputs)
	}
	if len(res.Charts) != 0 {
		t.Errorf("degenerate preset inputs must produce no charts, got %d", len(res.Charts))
	}
}

func TestEvaluateAmortizingLoanPreset(t *testing.T) {
	spec := Specification{
		ID: "mortgage",
		Inputs: []InputField{
			{ID: "homePrice", Type: FieldNumber, Default: 400000},
			{ID: "downPaymentPercent", Type: FieldSlider, Default: 20},
			{ID: "rate", Type: FieldSlider, Default: 7},
			{ID: "years", Type: FieldSelect, Default: 30},
			{ID: "propertyTaxRate", Type: FieldNumber, Default: 1.2},
			{ID: "homeInsuranceAnnual", Type: FieldNumber, Default: 1200},
			{ID: "hoaFeesMonthly", Type: FieldNumber, Default: 0},
		},
		Logic: Logic{Preset: PresetAmortizingLoan},
		Outputs: []OutputDefinition{
			{ID: "monthlyPrincipalAndInterest", Format: FormatCurrency},
			{ID: "monthlyTotal", Format: FormatCurrency},
			{ID: "totalInterestPaid", Format: FormatCurrency, Variant: "negative"},
		},
		Charts: []ChartDefinition{
			{
				ID:      "amortization",
				LoopKey: "years",
				Series: []projection.Series{
					{Label: "Remaining balance", DataKey: "remainingBalance"},
					{Label: "Cumulative interest", DataKey: "cumulativeInterest"},
				},
			},
		},
	}

	res := NewEngine().Evaluate(spec, ValueBinding{})

	if math.Abs(res.Outputs["monthlyPrincipalAndInterest"]-2129) > 2 {
		t.Errorf("expected P&I near 2129, got %f", res.Outputs["monthlyPrincipalAndInterest"])
	}
	if math.Abs(res.Outputs["totalInterestPaid"]-446440) > 600 {
		t.Errorf("expected interest near 446440, got %f", res.Outputs["totalInterestPaid"])
	}

	points := res.Charts["amortization"]
	if len(points) != 30 {
		t.Fatalf("expected 30 amortization points, got %d", len(points))
	}
	if points[len(points)-1].Values["remainingBalance"] != 0 {
		t.Errorf("expected zero balance at term end, got %f", points[len(points)-1].Values["remainingBalance"])
	}
}

func TestEvaluatePresetOutputsVisibleToFormulas(t *testing.T) {
	spec := growthPresetSpec()
	spec.Outputs = append(spec.Outputs, OutputDefinition{
		ID:      "interestShare",
		Format:  FormatPercent,
		Formula: "totalInterest / finalBalance * 100",
	})

	res := NewEngine().Evaluate(spec, ValueBinding{})
	share, ok := res.Outputs["interestShare"]
	if !ok {
		t.Fatal("expected formula over preset outputs to compute")
	}
	want := res.Outputs["totalInterest"] / res.Outputs["finalBalance"] * 100
	if math.Abs(share-want) > 1e-9 {
		t.Errorf("expected %f, got %f", want, share)
	}
}

package projection

import (
	"math"
	"testing"
)

func growthChart() Chart {
	return Chart{
		LoopKey: "years",
		Series: []Series{
			{Label: "Balance", DataKey: "balance", Formula: "principal * (1 + rate / 100) ^ i"},
			{Label: "Contributions", DataKey: "contributions", Formula: "principal"},
		},
	}
}

func TestProjectPointCount(t *testing.T) {
	for _, bound := range []float64{1, 5, 100} {
		values := map[string]float64{"years": bound, "principal": 1000, "rate": 7}
		points, ok := Project(growthChart(), values)
		if !ok {
			t.Fatalf("bound %v: expected chart, got omission", bound)
		}
		if len(points) != int(bound) {
			t.Errorf("bound %v: expected %d points, got %d", bound, int(bound), len(points))
		}
	}
}

func TestProjectBoundOutOfRange(t *testing.T) {
	for _, bound := range []float64{0, 101, -5, 10000} {
		values := map[string]float64{"years": bound, "principal": 1000, "rate": 7}
		points, ok := Project(growthChart(), values)
		if ok {
			t.Errorf("bound %v: expected omission, got %d points", bound, len(points))
		}
		if points != nil {
			t.Errorf("bound %v: omitted chart must return nil points", bound)
		}
	}
}

func TestProjectMissingLoopKey(t *testing.T) {
	_, ok := Project(growthChart(), map[string]float64{"principal": 1000, "rate": 7})
	if ok {
		t.Errorf("expected omission when loop key is unbound")
	}
}

func TestProjectSeriesValues(t *testing.T) {
	values := map[string]float64{"years": 3, "principal": 1000, "rate": 10}
	points, ok := Project(growthChart(), values)
	if !ok {
		t.Fatal("expected chart")
	}

	for i, p := range points {
		if p.Index != i+1 {
			t.Errorf("point %d: expected index %d, got %d", i, i+1, p.Index)
		}
		want := 1000 * math.Pow(1.1, float64(i+1))
		if math.Abs(p.Values["balance"]-want) > 1e-6 {
			t.Errorf("point %d: expected balance %f, got %f", i, want, p.Values["balance"])
		}
		if p.Values["contributions"] != 1000 {
			t.Errorf("point %d: expected contributions 1000, got %f", i, p.Values["contributions"])
		}
	}
}

func TestProjectFailingSeriesZeroed(t *testing.T) {
	chart := Chart{
		LoopKey: "years",
		Series: []Series{
			{Label: "Good", DataKey: "good", Formula: "i * 2"},
			{Label: "Bad", DataKey: "bad", Formula: "nope +"},
			{Label: "Unbound", DataKey: "unbound", Formula: "missingVar * i"},
		},
	}
	points, ok := Project(chart, map[string]float64{"years": 4})
	if !ok {
		t.Fatal("one bad series must not omit the chart")
	}
	for _, p := range points {
		if p.Values["good"] != float64(p.Index*2) {
			t.Errorf("point %d: good series broken: %f", p.Index, p.Values["good"])
		}
		if p.Values["bad"] != 0 || p.Values["unbound"] != 0 {
			t.Errorf("point %d: failing series must contribute 0, got %v", p.Index, p.Values)
		}
	}
}

func TestProjectFractionalBoundTruncates(t *testing.T) {
	values := map[string]float64{"years": 3.9, "principal": 100, "rate": 5}
	points, ok := Project(growthChart(), values)
	if !ok || len(points) != 3 {
		t.Errorf("expected 3 points for bound 3.9, got %d (ok=%v)", len(points), ok)
	}
}

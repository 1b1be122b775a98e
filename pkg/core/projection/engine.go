// Package projection drives series formulas across a bounded loop index to
// produce chart-ready time series. The loop is hard-capped so a crafted
// specification cannot turn one evaluation call into unbounded work.
package projection

import (
	"math"

	"wealthplan/pkg/core/expr"
)

// MaxLoopBound caps how many points a single chart may generate.
const MaxLoopBound = 100

// Series names one line of a chart: a display label, the key its values are
// stored under, and the formula evaluated once per loop step.
type Series struct {
	Label   string `json:"label"`
	DataKey string `json:"dataKey"`
	Formula string `json:"formula"`
}

// Chart is the projection request: which input drives the time axis and the
// series to evaluate at each step.
type Chart struct {
	LoopKey string   `json:"loopKey"`
	Series  []Series `json:"series"`
}

// Point is one loop step. Values maps each series data key to its value at
// this step; a series whose formula failed contributes 0, not a missing key.
type Point struct {
	Index  int                `json:"index"`
	Values map[string]float64 `json:"values"`
}

// Bound extracts the loop bound from the value bound to the chart's loop key.
// ok is false when the key is unbound or the bound falls outside [1,100];
// the chart is omitted entirely in that case, never clamped.
func Bound(chart Chart, values map[string]float64) (int, bool) {
	raw, ok := values[chart.LoopKey]
	if !ok {
		return 0, false
	}
	bound := int(math.Trunc(raw))
	if bound < 1 || bound > MaxLoopBound {
		return 0, false
	}
	return bound, true
}

// Project materializes the full point sequence for one chart. The returned
// slice supports random access; consumers render whole charts, not streams.
//
// Each step binds the loop index as `i` on top of the caller's values. Series
// formulas are parsed once and evaluated independently per step; a failing
// series yields 0 for that point without aborting the rest of the loop.
func Project(chart Chart, values map[string]float64) ([]Point, bool) {
	bound, ok := Bound(chart, values)
	if !ok {
		return nil, false
	}

	// Parse up front; a series that never parses is 0 at every point.
	parsed := make([]*expr.Node, len(chart.Series))
	for s, series := range chart.Series {
		node, err := expr.Parse(series.Formula)
		if err != nil {
			continue
		}
		parsed[s] = node
	}

	base := make([]expr.Binding, 0, len(values)+1)
	for name, v := range values {
		base = append(base, expr.Binding{Name: name, Value: v})
	}

	points := make([]Point, 0, bound)
	for i := 1; i <= bound; i++ {
		step := append(base[:len(base):len(base)], expr.Binding{Name: "i", Value: float64(i)})
		point := Point{Index: i, Values: make(map[string]float64, len(chart.Series))}
		for s, series := range chart.Series {
			value := 0.0
			if parsed[s] != nil {
				if v, ok := expr.EvaluateNode(parsed[s], step); ok {
					value = v
				}
			}
			point.Values[series.DataKey] = value
		}
		points = append(points, point)
	}
	return points, true
}

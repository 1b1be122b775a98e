package calculator

import (
	"wealthplan/pkg/core/expr"
	"wealthplan/pkg/core/projection"
)

// Result is the synchronous output of one calculation pass. An output id is
// absent when its formula was missing or not computable, so "field not
// computable" stays distinguishable from "field computed to zero". A chart id
// is absent when its loop bound failed the safety check.
type Result struct {
	Outputs map[string]float64            `json:"outputs"`
	Charts  map[string][]projection.Point `json:"charts"`
}

// Engine is the calculation orchestrator. It is stateless and performs no
// I/O; concurrent calls share nothing.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate computes every output and chart of the specification against the
// given binding. Nothing here errors or panics: failures degrade to absent
// outputs, omitted charts, or zeroed series points.
func (e *Engine) Evaluate(spec Specification, values ValueBinding) Result {
	numeric := values.Numeric(spec)

	// Preset logic runs first; its totals become bound variables so authored
	// formulas can build on the trusted figures.
	var preset *presetResult
	if spec.Logic.Preset != "" {
		preset = runPreset(spec, values, numeric)
	}

	vars := make(map[string]float64, len(numeric))
	for k, v := range numeric {
		vars[k] = v
	}
	if preset != nil {
		for k, v := range preset.outputs {
			vars[k] = v
		}
	}
	bindings := make([]expr.Binding, 0, len(vars))
	for name, v := range vars {
		bindings = append(bindings, expr.Binding{Name: name, Value: v})
	}

	outputs := make(map[string]float64)
	for _, def := range spec.Outputs {
		formula := def.Formula
		if formula == "" {
			formula = spec.Logic.Formula
		}
		if formula != "" {
			if v, ok := expr.Evaluate(formula, bindings); ok {
				outputs[def.ID] = v
			}
			continue
		}
		if preset != nil {
			if v, ok := preset.outputs[def.ID]; ok {
				outputs[def.ID] = v
			}
		}
		// No override, no default, no preset figure: the key stays absent.
	}

	charts := make(map[string][]projection.Point)
	for _, chart := range spec.Charts {
		if points, ok := e.chartPoints(chart, vars, preset); ok {
			charts[chart.ID] = points
		}
	}

	return Result{Outputs: outputs, Charts: charts}
}

// chartPoints builds one chart. Preset-backed charts (every series formula
// empty) read straight from the trusted schedule; anything else goes through
// the generic projection loop. Both paths honor the loop-bound safety check.
func (e *Engine) chartPoints(chart ChartDefinition, vars map[string]float64, preset *presetResult) ([]projection.Point, bool) {
	proj := projection.Chart{LoopKey: chart.LoopKey, Series: chart.Series}

	if preset != nil && allFormulasEmpty(chart.Series) {
		bound, ok := projection.Bound(proj, vars)
		if !ok {
			return nil, false
		}
		return preset.schedulePoints(chart.Series, bound), true
	}
	return projection.Project(proj, vars)
}

func allFormulasEmpty(series []projection.Series) bool {
	for _, s := range series {
		if s.Formula != "" {
			return false
		}
	}
	return len(series) > 0
}

// Package calculator holds the declarative calculator model and the
// calculation orchestrator. A Specification is an immutable aggregate authored
// externally; the engine only reads it. A ValueBinding is the ephemeral,
// request-scoped assignment of concrete values to the specification's inputs.
package calculator

import (
	"fmt"
	"strconv"

	"wealthplan/pkg/core/expr"
	"wealthplan/pkg/core/projection"
)

// FieldType is the closed set of input widget types.
type FieldType string

const (
	FieldSlider FieldType = "slider"
	FieldNumber FieldType = "number"
	FieldSelect FieldType = "select"
)

// OutputFormat is the closed set of display formats. Presentation-only; the
// engine never branches on it.
type OutputFormat string

const (
	FormatCurrency OutputFormat = "currency"
	FormatPercent  OutputFormat = "percent"
	FormatNumber   OutputFormat = "number"
)

// InputField describes one authored input. ID doubles as the formula variable
// name, so it must be a valid identifier and unique within the specification.
type InputField struct {
	ID      string    `json:"id"`
	Label   string    `json:"label"`
	Type    FieldType `json:"type"`
	Min     float64   `json:"min,omitempty"`
	Max     float64   `json:"max,omitempty"`
	Step    float64   `json:"step,omitempty"`
	Default any       `json:"default,omitempty"`
	Unit    string    `json:"unit,omitempty"`
	Options []string  `json:"options,omitempty"`
}

// OutputDefinition describes one computed figure. Formula overrides the
// specification-level default; when both are empty the output resolves from
// the preset result (if any) or is omitted.
type OutputDefinition struct {
	ID      string       `json:"id"`
	Label   string       `json:"label"`
	Formula string       `json:"formula,omitempty"`
	Format  OutputFormat `json:"format,omitempty"`
	Variant string       `json:"variant,omitempty"` // positive | negative | neutral, presentation-only
}

// ChartDefinition names a projection: the input that drives the time axis and
// the series evaluated per step.
type ChartDefinition struct {
	ID      string              `json:"id"`
	LoopKey string              `json:"loopKey"`
	Series  []projection.Series `json:"series"`
}

// Logic selects the calculation backing: a default free-form formula, or one
// of the trusted named presets.
type Logic struct {
	Formula string `json:"formula,omitempty"`
	Preset  string `json:"preset,omitempty"`
}

// Preset names accepted in Logic.Preset.
const (
	PresetCompoundGrowth = "compound-growth"
	PresetAmortizingLoan = "amortizing-loan"
)

// Specification is the full declarative description of one calculator.
type Specification struct {
	ID      string             `json:"id"`
	Title   string             `json:"title"`
	Inputs  []InputField       `json:"inputs"`
	Logic   Logic              `json:"logic"`
	Outputs []OutputDefinition `json:"outputs"`
	Charts  []ChartDefinition  `json:"charts"`
}

// Validate checks the structural invariants an authoring tool must uphold:
// input ids are identifier-safe and unique, presets are known names.
func (s Specification) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("specification id is required")
	}
	seen := make(map[string]bool, len(s.Inputs))
	for _, in := range s.Inputs {
		if !expr.IsIdentifier(in.ID) {
			return fmt.Errorf("input id %q is not a valid identifier", in.ID)
		}
		if seen[in.ID] {
			return fmt.Errorf("duplicate input id %q", in.ID)
		}
		seen[in.ID] = true
	}
	if s.Logic.Preset != "" && s.Logic.Preset != PresetCompoundGrowth && s.Logic.Preset != PresetAmortizingLoan {
		return fmt.Errorf("unknown preset %q", s.Logic.Preset)
	}
	return nil
}

// ValueBinding maps input ids to concrete values for one evaluation. Values
// are numbers or strings (select fields); everything else is ignored by the
// numeric view.
type ValueBinding map[string]any

// Numeric returns the float view of the binding, merged over the
// specification's defaults. Strings that parse as numbers count as numbers
// (form state and URL query parameters arrive as strings).
func (v ValueBinding) Numeric(spec Specification) map[string]float64 {
	out := make(map[string]float64, len(v))
	for _, field := range spec.Inputs {
		if f, ok := toFloat(field.Default); ok {
			out[field.ID] = f
		}
	}
	for key, raw := range v {
		if f, ok := toFloat(raw); ok {
			out[key] = f
		}
	}
	return out
}

// Text returns the string value bound to key, falling back to the field
// default. Used for select fields like compounding frequency.
func (v ValueBinding) Text(spec Specification, key string) string {
	if raw, ok := v[key]; ok {
		if s, ok := raw.(string); ok {
			return s
		}
	}
	for _, field := range spec.Inputs {
		if field.ID == key {
			if s, ok := field.Default.(string); ok {
				return s
			}
		}
	}
	return ""
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

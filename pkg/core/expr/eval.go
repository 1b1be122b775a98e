package expr

import (
	"fmt"
	"math"
)

// Binding associates a variable name with a numeric value for one evaluation.
// Bindings are ordered; when the same name appears twice the later value wins,
// which lets callers layer a loop index over a base set without copying.
type Binding struct {
	Name  string
	Value float64
}

type builtin struct {
	arity int
	fn    func(args []float64) float64
}

// Allow-listed math functions. Anything not in this table fails to parse.
var functions = map[string]builtin{
	"min":   {2, func(a []float64) float64 { return math.Min(a[0], a[1]) }},
	"max":   {2, func(a []float64) float64 { return math.Max(a[0], a[1]) }},
	"pow":   {2, func(a []float64) float64 { return math.Pow(a[0], a[1]) }},
	"sqrt":  {1, func(a []float64) float64 { return math.Sqrt(a[0]) }},
	"abs":   {1, func(a []float64) float64 { return math.Abs(a[0]) }},
	"floor": {1, func(a []float64) float64 { return math.Floor(a[0]) }},
	"ceil":  {1, func(a []float64) float64 { return math.Ceil(a[0]) }},
	"round": {1, func(a []float64) float64 { return math.Round(a[0]) }},
	"log":   {1, func(a []float64) float64 { return math.Log(a[0]) }},
	"exp":   {1, func(a []float64) float64 { return math.Exp(a[0]) }},
}

// Eval walks the tree against the supplied variables. Unknown variables are an
// error here; Evaluate converts that into the NotComputable sentinel.
func (n *Node) Eval(vars map[string]float64) (float64, error) {
	switch n.Kind {
	case NodeNumber:
		return n.Value, nil

	case NodeVariable:
		v, ok := vars[n.Name]
		if !ok {
			return 0, fmt.Errorf("unbound variable %q", n.Name)
		}
		return v, nil

	case NodeUnary:
		v, err := n.Args[0].Eval(vars)
		if err != nil {
			return 0, err
		}
		return -v, nil

	case NodeBinary:
		l, err := n.Args[0].Eval(vars)
		if err != nil {
			return 0, err
		}
		r, err := n.Args[1].Eval(vars)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case "+":
			return l + r, nil
		case "-":
			return l - r, nil
		case "*":
			return l * r, nil
		case "/":
			return l / r, nil // ±Inf/NaN caught by the finiteness check
		case "%":
			return math.Mod(l, r), nil
		case "^":
			return math.Pow(l, r), nil
		case "<":
			return boolVal(l < r), nil
		case "<=":
			return boolVal(l <= r), nil
		case ">":
			return boolVal(l > r), nil
		case ">=":
			return boolVal(l >= r), nil
		case "==":
			return boolVal(l == r), nil
		case "!=":
			return boolVal(l != r), nil
		}
		return 0, fmt.Errorf("unknown operator %q", n.Op)

	case NodeCall:
		fn := functions[n.Name]
		args := make([]float64, len(n.Args))
		for i, a := range n.Args {
			v, err := a.Eval(vars)
			if err != nil {
				return 0, err
			}
			args[i] = v
		}
		return fn.fn(args), nil
	}
	return 0, fmt.Errorf("invalid node kind %d", n.Kind)
}

func boolVal(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Evaluate runs a formula against the given bindings and returns (value, true),
// or (0, false) when the formula does not parse, references an unbound name,
// or produces a non-finite number. This is the only entry point the
// calculation pass uses: a malformed formula degrades silently instead of
// aborting the pass.
func Evaluate(formula string, bindings []Binding) (float64, bool) {
	node, err := Parse(formula)
	if err != nil {
		return 0, false
	}
	return EvaluateNode(node, bindings)
}

// EvaluateNode applies the fail-closed contract to an already-parsed tree.
// Callers that evaluate the same formula many times (the projection loop)
// parse once and reuse the node.
func EvaluateNode(node *Node, bindings []Binding) (float64, bool) {
	vars := make(map[string]float64, len(bindings))
	for _, b := range bindings {
		if !IsIdentifier(b.Name) {
			return 0, false
		}
		vars[b.Name] = b.Value
	}
	v, err := node.Eval(vars)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

package calculator

import (
	"encoding/json"
	"fmt"
	"net/http"

	core "wealthplan/pkg/core/calculator"
)

type EvaluateRequest struct {
	CalculatorID string              `json:"calculatorId"`
	Values       core.ValueBinding   `json:"values"`
	Spec         *core.Specification `json:"spec,omitempty"` // inline spec for previewing unsaved documents
}

// Handler holds dependencies for calculator endpoints
type Handler struct {
	Specs  map[string]core.Specification
	Engine *core.Engine
}

// NewHandler creates a new calculator handler over the loaded spec library
func NewHandler(specs map[string]core.Specification) *Handler {
	return &Handler{
		Specs:  specs,
		Engine: core.NewEngine(),
	}
}

// HandleList returns the loaded specifications so a UI can render forms.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers for local dev
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	list := make([]core.Specification, 0, len(h.Specs))
	for _, spec := range h.Specs {
		list = append(list, spec)
	}
	json.NewEncoder(w).Encode(list)
}

// HandleEvaluate runs one calculation pass and returns outputs and charts.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	spec, err := h.resolveSpec(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := h.Engine.Evaluate(spec, req.Values)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *Handler) resolveSpec(req EvaluateRequest) (core.Specification, error) {
	if req.Spec != nil {
		if err := req.Spec.Validate(); err != nil {
			return core.Specification{}, err
		}
		return *req.Spec, nil
	}
	if spec, ok := h.Specs[req.CalculatorID]; ok {
		return spec, nil
	}
	return core.Specification{}, fmt.Errorf("unknown calculator: %s", req.CalculatorID)
}

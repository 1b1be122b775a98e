package insight

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/yuin/goldmark"

	core "wealthplan/pkg/core/insight"
)

// CommentaryResponse wraps the pipeline result with the markdown rendered to
// HTML so clients can display it directly.
type CommentaryResponse struct {
	core.CommentaryResult
	ContentHTML string `json:"contentHtml,omitempty"`
}

// Handler holds dependencies for commentary endpoints
type Handler struct {
	Service *core.Service
}

// NewHandler creates a new insight handler
func NewHandler(service *core.Service) *Handler {
	return &Handler{Service: service}
}

// HandleCommentary resolves a commentary request through the heuristics →
// cache → provider pipeline and returns the content with its provenance.
func (h *Handler) HandleCommentary(w http.ResponseWriter, r *http.Request) {
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

	var req core.CommentaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.CalculatorID == "" {
		http.Error(w, "calculatorId is required", http.StatusBadRequest)
		return
	}

	result := h.Service.Commentary(r.Context(), req)

	resp := CommentaryResponse{CommentaryResult: result}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(result.Content), &buf); err == nil {
		resp.ContentHTML = buf.String()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

package insight

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"wealthplan/pkg/core/prompt"
	"wealthplan/pkg/core/store"
	"wealthplan/pkg/core/utils"
)

// Generator is the slice of the llm manager the service needs. Kept narrow so
// tests can substitute a canned generator.
type Generator interface {
	Generate(ctx context.Context, prompt, systemPrompt string) (string, error)
	ActiveProvider() string
	ActiveModel() string
}

// CommentaryRequest carries one request for generated commentary: which
// calculator ran, the inputs that drove it, its results, and optionally the
// user's broader financial profile.
type CommentaryRequest struct {
	CalculatorID string             `json:"calculatorId"`
	Inputs       map[string]float64 `json:"inputs"`
	Results      map[string]float64 `json:"results"`
	Profile      *Profile           `json:"profile,omitempty"`
}

// CommentaryResult reports the content and where it came from.
type CommentaryResult struct {
	Content  string `json:"content"`
	Source   string `json:"source"` // heuristic | cache | generated | fallback
	Hash     string `json:"hash,omitempty"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

const systemPrompt = "You are a financial educator writing for a general audience. " +
	"Explain what the numbers mean in plain language, 3-5 sentences, encouraging but realistic. " +
	"Never give individualized investment advice; frame everything as education."

// Service is the commentary pipeline: deterministic heuristics first, then the
// bucketed-hash cache, then the generation provider. A store failure never
// fails the request; it only costs a regeneration.
type Service struct {
	store store.CommentaryStore
	llm   Generator
}

func NewService(st store.CommentaryStore, gen Generator) *Service {
	return &Service{store: st, llm: gen}
}

// Commentary resolves one request through the pipeline.
func (s *Service) Commentary(ctx context.Context, req CommentaryRequest) CommentaryResult {
	// 1. Rule layer: always-correct canned answers short-circuit everything,
	// including hashing.
	if req.Profile != nil {
		if response, matched := EvaluateHeuristics(*req.Profile); matched {
			return CommentaryResult{Content: response, Source: "heuristic"}
		}
	}

	hash := s.hashRequest(req)

	// 2. Cache. Store errors are logged and treated as misses.
	if entry, found, err := s.store.Get(ctx, hash); err != nil {
		log.Printf("Warning: commentary cache get failed: %v", err)
	} else if found {
		return CommentaryResult{
			Content:  entry.Content,
			Source:   "cache",
			Hash:     hash,
			Provider: entry.Provider,
			Model:    entry.Model,
		}
	}

	// 3. Generate fresh content; fall back to a deterministic template when
	// the provider is unavailable.
	userPrompt, sysPrompt, structured := s.buildPrompt(req)
	content, err := s.llm.Generate(ctx, userPrompt, sysPrompt)
	if err != nil {
		log.Printf("Warning: commentary generation failed: %v", err)
		return CommentaryResult{Content: s.fallback(req), Source: "fallback", Hash: hash}
	}
	content = s.extractContent(content, structured)

	entry := store.NewEntry(hash, content, s.llm.ActiveProvider(), s.llm.ActiveModel())
	if err := s.store.Put(ctx, entry); err != nil {
		log.Printf("Warning: commentary cache put failed: %v", err)
	}

	return CommentaryResult{
		Content:  content,
		Source:   "generated",
		Hash:     hash,
		Provider: entry.Provider,
		Model:    entry.Model,
	}
}

// hashRequest prefers the full profile when present; otherwise it keys on the
// calculator result figures.
func (s *Service) hashRequest(req CommentaryRequest) string {
	if req.Profile != nil {
		return HashProfile(*req.Profile)
	}
	return HashCalculation(CalcKey{
		CalculatorID: req.CalculatorID,
		Dominant:     dominantFigure(req.Results),
		RatePct:      req.Inputs["rate"],
		Years:        int(req.Inputs["years"]),
	})
}

// dominantFigure picks the headline result: final balance for growth
// calculators, total or monthly payment for loans.
func dominantFigure(results map[string]float64) float64 {
	for _, key := range []string{"finalBalance", "totalPayment", "monthlyTotal", "totalInterestPaid"} {
		if v, ok := results[key]; ok {
			return v
		}
	}
	return 0
}

// buildPrompt prefers a registered template for this calculator, then the
// category default, then a hardcoded prompt so generation works even with no
// template files on disk.
func (s *Service) buildPrompt(req CommentaryRequest) (userPrompt, sysPrompt string, structured bool) {
	registry := prompt.Get()
	tmpl, ok := registry.Lookup("commentary." + req.CalculatorID)
	if !ok {
		tmpl, ok = registry.Lookup("commentary.default")
	}
	if ok {
		ctx := prompt.NewContext().
			Set("CalculatorID", req.CalculatorID).
			Set("Inputs", formatFigures(req.Inputs)).
			Set("Results", formatFigures(req.Results))
		rendered, err := prompt.Render(tmpl, ctx)
		if err == nil {
			sys := tmpl.SystemPrompt
			if sys == "" {
				sys = systemPrompt
			}
			return rendered, sys, tmpl.ResponseFormat == "json"
		}
		log.Printf("Warning: prompt template %s failed to render: %v", tmpl.ID, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "A visitor ran the %q calculator.\n\nInputs:\n%s", req.CalculatorID, formatFigures(req.Inputs))
	fmt.Fprintf(&b, "\nResults:\n%s", formatFigures(req.Results))
	b.WriteString("\nWrite a short educational commentary on what these results mean.")
	return b.String(), systemPrompt, false
}

func formatFigures(figures map[string]float64) string {
	keys := make([]string, 0, len(figures))
	for key := range figures {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "- %s: %.2f\n", key, figures[key])
	}
	return b.String()
}

// structuredCommentary is the JSON shape templates with response_format
// "json" ask the model for.
type structuredCommentary struct {
	Headline string `json:"headline"`
	Body     string `json:"body"`
}

// extractContent turns raw model output into stored markdown. Structured
// responses that fail to parse degrade to plain markdown cleanup rather than
// failing the request.
func (s *Service) extractContent(raw string, structured bool) string {
	if structured {
		var sc structuredCommentary
		if err := utils.DecodeLoose(raw, &sc); err == nil && sc.Body != "" {
			if sc.Headline != "" {
				return fmt.Sprintf("## %s\n\n%s", sc.Headline, strings.TrimSpace(sc.Body))
			}
			return strings.TrimSpace(sc.Body)
		}
	}
	return utils.CleanMarkdown(raw)
}

func (s *Service) fallback(req CommentaryRequest) string {
	if v, ok := req.Results["finalBalance"]; ok {
		return fmt.Sprintf(
			"Based on your inputs, your balance is projected to reach $%.0f. The biggest drivers of that number are "+
				"how much you contribute and how long you stay invested; small changes to either compound significantly over time.", v)
	}
	if v, ok := req.Results["monthlyTotal"]; ok {
		return fmt.Sprintf(
			"Your estimated total monthly payment is $%.0f. Remember that early payments go mostly to interest; "+
				"paying even a little extra toward principal in the early years shortens the loan disproportionately.", v)
	}
	return "These results are estimates based on the numbers you entered. Try adjusting one input at a time to see which factors move the outcome most."
}

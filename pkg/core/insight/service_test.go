package insight

import (
	"context"
	"errors"
	"testing"

	"wealthplan/pkg/core/store"
)

type stubGenerator struct {
	response string
	err      error
	calls    int
}

func (g *stubGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func (g *stubGenerator) ActiveProvider() string { return "stub" }
func (g *stubGenerator) ActiveModel() string    { return "stub-model" }

// failingStore errors on every operation, modeling an unreachable cache.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (*store.Entry, bool, error) {
	return nil, false, errors.New("store unavailable")
}
func (failingStore) Put(context.Context, *store.Entry) error {
	return errors.New("store unavailable")
}

func growthRequest() CommentaryRequest {
	return CommentaryRequest{
		CalculatorID: "compound-growth",
		Inputs:       map[string]float64{"principal": 10000, "rate": 7, "years": 30},
		Results:      map[string]float64{"finalBalance": 76123},
	}
}

func TestHeuristicShortCircuitsEverything(t *testing.T) {
	gen := &stubGenerator{response: "generated"}
	svc := NewService(store.NewMemoryStore(), gen)

	req := growthRequest()
	req.Profile = &Profile{AnnualIncome: 50000, TotalDebt: 40000}

	result := svc.Commentary(context.Background(), req)
	if result.Source != "heuristic" {
		t.Fatalf("expected heuristic source, got %q", result.Source)
	}
	if result.Hash != "" {
		t.Error("heuristic responses must not be hashed")
	}
	if gen.calls != 0 {
		t.Error("heuristic match must not call the generator")
	}
}

func TestGenerateThenCacheHit(t *testing.T) {
	gen := &stubGenerator{response: "```markdown\nCompounding works in your favor.\n```"}
	mem := store.NewMemoryStore()
	svc := NewService(mem, gen)

	first := svc.Commentary(context.Background(), growthRequest())
	if first.Source != "generated" {
		t.Fatalf("expected generated source, got %q", first.Source)
	}
	if first.Content != "Compounding works in your favor." {
		t.Errorf("expected cleaned markdown, got %q", first.Content)
	}
	if mem.Len() != 1 {
		t.Fatalf("expected one cached entry, got %d", mem.Len())
	}

	second := svc.Commentary(context.Background(), growthRequest())
	if second.Source != "cache" {
		t.Fatalf("expected cache source on repeat request, got %q", second.Source)
	}
	if second.Content != first.Content {
		t.Error("cache hit must return the stored content")
	}
	if gen.calls != 1 {
		t.Errorf("second request must not regenerate, generator called %d times", gen.calls)
	}
}

func TestBucketedRequestsShareCacheEntry(t *testing.T) {
	gen := &stubGenerator{response: "shared"}
	mem := store.NewMemoryStore()
	svc := NewService(mem, gen)

	a := growthRequest()
	a.Results["finalBalance"] = 76123
	svc.Commentary(context.Background(), a)

	b := growthRequest()
	b.Results["finalBalance"] = 76899 // same 1,000 bucket
	result := svc.Commentary(context.Background(), b)

	if result.Source != "cache" {
		t.Fatalf("bucketed-equivalent request must hit the cache, got %q", result.Source)
	}
	if gen.calls != 1 {
		t.Errorf("expected a single generation for both requests, got %d", gen.calls)
	}
}

func TestStoreFailureDegradesToRegeneration(t *testing.T) {
	gen := &stubGenerator{response: "fresh"}
	svc := NewService(failingStore{}, gen)

	result := svc.Commentary(context.Background(), growthRequest())
	if result.Source != "generated" {
		t.Fatalf("store failure must not fail the request, got source %q", result.Source)
	}
	if result.Content != "fresh" {
		t.Errorf("expected generated content, got %q", result.Content)
	}
}

func TestGenerationFailureFallsBack(t *testing.T) {
	gen := &stubGenerator{err: errors.New("provider down")}
	svc := NewService(store.NewMemoryStore(), gen)

	result := svc.Commentary(context.Background(), growthRequest())
	if result.Source != "fallback" {
		t.Fatalf("expected fallback source, got %q", result.Source)
	}
	if result.Content == "" {
		t.Error("fallback must still produce commentary")
	}
}

func TestProfileHashPreferredOverCalcKey(t *testing.T) {
	gen := &stubGenerator{response: "profiled"}
	mem := store.NewMemoryStore()
	svc := NewService(mem, gen)

	req := growthRequest()
	req.Profile = &Profile{AnnualIncome: 90000, TotalAssets: 60000, TotalDebt: 5000, Age: 40}

	result := svc.Commentary(context.Background(), req)
	if result.Source != "generated" {
		t.Fatalf("healthy profile must fall through heuristics to generation, got %q", result.Source)
	}
	if want := HashProfile(*req.Profile); result.Hash != want {
		t.Errorf("expected profile hash %s, got %s", want, result.Hash)
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	apicalculator "wealthplan/pkg/api/calculator"
	apiconfig "wealthplan/pkg/api/config"
	apiinsight "wealthplan/pkg/api/insight"
	"wealthplan/pkg/core/calculator"
	"wealthplan/pkg/core/insight"
	"wealthplan/pkg/core/llm"
	"wealthplan/pkg/core/prompt"
	"wealthplan/pkg/core/store"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Prompt library: optional, hardcoded prompts cover a missing directory
	if err := prompt.LoadFromDirectory("prompts"); err != nil {
		fmt.Printf("[WARNING] Failed to load prompt library: %v\n", err)
		fmt.Println("  Falling back to hardcoded prompts")
	}

	// Provider manager from config
	manager := llm.NewManagerFromFile("config/models.yaml")
	fmt.Printf("[LLM] Active provider: %s\n", manager.ActiveProvider())

	// Calculator specification library
	specs, err := calculator.LoadSpecificationDir("specs")
	if err != nil {
		fmt.Printf("[WARNING] Failed to load specifications: %v\n", err)
		specs = map[string]calculator.Specification{}
	}
	fmt.Printf("[SPECS] Loaded %d calculator specifications\n", len(specs))

	// Commentary store: Redis, then Postgres, then in-process memory
	commentaryStore := selectStore()
	service := insight.NewService(commentaryStore, manager)

	// Config endpoints
	configHandler := apiconfig.NewHandler(manager)
	http.HandleFunc("/api/config", configHandler.HandleConfig)
	http.HandleFunc("/api/config/switch", configHandler.HandleSwitch)

	// Calculator endpoints
	calcHandler := apicalculator.NewHandler(specs)
	http.HandleFunc("/api/calculators", calcHandler.HandleList)
	http.HandleFunc("/api/calculators/evaluate", calcHandler.HandleEvaluate)

	// Commentary endpoint
	insightHandler := apiinsight.NewHandler(service)
	http.HandleFunc("/api/commentary", insightHandler.HandleCommentary)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("API server starting on :%s...\n", port)
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - POST /api/config/switch")
	fmt.Println("  - GET  /api/calculators")
	fmt.Println("  - POST /api/calculators/evaluate")
	fmt.Println("  - POST /api/commentary")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}

// selectStore picks the commentary store from the environment: REDIS_ADDR
// first, DATABASE_URL second, in-process memory as the fallback for local
// runs.
func selectStore() store.CommentaryStore {
	ctx := context.Background()

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rs := store.NewRedisStore(addr)
		if err := rs.Ping(ctx); err != nil {
			fmt.Printf("[WARNING] Redis unreachable at %s: %v\n", addr, err)
		} else {
			fmt.Printf("[STORE] Using Redis at %s\n", addr)
			return rs
		}
	}

	if os.Getenv("DATABASE_URL") != "" {
		ps, err := store.NewPostgresStore(ctx)
		if err != nil {
			fmt.Printf("[WARNING] Postgres store unavailable: %v\n", err)
		} else {
			fmt.Println("[STORE] Using Postgres")
			return ps
		}
	}

	fmt.Println("[STORE] Using in-process memory store")
	return store.NewMemoryStore()
}

// Package llm is the boundary client for commentary generation. The engine
// decides whether to call a provider and what hash to cache the result under;
// how the text is produced stays behind this interface.
package llm

import (
	"context"
)

// Provider is the interface every model vendor implements.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
	// Name identifies the vendor for cache provenance.
	Name() string
}

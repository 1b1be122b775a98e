package llm

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config selects the active provider and model, loaded from config/models.yaml.
type Config struct {
	ActiveProvider string            `yaml:"active_provider"`
	Models         map[string]string `yaml:"models"` // provider -> model override
}

// Manager owns the provider instances and routes generation requests to the
// active one.
type Manager struct {
	config    Config
	providers map[string]Provider
}

func NewManager(config Config) *Manager {
	if config.ActiveProvider == "" {
		config.ActiveProvider = "openai"
	}
	return &Manager{
		config: config,
		providers: map[string]Provider{
			"openai": &OpenAIProvider{Model: config.Models["openai"]},
			"gemini": &GeminiProvider{Model: config.Models["gemini"]},
		},
	}
}

// NewManagerFromFile loads the yaml config; a missing file yields defaults.
func NewManagerFromFile(path string) *Manager {
	var config Config
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			fmt.Printf("[WARNING] Bad model config %s: %v\n", path, err)
		}
	}
	return NewManager(config)
}

// ActiveProvider returns the configured provider name.
func (m *Manager) ActiveProvider() string {
	return m.config.ActiveProvider
}

// ActiveModel returns the configured model for the active provider, or "" for
// the provider default.
func (m *Manager) ActiveModel() string {
	return m.config.Models[m.config.ActiveProvider]
}

// SetActiveProvider switches the global provider at runtime.
func (m *Manager) SetActiveProvider(name string) error {
	if _, ok := m.providers[name]; !ok {
		return fmt.Errorf("provider %s not found", name)
	}
	m.config.ActiveProvider = name
	return nil
}

// Generate routes a prompt to the active provider.
func (m *Manager) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	provider, ok := m.providers[m.config.ActiveProvider]
	if !ok {
		return "", fmt.Errorf("provider %s not configured", m.config.ActiveProvider)
	}
	return provider.GenerateResponse(ctx, prompt, systemPrompt, map[string]interface{}{
		"model": m.ActiveModel(),
	})
}

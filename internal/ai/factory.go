package ai

import (
	"context"
	"fmt"
	"sync"

	"github.com/kozaktomas/looksmaxxer/internal/config"
	"github.com/kozaktomas/looksmaxxer/internal/constants"
)

// Providers lists the names NewProvider accepts.
var Providers = []string{constants.ProviderOpenAI, constants.ProviderGemini, constants.ProviderOllama}

// NewProvider creates the provider called name from cfg. An empty name
// selects constants.DefaultProvider.
func NewProvider(ctx context.Context, cfg *config.Config, name string) (Provider, error) {
	if name == "" {
		name = constants.DefaultProvider
	}

	switch name {
	case constants.ProviderOpenAI:
		if cfg.OpenAI.Token == "" {
			return nil, fmt.Errorf("%w: OPENAI_TOKEN environment variable is required", ErrProviderUnavailable)
		}
		return NewOpenAIProvider(cfg.OpenAI.Token, standardPricing(cfg, constants.OpenAIModel)), nil
	case constants.ProviderGemini:
		if cfg.Gemini.APIKey == "" {
			return nil, fmt.Errorf("%w: GEMINI_API_KEY environment variable is required", ErrProviderUnavailable)
		}
		provider, err := NewGeminiProvider(ctx, cfg.Gemini.APIKey, standardPricing(cfg, constants.GeminiModel))
		if err != nil {
			return nil, fmt.Errorf("creating Gemini provider: %w", err)
		}
		return provider, nil
	case constants.ProviderOllama:
		return NewOllamaProvider(cfg.Ollama.URL, cfg.Ollama.Model), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q (supported: openai, gemini, ollama)", ErrProviderUnavailable, name)
	}
}

// Available reports which providers have the configuration they need.
// Ollama needs none, it is assumed to run locally.
func Available(cfg *config.Config) map[string]bool {
	return map[string]bool{
		constants.ProviderOpenAI: cfg.OpenAI.Token != "",
		constants.ProviderGemini: cfg.Gemini.APIKey != "",
		constants.ProviderOllama: true,
	}
}

func standardPricing(cfg *config.Config, model string) RequestPricing {
	pricing := cfg.GetModelPricing(model)
	return RequestPricing{Input: pricing.Standard.Input, Output: pricing.Standard.Output}
}

// Registry hands out one provider instance per name so usage accumulates
// across requests. Safe for concurrent use.
type Registry struct {
	cfg       *config.Config
	mu        sync.Mutex
	providers map[string]Provider
}

// NewRegistry creates an empty registry backed by cfg.
func NewRegistry(cfg *config.Config) *Registry {
	return &Registry{cfg: cfg, providers: make(map[string]Provider)}
}

// Get returns the cached provider called name, creating it on first use.
func (r *Registry) Get(ctx context.Context, name string) (Provider, error) {
	if name == "" {
		name = constants.DefaultProvider
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.providers[name]; ok {
		return p, nil
	}
	p, err := NewProvider(ctx, r.cfg, name)
	if err != nil {
		return nil, err
	}
	r.providers[name] = p
	return p, nil
}

// Usage returns the usage of every provider created so far.
func (r *Registry) Usage() map[string]Usage {
	r.mu.Lock()
	defer r.mu.Unlock()

	usage := make(map[string]Usage, len(r.providers))
	for name, p := range r.providers {
		usage[name] = p.GetUsage()
	}
	return usage
}

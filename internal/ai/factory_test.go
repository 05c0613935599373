package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/kozaktomas/looksmaxxer/internal/config"
)

func TestNewProvider(t *testing.T) {
	cfg := &config.Config{
		OpenAI: config.OpenAIConfig{Token: "sk-test"},
		Ollama: config.OllamaConfig{URL: "http://ollama:11434", Model: "llama3.2"},
	}

	tests := []struct {
		name     string
		provider string
		wantName string
		wantErr  error
	}{
		{"default is openai", "", chatModel, nil},
		{"openai", "openai", chatModel, nil},
		{"ollama", "ollama", "llama3.2", nil},
		{"gemini without key", "gemini", "", ErrProviderUnavailable},
		{"unknown", "llamacpp", "", ErrProviderUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(context.Background(), cfg, tt.provider)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider failed: %v", err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("expected provider %s, got %s", tt.wantName, p.Name())
			}
		})
	}
}

func TestNewProvider_OpenAIWithoutToken(t *testing.T) {
	_, err := NewProvider(context.Background(), &config.Config{}, "openai")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestAvailable(t *testing.T) {
	available := Available(&config.Config{Gemini: config.GeminiConfig{APIKey: "key"}})
	if available["openai"] || !available["gemini"] || !available["ollama"] {
		t.Errorf("unexpected availability %v", available)
	}
}

func TestRegistry_CachesProviders(t *testing.T) {
	cfg := &config.Config{
		Ollama: config.OllamaConfig{URL: "http://ollama:11434"},
	}
	registry := NewRegistry(cfg)

	first, err := registry.Get(context.Background(), "ollama")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	second, err := registry.Get(context.Background(), "ollama")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if first != second {
		t.Error("expected the same provider instance on repeated Get")
	}

	if _, err := registry.Get(context.Background(), ""); !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("expected default openai provider to be unavailable without token, got %v", err)
	}

	usage := registry.Usage()
	if len(usage) != 1 {
		t.Errorf("expected usage for 1 provider, got %d", len(usage))
	}
	if _, ok := usage["ollama"]; !ok {
		t.Error("expected usage keyed by provider name")
	}
}

// Package ai sends a sampled skin colour to an LLM for seasonal colour
// analysis. OpenAI, Gemini and Ollama backends share one Provider interface.
package ai

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
)

//go:embed prompts/colour_analysis.txt
var colourAnalysisPrompt string

// maxRetries bounds how often a malformed JSON answer is sent back to the model.
const maxRetries = 5

// ErrProviderUnavailable is returned when a provider is unknown or lacks credentials.
var ErrProviderUnavailable = errors.New("AI provider not available")

// Provider defines the interface for AI analysis backends.
type Provider interface {
	Name() string
	AnalyzeColour(ctx context.Context, colour RGB) (*ColourAnalysis, error)

	// Usage tracking.
	GetUsage() Usage
	ResetUsage()
}

// Usage tracks token usage and calculates cost.
type Usage struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalCost    float64 `json:"total_cost"` // in USD
}

// RequestPricing holds input/output prices per 1M tokens
type RequestPricing struct {
	Input  float64
	Output float64
}

// ColourAnalysis contains the AI's seasonal colour analysis.
type ColourAnalysis struct {
	Undertone string   `json:"undertone"` // warm, cool or neutral
	Season    string   `json:"season"`    // spring, summer, autumn or winter
	Palette   []string `json:"palette"`
	Avoid     []string `json:"avoid"`
	Summary   string   `json:"summary"`
}

var (
	undertones = map[string]bool{"warm": true, "cool": true, "neutral": true}
	seasons    = map[string]bool{"spring": true, "summer": true, "autumn": true, "winter": true}
)

// normalize lowercases the enum fields and rejects answers the client
// cannot render. The error is fed back to the model on retry.
func (a *ColourAnalysis) normalize() error {
	a.Undertone = strings.ToLower(strings.TrimSpace(a.Undertone))
	a.Season = strings.ToLower(strings.TrimSpace(a.Season))
	if a.Season == "fall" {
		a.Season = "autumn"
	}
	if !undertones[a.Undertone] {
		return fmt.Errorf("undertone must be warm, cool or neutral, got %q", a.Undertone)
	}
	if !seasons[a.Season] {
		return fmt.Errorf("season must be spring, summer, autumn or winter, got %q", a.Season)
	}
	if len(a.Palette) == 0 {
		return errors.New("palette must not be empty")
	}
	return nil
}

// parseAnalysis decodes and validates a model answer.
func parseAnalysis(content string) (*ColourAnalysis, error) {
	var analysis ColourAnalysis
	if err := json.Unmarshal([]byte(extractJSON(content)), &analysis); err != nil {
		return nil, err
	}
	if err := analysis.normalize(); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// conversation is one provider's chat history for a single analysis. ask
// sends the history and returns the reply; correct appends a rejected reply
// and the feedback for the next attempt.
type conversation interface {
	ask(ctx context.Context) (string, error)
	correct(reply, feedback string)
}

// negotiate asks until a reply parses, giving up after maxRetries rejected
// replies. Transport errors are returned immediately.
func negotiate(ctx context.Context, c conversation) (*ColourAnalysis, error) {
	var lastErr error
	var lastReply string

	for range maxRetries {
		reply, err := c.ask(ctx)
		if err != nil {
			return nil, err
		}
		analysis, err := parseAnalysis(reply)
		if err == nil {
			return analysis, nil
		}
		lastErr, lastReply = err, reply
		c.correct(reply, retryMessage(err))
	}

	if len(lastReply) > 200 {
		lastReply = lastReply[:200] + "..."
	}
	return nil, fmt.Errorf("failed to parse analysis JSON after %d attempts: %w (last response: %s)", maxRetries, lastErr, lastReply)
}

// retryMessage is the feedback sent after an unusable answer.
func retryMessage(err error) string {
	return fmt.Sprintf("JSON parse error: %v. Please fix the JSON and try again. Remember to escape quotes inside strings with backslash. Output ONLY valid JSON, no other text.", err)
}

// usageTracker is embedded by providers to count tokens and cost.
type usageTracker struct {
	mu          sync.Mutex
	usage       Usage
	inputPrice  float64 // per 1M tokens
	outputPrice float64 // per 1M tokens
}

func (u *usageTracker) GetUsage() Usage {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.usage
}

func (u *usageTracker) ResetUsage() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.usage = Usage{}
}

func (u *usageTracker) trackUsage(inputTokens, outputTokens int64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.usage.InputTokens += int(inputTokens)
	u.usage.OutputTokens += int(outputTokens)
	u.usage.TotalCost += float64(inputTokens) / 1_000_000 * u.inputPrice
	u.usage.TotalCost += float64(outputTokens) / 1_000_000 * u.outputPrice
}

// extractJSON attempts to extract JSON from a response that may contain extra text
func extractJSON(content string) string {
	// Try to find JSON object boundaries
	start := strings.Index(content, "{")
	if start == -1 {
		return content
	}

	// Find matching closing brace
	depth := 0
	for i := start; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[start : i+1]
			}
		}
	}

	// If no matching brace found, return from start
	return content[start:]
}

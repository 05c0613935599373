package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3.2"

	// Local models on CPU can take a while for the first answer.
	ollamaTimeout = 3 * time.Minute
)

// OllamaProvider talks to a local Ollama server. It is free, so usage is
// counted in tokens only.
type OllamaProvider struct {
	usageTracker
	chatURL string
	model   string
	client  *http.Client
}

func NewOllamaProvider(baseURL, model string) *OllamaProvider {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if model == "" {
		model = defaultOllamaModel
	}
	return &OllamaProvider{
		chatURL: strings.TrimSuffix(baseURL, "/") + "/api/chat",
		model:   model,
		client:  &http.Client{Timeout: ollamaTimeout},
	}
}

func (p *OllamaProvider) Name() string {
	return p.model
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format,omitempty"`
	Options  struct {
		NumPredict int `json:"num_predict,omitempty"`
	} `json:"options"`
}

type ollamaResponse struct {
	Message         ollamaMessage `json:"message"`
	PromptEvalCount int64         `json:"prompt_eval_count"`
	EvalCount       int64         `json:"eval_count"`
}

// ollamaChat is the message history of one analysis.
type ollamaChat struct {
	p        *OllamaProvider
	messages []ollamaMessage
}

func (c *ollamaChat) ask(ctx context.Context) (string, error) {
	resp, err := c.p.chat(ctx, c.messages)
	if err != nil {
		return "", fmt.Errorf("ollama API error: %w", err)
	}
	c.p.trackUsage(resp.PromptEvalCount, resp.EvalCount)
	return resp.Message.Content, nil
}

func (c *ollamaChat) correct(reply, feedback string) {
	c.messages = append(c.messages,
		ollamaMessage{Role: "assistant", Content: reply},
		ollamaMessage{Role: "user", Content: feedback},
	)
}

func (p *OllamaProvider) AnalyzeColour(ctx context.Context, colour RGB) (*ColourAnalysis, error) {
	return negotiate(ctx, &ollamaChat{
		p: p,
		messages: []ollamaMessage{
			{Role: "system", Content: colourAnalysisPrompt},
			{Role: "user", Content: buildColourMessage(colour)},
		},
	})
}

// chat performs one non-streaming /api/chat call in JSON mode.
func (p *OllamaProvider) chat(ctx context.Context, messages []ollamaMessage) (*ollamaResponse, error) {
	payload := ollamaRequest{Model: p.model, Messages: messages, Format: "json"}
	payload.Options.NumPredict = 400

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.chatURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &out, nil
}

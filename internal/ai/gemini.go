package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/kozaktomas/looksmaxxer/internal/constants"
)

// GeminiProvider runs colour analysis on the Gemini API.
type GeminiProvider struct {
	usageTracker
	client *genai.Client
	config *genai.GenerateContentConfig
}

func NewGeminiProvider(ctx context.Context, apiKey string, pricing RequestPricing) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		usageTracker: usageTracker{inputPrice: pricing.Input, outputPrice: pricing.Output},
		client:       client,
		config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(colourAnalysisPrompt, genai.RoleUser),
			ResponseMIMEType:  "application/json",
		},
	}, nil
}

func (p *GeminiProvider) Name() string {
	return constants.GeminiModel
}

// geminiChat is the content history of one analysis.
type geminiChat struct {
	p        *GeminiProvider
	contents []*genai.Content
}

func (c *geminiChat) ask(ctx context.Context) (string, error) {
	result, err := c.p.client.Models.GenerateContent(ctx, constants.GeminiModel, c.contents, c.p.config)
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	if meta := result.UsageMetadata; meta != nil {
		c.p.trackUsage(int64(meta.PromptTokenCount), int64(meta.CandidatesTokenCount))
	}
	text := result.Text()
	if text == "" {
		return "", errors.New("no response from Gemini")
	}
	return text, nil
}

func (c *geminiChat) correct(reply, feedback string) {
	c.contents = append(c.contents,
		genai.NewContentFromText(reply, genai.RoleModel),
		genai.NewContentFromText(feedback, genai.RoleUser),
	)
}

func (p *GeminiProvider) AnalyzeColour(ctx context.Context, colour RGB) (*ColourAnalysis, error) {
	return negotiate(ctx, &geminiChat{
		p:        p,
		contents: []*genai.Content{genai.NewContentFromText(buildColourMessage(colour), genai.RoleUser)},
	})
}

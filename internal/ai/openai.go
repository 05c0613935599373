package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const chatModel = openai.ChatModelGPT4_1Mini

// OpenAIProvider runs colour analysis on the OpenAI chat completions API.
type OpenAIProvider struct {
	usageTracker
	client *openai.Client
}

// NewOpenAIProvider creates a provider for the OpenAI chat API. Extra
// options (base URL, HTTP client) are passed to the SDK client.
func NewOpenAIProvider(apiKey string, pricing RequestPricing, opts ...option.RequestOption) *OpenAIProvider {
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &OpenAIProvider{
		usageTracker: usageTracker{inputPrice: pricing.Input, outputPrice: pricing.Output},
		client:       &client,
	}
}

func (p *OpenAIProvider) Name() string {
	return chatModel
}

// openAIChat is the message history of one analysis.
type openAIChat struct {
	p        *OpenAIProvider
	messages []openai.ChatCompletionMessageParamUnion
}

func (c *openAIChat) ask(ctx context.Context) (string, error) {
	resp, err := c.p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    chatModel,
		Messages: c.messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
		MaxTokens: openai.Int(400),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	c.p.trackUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *openAIChat) correct(reply, feedback string) {
	c.messages = append(c.messages, openai.AssistantMessage(reply), openai.UserMessage(feedback))
}

func (p *OpenAIProvider) AnalyzeColour(ctx context.Context, colour RGB) (*ColourAnalysis, error) {
	return negotiate(ctx, &openAIChat{
		p: p,
		messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(colourAnalysisPrompt),
			openai.UserMessage(buildColourMessage(colour)),
		},
	})
}

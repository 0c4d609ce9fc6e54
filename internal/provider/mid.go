package provider

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"forge/internal/logging"
	"forge/internal/model"
)

var errNoChoices = errors.New("mid provider: no completion choices returned")

// midInputCostPerMillion and midOutputCostPerMillion are placeholder
// per-million-token USD rates for an OpenAI-compatible Mid-tier host
// (e.g. Groq, OpenRouter); EstimateCost uses them the same way the
// original's metrics cost table prices Mid-tier requests.
const (
	midInputCostPerMillion  = 0.27
	midOutputCostPerMillion = 1.1
)

// MidProvider talks to an OpenAI-compatible chat completion endpoint via
// go-openai, the only example-pack repo to carry that dependency.
type MidProvider struct {
	client    *openai.Client
	modelName string
}

// NewMidProvider builds a MidProvider. baseURL may point at any
// OpenAI-compatible host; an empty baseURL uses OpenAI's own API.
func NewMidProvider(apiKey, baseURL, modelName string) *MidProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}
	return &MidProvider{
		client:    openai.NewClientWithConfig(cfg),
		modelName: modelName,
	}
}

func (p *MidProvider) Name() string { return "openai/" + p.modelName }

func (p *MidProvider) Generate(ctx context.Context, query string, c Context) (model.Response, error) {
	start := time.Now()
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: c.SystemPrompt},
	}
	for _, f := range c.Files {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: "file: " + f.Path + "\n" + f.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: query})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    p.modelName,
		Messages: messages,
	})
	if err != nil {
		return model.Response{}, err
	}
	if len(resp.Choices) == 0 {
		return model.Response{}, errNoChoices
	}

	logging.ProviderDebug("mid provider: %d prompt tokens, %d completion tokens", resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	return model.Response{
		Text:       resp.Choices[0].Message.Content,
		Confidence: 0.8,
		Provider:   p.Name(),
		LatencyMS:  time.Since(start).Milliseconds(),
		Tokens: model.TokenUsage{
			Input:  resp.Usage.PromptTokens,
			Output: resp.Usage.CompletionTokens,
		},
	}, nil
}

// EstimateCost projects a rough cost from the context size alone, ahead
// of an actual call.
func (p *MidProvider) EstimateCost(c Context) float64 {
	inputTokens := estimateContextTokens(c)
	const assumedOutputTokens = 500
	return float64(inputTokens)/1_000_000*midInputCostPerMillion +
		float64(assumedOutputTokens)/1_000_000*midOutputCostPerMillion
}

func (p *MidProvider) IsAvailable() bool { return p.client != nil }

package provider

import (
	"context"
	"errors"
	"time"

	"google.golang.org/genai"

	"forge/internal/logging"
	"forge/internal/model"
)

// premiumInputCostPerMillion and premiumOutputCostPerMillion price
// Gemini-tier requests for EstimateCost.
const (
	premiumInputCostPerMillion  = 3.0
	premiumOutputCostPerMillion = 15.0
)

// PremiumProvider talks to Google's Gemini API via the genai SDK
// directly; the SDK is already a direct dependency of this module
// (wired for embeddings), so generation reuses its request/response
// plumbing instead of hand-rolling a second HTTP client.
type PremiumProvider struct {
	client    *genai.Client
	modelName string
}

// NewPremiumProvider builds a PremiumProvider.
func NewPremiumProvider(ctx context.Context, apiKey, modelName string) (*PremiumProvider, error) {
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, err
	}
	return &PremiumProvider{client: client, modelName: modelName}, nil
}

func (p *PremiumProvider) Name() string { return "gemini/" + p.modelName }

func (p *PremiumProvider) Generate(ctx context.Context, query string, c Context) (model.Response, error) {
	start := time.Now()

	result, err := p.client.Models.GenerateContent(ctx, p.modelName, genai.Text(renderPrompt(query, c)), nil)
	if err != nil {
		return model.Response{}, err
	}
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return model.Response{}, errNoCandidates
	}

	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text += part.Text
		}
	}
	if text == "" {
		return model.Response{}, errNoCandidates
	}

	var tokens model.TokenUsage
	if result.UsageMetadata != nil {
		tokens = model.TokenUsage{
			Input:  int(result.UsageMetadata.PromptTokenCount),
			Output: int(result.UsageMetadata.CandidatesTokenCount),
		}
	}

	logging.ProviderDebug("premium provider: generated %d chars in %v", len(text), time.Since(start))

	return model.Response{
		Text:       text,
		Confidence: 0.95,
		Provider:   p.Name(),
		LatencyMS:  time.Since(start).Milliseconds(),
		Tokens:     tokens,
	}, nil
}

func (p *PremiumProvider) EstimateCost(c Context) float64 {
	inputTokens := estimateContextTokens(c)
	const assumedOutputTokens = 500
	return float64(inputTokens)/1_000_000*premiumInputCostPerMillion +
		float64(assumedOutputTokens)/1_000_000*premiumOutputCostPerMillion
}

func (p *PremiumProvider) IsAvailable() bool { return p.client != nil }

var errNoCandidates = errors.New("premium provider: no response candidates returned")

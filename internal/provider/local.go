package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"forge/internal/logging"
	"forge/internal/model"
)

// LocalProvider talks to a local Ollama server. A thin hand-rolled HTTP
// client, matching how this module's own Ollama embedding engine talks
// to the same server — no example repo in the corpus wires a dedicated
// Ollama SDK.
type LocalProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewLocalProvider constructs a LocalProvider pointed at an Ollama server.
func NewLocalProvider(baseURL, modelName string) *LocalProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if modelName == "" {
		modelName = "llama3.1"
	}
	return &LocalProvider{
		baseURL: baseURL,
		model:   modelName,
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
}

func (p *LocalProvider) Name() string { return "ollama/" + p.model }

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response        string `json:"response"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// Generate sends the assembled context as a single prompt to Ollama's
// /api/generate endpoint.
func (p *LocalProvider) Generate(ctx context.Context, query string, c Context) (model.Response, error) {
	start := time.Now()
	prompt := renderPrompt(query, c)

	body, err := json.Marshal(ollamaGenerateRequest{Model: p.model, Prompt: prompt, Stream: false})
	if err != nil {
		return model.Response{}, fmt.Errorf("marshal ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return model.Response{}, fmt.Errorf("build ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return model.Response{}, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return model.Response{}, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(payload))
	}

	var out ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.Response{}, fmt.Errorf("decode ollama response: %w", err)
	}

	logging.ProviderDebug("local provider: generated %d chars in %v", len(out.Response), time.Since(start))

	return model.Response{
		Text:       out.Response,
		Confidence: 1.0,
		Provider:   p.Name(),
		LatencyMS:  time.Since(start).Milliseconds(),
		Tokens: model.TokenUsage{
			Input:  out.PromptEvalCount,
			Output: out.EvalCount,
		},
	}, nil
}

// EstimateCost is always zero; local inference has no per-token price.
func (p *LocalProvider) EstimateCost(c Context) float64 { return 0 }

// IsAvailable checks the Ollama server's root endpoint.
func (p *LocalProvider) IsAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func renderPrompt(query string, c Context) string {
	var sb strings.Builder
	sb.WriteString(c.SystemPrompt)
	sb.WriteString("\n\n")
	for _, f := range c.Files {
		sb.WriteString("--- ")
		sb.WriteString(f.Path)
		sb.WriteString(" ---\n")
		sb.WriteString(f.Content)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Query: ")
	sb.WriteString(query)
	return sb.String()
}

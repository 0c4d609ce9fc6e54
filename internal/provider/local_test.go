package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalProvider_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		_ = json.NewEncoder(w).Encode(ollamaGenerateResponse{
			Response:        "hello from ollama",
			PromptEvalCount: 10,
			EvalCount:       5,
		})
	}))
	defer srv.Close()

	p := NewLocalProvider(srv.URL, "llama3.1")
	resp, err := p.Generate(context.Background(), "hi", Context{SystemPrompt: "sys"})
	require.NoError(t, err)
	assert.Equal(t, "hello from ollama", resp.Text)
	assert.Equal(t, 10, resp.Tokens.Input)
	assert.Equal(t, 5, resp.Tokens.Output)
}

func TestLocalProvider_Generate_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	p := NewLocalProvider(srv.URL, "llama3.1")
	_, err := p.Generate(context.Background(), "hi", Context{})
	assert.Error(t, err)
}

func TestLocalProvider_IsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewLocalProvider(srv.URL, "")
	assert.True(t, p.IsAvailable())
}

func TestLocalProvider_EstimateCost_AlwaysZero(t *testing.T) {
	p := NewLocalProvider("", "")
	assert.Equal(t, 0.0, p.EstimateCost(Context{SystemPrompt: "anything"}))
}

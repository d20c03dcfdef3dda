package provider

import (
	"context"
	"errors"

	"github.com/qaforge/qaforge/config"
	"github.com/qaforge/qaforge/models"
	openai_provider "github.com/qaforge/qaforge/provider/openai"
)

// Provider is the interface the pipeline requires from the model backend:
// chat completions for generation and embeddings for similarity search.
type Provider interface {
	Completion(ctx context.Context, messages []models.Message, maxTokens int, temperature float64) (string, error)
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// IsStatusError reports whether err wraps a non-200 endpoint response.
// Callers treat those as soft failures and degrade instead of propagating.
func IsStatusError(err error) bool {
	var se *openai_provider.StatusError
	return errors.As(err, &se)
}

// NewProvider builds the model client from configuration. Only the
// OpenAI-compatible wire format is supported; a LiteLLM proxy fans that out
// to whichever backend it fronts.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("llm endpoint not configured")
	}
	return openai_provider.NewClient(
		cfg.Endpoint,
		cfg.APIKey,
		cfg.CompletionModel,
		cfg.EmbeddingModel,
		cfg.Timeout,
	), nil
}

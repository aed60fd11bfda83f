package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Gateway turns canonical text into a fixed-dimension vector.
// Implementations may fail with timeouts, rate limits or malformed responses.
type Gateway interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// Model identifies the embedding model, stored next to each vector.
	Model() string
}

var (
	ErrEmptyText         = errors.New("text cannot be empty")
	ErrMalformedResponse = errors.New("malformed embedding response")
	ErrRateLimited       = errors.New("embedding rate limit")
)

type Config struct {
	Provider   string // gemini|openai|ollama
	Model      string
	APIKey     string
	BaseURL    string
	Dimensions int

	// Outbound throttling and per-call deadline; zero disables each.
	RPS     float64
	Burst   int
	Timeout time.Duration
}

// New builds the configured provider wrapped with rate limiting and response validation.
func New(ctx context.Context, cfg Config) (Gateway, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel(provider)
	}

	var (
		gw  Gateway
		err error
	)
	switch provider {
	case "gemini":
		gw, err = NewGemini(ctx, cfg.APIKey, model, cfg.Dimensions)
	case "openai":
		gw, err = NewOpenAI(cfg.APIKey, cfg.BaseURL, model, cfg.Dimensions)
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		gw = NewOllama(baseURL, model)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %q (supported: gemini, openai, ollama)", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return WithLimits(gw, cfg.RPS, cfg.Burst, cfg.Timeout), nil
}

// DefaultModel returns the default model name for a given provider
func DefaultModel(provider string) string {
	switch provider {
	case "gemini":
		return "gemini-embedding-001"
	case "openai":
		return "text-embedding-3-small"
	case "ollama":
		return "nomic-embed-text"
	default:
		return ""
	}
}

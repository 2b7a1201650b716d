// Package llm provides a provider-agnostic completion client for the
// external extraction and summarization services. Uses net/http directly;
// no vendor SDK.
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Provider is the interface for text completions.
type Provider interface {
	// Complete sends a prompt and returns the response text.
	Complete(ctx context.Context, prompt string, opts CompletionOpts) (string, error)
	// Name returns a human-readable provider name (e.g., "groq/llama-3.1-8b-instant").
	Name() string
}

// CompletionOpts configures a single completion request.
type CompletionOpts struct {
	MaxTokens   int     // Max tokens to generate (0 = provider default)
	Temperature float64 // 0.0-2.0 (0 = deterministic)
	Model       string  // Override model for this request (empty = provider default)
	Format      string  // "json" for structured output, empty for plain text
	System      string  // System prompt (optional)
}

// Config holds provider configuration.
type Config struct {
	Provider string // "groq", "openrouter", "google"
	Model    string
	APIKey   string // empty = read from env
	BaseURL  string // optional URL override (also used by tests)
}

// NewProvider creates a completion provider from the given config.
func NewProvider(cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "groq":
		key := firstEnv(cfg.APIKey, "GROQ_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("groq provider requires GROQ_API_KEY env var")
		}
		return &chatProvider{
			label:   "groq",
			apiKey:  key,
			model:   defaultStr(cfg.Model, "llama-3.1-8b-instant"),
			baseURL: defaultStr(cfg.BaseURL, "https://api.groq.com/openai/v1"),
		}, nil

	case "openrouter":
		key := firstEnv(cfg.APIKey, "OPENROUTER_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("openrouter provider requires OPENROUTER_API_KEY env var")
		}
		return &chatProvider{
			label:   "openrouter",
			apiKey:  key,
			model:   defaultStr(cfg.Model, "openai/gpt-4o-mini"),
			baseURL: defaultStr(cfg.BaseURL, "https://openrouter.ai/api/v1"),
		}, nil

	case "google":
		key := firstEnv(cfg.APIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("google provider requires GEMINI_API_KEY or GOOGLE_API_KEY env var")
		}
		return &googleProvider{
			apiKey:  key,
			model:   defaultStr(cfg.Model, "gemini-2.5-flash"),
			baseURL: defaultStr(cfg.BaseURL, "https://generativelanguage.googleapis.com/v1beta"),
		}, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %q (supported: groq, openrouter, google)", cfg.Provider)
	}
}

// ParseProviderFlag parses a --llm flag value into a Config.
// Format: "provider/model", e.g. "groq/llama-3.1-8b-instant",
// "openrouter/openai/gpt-4o-mini". A bare provider name selects its
// default model.
func ParseProviderFlag(flag string) (Config, error) {
	if flag == "" {
		return Config{Provider: "groq"}, nil
	}

	parts := strings.SplitN(flag, "/", 2)
	provider := strings.ToLower(parts[0])
	switch provider {
	case "groq", "openrouter", "google":
	default:
		return Config{}, fmt.Errorf("unknown provider %q in --llm flag (supported: groq, openrouter, google)", provider)
	}

	cfg := Config{Provider: provider}
	if len(parts) == 2 {
		cfg.Model = parts[1]
	}
	return cfg, nil
}

func firstEnv(explicit string, envKeys ...string) string {
	if explicit != "" {
		return explicit
	}
	for _, k := range envKeys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func defaultStr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

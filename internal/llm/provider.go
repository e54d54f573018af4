// Package llm wraps the model providers used for sentence tagging, escalation and research.
package llm

import (
	"context"
	"strings"

	"github.com/ppiankov/centauri/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider tag used in cache keys and diagnostics
	Name() string

	// Complete sends one system+user exchange and returns the raw text reply
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Request is a single-turn completion request
type Request struct {
	System string
	Prompt string

	// Schema, when set, asks the provider for JSON and validates the reply against it
	Schema *Schema

	MaxTokens   int
	Temperature float64

	// Purpose labels the call in diagnostics (tag_a, tag_b, escalate, signals, research)
	Purpose string
}

// Schema is a named JSON Schema definition
type Schema struct {
	Name       string
	Definition map[string]any
}

// Response is the provider reply with fences already stripped
type Response struct {
	Content    string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "groq", "anthropic", "gemini", "ollama", ""
	Provider string

	Model   string
	APIKey  string
	BaseURL string

	Timeout int // seconds

	MaxTokens   int
	Temperature float64

	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Timeout:   30,
		MaxTokens: 4096,
	}
}

// ConfigFromModel converts a role's model.LLMConfig into a provider Config
func ConfigFromModel(c model.LLMConfig, httpCfg model.HTTPConfig) Config {
	cfg := DefaultConfig()
	cfg.Provider = c.Provider
	cfg.Model = c.Model
	cfg.APIKey = c.APIKey
	cfg.BaseURL = c.BaseURL
	cfg.Temperature = c.Temperature
	if c.Timeout > 0 {
		cfg.Timeout = c.Timeout
	}
	if c.MaxTokens > 0 {
		cfg.MaxTokens = c.MaxTokens
	}
	cfg.HTTPProxy = httpCfg.HTTPProxy
	cfg.HTTPSProxy = httpCfg.HTTPSProxy
	cfg.NoProxy = httpCfg.NoProxy
	return cfg
}

// StripFences removes a surrounding ```json ... ``` block if present
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the language tag line
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func pick(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func pickFloat(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

package model

import "time"

// Config holds all Centauri settings
type Config struct {
	Classifiers ClassifierConfig `yaml:"classifiers" mapstructure:"classifiers"`
	Cache       CacheConfig      `yaml:"cache" mapstructure:"cache"`
	HTTP        HTTPConfig       `yaml:"http" mapstructure:"http"`
	Server      ServerConfig     `yaml:"server" mapstructure:"server"`
	Output      OutputConfig     `yaml:"output" mapstructure:"output"`
}

// LLMConfig configures one model-backed role. An empty provider disables the role
// and the deterministic fallback is used instead.
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // openai, groq, anthropic, gemini, ollama
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// Enabled reports whether a provider is configured
func (c LLMConfig) Enabled() bool {
	return c.Provider != ""
}

// ClassifierConfig configures the tagging sources and their shared limits
type ClassifierConfig struct {
	Primary    LLMConfig `yaml:"primary" mapstructure:"primary"`       // Source A
	Secondary  LLMConfig `yaml:"secondary" mapstructure:"secondary"`   // Source B
	Escalation LLMConfig `yaml:"escalation" mapstructure:"escalation"` // Source C
	Signals    LLMConfig `yaml:"signals" mapstructure:"signals"`       // AI-indexing tagger
	Research   LLMConfig `yaml:"research" mapstructure:"research"`     // Competitor headings and variants

	BatchSize         int     `yaml:"batch_size" mapstructure:"batch_size"`
	Concurrency       int     `yaml:"concurrency" mapstructure:"concurrency"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
	MaxRetries        int     `yaml:"max_retries" mapstructure:"max_retries"`
}

// CacheConfig configures the response cache
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL  time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskDir    string        `yaml:"disk_dir,omitempty" mapstructure:"disk_dir"`
	DiskTTL    time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
	SQLitePath string        `yaml:"sqlite_path,omitempty" mapstructure:"sqlite_path"`
}

// HTTPConfig configures article fetching for URL input
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string   `yaml:"addr" mapstructure:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns sensible defaults. No classifier provider is enabled,
// so a default run is fully deterministic and offline.
func DefaultConfig() *Config {
	return &Config{
		Classifiers: ClassifierConfig{
			Primary:           LLMConfig{Timeout: 30, MaxTokens: 4096},
			Secondary:         LLMConfig{Timeout: 30, MaxTokens: 4096},
			Escalation:        LLMConfig{Timeout: 30, MaxTokens: 2048},
			Signals:           LLMConfig{Timeout: 30, MaxTokens: 4096},
			Research:          LLMConfig{Timeout: 60, MaxTokens: 4096},
			BatchSize:         20,
			Concurrency:       4,
			RequestsPerSecond: 2,
			Burst:             4,
			MaxRetries:        2,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "Centauri/0.1 (+https://github.com/ppiankov/centauri)",
			MaxBodyBytes:  5_000_000,
			RespectRobots: true,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:*", "https://*"},
			MaxBodyBytes:   2_000_000,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}

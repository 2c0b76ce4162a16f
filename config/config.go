// Package config provides configuration loading and management for
// antechamber.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete antechamber configuration.
type Config struct {
	Model       ModelConfig       `yaml:"model"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Definitions DefinitionsConfig `yaml:"definitions"`
	Format      FormatConfig      `yaml:"format"`
}

// ModelConfig configures the generation endpoint and options.
type ModelConfig struct {
	// Provider selects the registered provider ("openai", "anthropic", "ollama").
	Provider string `yaml:"provider"`
	// Endpoint overrides the provider's default API endpoint.
	Endpoint string `yaml:"endpoint"`
	// Name is the model identifier sent with every request.
	Name string `yaml:"name"`
	// Temperature controls randomness.
	Temperature float64 `yaml:"temperature"`
	// MaxTokens limits response length. 0 uses the provider default.
	MaxTokens int `yaml:"max_tokens"`
	// ReasoningEffort hints reasoning depth for models that support it.
	ReasoningEffort string `yaml:"reasoning_effort"`
	// Verbosity hints output verbosity for models that support it.
	Verbosity string `yaml:"verbosity"`
	// Timeout bounds one generation request.
	Timeout time.Duration `yaml:"timeout"`
}

// PipelineConfig configures retry, iteration, and validation thresholds.
type PipelineConfig struct {
	// MaxRetries bounds generation attempts per iteration.
	MaxRetries int `yaml:"max_retries"`
	// MaxIterations bounds feedback-loop rounds for most stages.
	MaxIterations int `yaml:"max_iterations"`
	// ContextIterations bounds the context stage's feedback loop.
	ContextIterations int `yaml:"context_iterations"`
	// EnrichIterations bounds the enrichment stage's feedback loop.
	EnrichIterations int `yaml:"enrich_iterations"`
	// FeedRetryErrors feeds validation errors back into same-level retries.
	FeedRetryErrors bool `yaml:"feed_retry_errors"`
	// StrictVocabulary rejects tags outside the registered vocabularies.
	StrictVocabulary bool `yaml:"strict_vocabulary"`
	// MinParagraphs and MaxParagraphs bound structured-stage paragraph counts.
	MinParagraphs int `yaml:"min_paragraphs"`
	MaxParagraphs int `yaml:"max_paragraphs"`
	// MinComplexParagraphs paragraphs must each carry MinDistinctComplex
	// distinct complex blocks.
	MinComplexParagraphs int `yaml:"min_complex_paragraphs"`
	MinDistinctComplex   int `yaml:"min_distinct_complex"`
	// ContextCount is the required number of persona objects.
	ContextCount int `yaml:"context_count"`
}

// DefinitionsConfig locates block definition overlays.
type DefinitionsConfig struct {
	// Dir holds build_block*.json and complex_block*.json overlays. Empty
	// uses the embedded defaults only.
	Dir string `yaml:"dir"`
}

// FormatConfig configures the two-line block formatter.
type FormatConfig struct {
	// Width is the wrap width for formatted output. Negative disables
	// wrapping.
	Width int `yaml:"width"`
}

// DefaultConfig returns a Config with the reference defaults.
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Provider:        "openai",
			Name:            "gpt-5",
			Temperature:     0.8,
			MaxTokens:       3000,
			ReasoningEffort: "high",
			Verbosity:       "low",
			Timeout:         3 * time.Minute,
		},
		Pipeline: PipelineConfig{
			MaxRetries:           3,
			MaxIterations:        5,
			ContextIterations:    10,
			EnrichIterations:     3,
			MinParagraphs:        6,
			MaxParagraphs:        10,
			MinComplexParagraphs: 3,
			MinDistinctComplex:   2,
			ContextCount:         5,
		},
		Format: FormatConfig{
			Width: 100,
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Model.Provider == "" {
		return fmt.Errorf("model.provider is required")
	}
	if c.Model.Name == "" {
		return fmt.Errorf("model.name is required")
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		return fmt.Errorf("model.temperature must be between 0 and 2")
	}
	if c.Pipeline.MaxRetries <= 0 {
		return fmt.Errorf("pipeline.max_retries must be positive")
	}
	if c.Pipeline.MaxIterations <= 0 || c.Pipeline.ContextIterations <= 0 || c.Pipeline.EnrichIterations <= 0 {
		return fmt.Errorf("pipeline iteration bounds must be positive")
	}
	if c.Pipeline.MinParagraphs <= 0 || c.Pipeline.MaxParagraphs < c.Pipeline.MinParagraphs {
		return fmt.Errorf("pipeline paragraph bounds must form a valid interval")
	}
	if c.Pipeline.ContextCount <= 0 {
		return fmt.Errorf("pipeline.context_count must be positive")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file, applied over defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return config, nil
}

// SaveToFile writes the configuration as YAML, creating parent directories.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Merge overlays non-zero fields from other onto c. Booleans merge only when
// true; a later layer cannot reset a flag an earlier one enabled.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Model.Provider != "" {
		c.Model.Provider = other.Model.Provider
	}
	if other.Model.Endpoint != "" {
		c.Model.Endpoint = other.Model.Endpoint
	}
	if other.Model.Name != "" {
		c.Model.Name = other.Model.Name
	}
	if other.Model.Temperature != 0 {
		c.Model.Temperature = other.Model.Temperature
	}
	if other.Model.MaxTokens != 0 {
		c.Model.MaxTokens = other.Model.MaxTokens
	}
	if other.Model.ReasoningEffort != "" {
		c.Model.ReasoningEffort = other.Model.ReasoningEffort
	}
	if other.Model.Verbosity != "" {
		c.Model.Verbosity = other.Model.Verbosity
	}
	if other.Model.Timeout != 0 {
		c.Model.Timeout = other.Model.Timeout
	}

	if other.Pipeline.MaxRetries != 0 {
		c.Pipeline.MaxRetries = other.Pipeline.MaxRetries
	}
	if other.Pipeline.MaxIterations != 0 {
		c.Pipeline.MaxIterations = other.Pipeline.MaxIterations
	}
	if other.Pipeline.ContextIterations != 0 {
		c.Pipeline.ContextIterations = other.Pipeline.ContextIterations
	}
	if other.Pipeline.EnrichIterations != 0 {
		c.Pipeline.EnrichIterations = other.Pipeline.EnrichIterations
	}
	if other.Pipeline.FeedRetryErrors {
		c.Pipeline.FeedRetryErrors = true
	}
	if other.Pipeline.StrictVocabulary {
		c.Pipeline.StrictVocabulary = true
	}
	if other.Pipeline.MinParagraphs != 0 {
		c.Pipeline.MinParagraphs = other.Pipeline.MinParagraphs
	}
	if other.Pipeline.MaxParagraphs != 0 {
		c.Pipeline.MaxParagraphs = other.Pipeline.MaxParagraphs
	}
	if other.Pipeline.MinComplexParagraphs != 0 {
		c.Pipeline.MinComplexParagraphs = other.Pipeline.MinComplexParagraphs
	}
	if other.Pipeline.MinDistinctComplex != 0 {
		c.Pipeline.MinDistinctComplex = other.Pipeline.MinDistinctComplex
	}
	if other.Pipeline.ContextCount != 0 {
		c.Pipeline.ContextCount = other.Pipeline.ContextCount
	}

	if other.Definitions.Dir != "" {
		c.Definitions.Dir = other.Definitions.Dir
	}
	if other.Format.Width != 0 {
		c.Format.Width = other.Format.Width
	}
}

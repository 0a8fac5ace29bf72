package config

import (
	"fmt"
	"strings"
	"time"
)

const DefaultSystemPrompt = `You reconstruct a software project from text blocks read off a screen recording.
Each input block has "content" and "confidence". Group the blocks into files and
directories and reply with a single JSON object and nothing else:

{
  "structure": { "<dir>": { "<file name>": "<file content>" } },
  "file_types": { "<dir>/<file name>": "<language or file type>" }
}

Directory names map to objects, file names map to the full file content as a string.
Use only content present in the blocks. Use relative paths only.`

func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Temperature: 0.1,
			MaxTokens:   4000,
		},
		Clustering: ClusteringConfig{
			Threshold: 0.85,
			Metric:    "levenshtein",
		},
		Classifier: ClassifierConfig{
			TokenBudget:          6000,
			MaxAttempts:          3,
			InitialBackoff:       Duration{time.Second},
			MaxBackoff:           Duration{30 * time.Second},
			BackoffMultiplier:    2.0,
			Timeout:              Duration{60 * time.Second},
			MaxConcurrentBatches: 2,
			SystemPrompt:         DefaultSystemPrompt,
			CacheTTL:             Duration{24 * time.Hour},
		},
		Builder: BuilderConfig{
			MinAttribution: 0.5,
		},
		OCR: OCRConfig{
			MinConfidence: 0.5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Server: ServerConfig{
			Port: "8080",
		},
	}
}

var validProviders = map[string]bool{"openai": true, "claude": true, "gemini": true, "ollama": true}

// Validate checks that every value is within its supported range.
func (c *Config) Validate() error {
	if !validProviders[strings.ToLower(c.LLM.Provider)] {
		return fmt.Errorf("llm.provider must be one of openai, claude, gemini, ollama (got %q)", c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model must not be empty")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0.0 and 2.0 (got %.2f)", c.LLM.Temperature)
	}
	if c.LLM.MaxTokens < 1 {
		return fmt.Errorf("llm.max_tokens must be positive (got %d)", c.LLM.MaxTokens)
	}

	if c.Clustering.Threshold <= 0 || c.Clustering.Threshold > 1 {
		return fmt.Errorf("clustering.threshold must be in (0.0, 1.0] (got %.2f)", c.Clustering.Threshold)
	}
	switch strings.ToLower(c.Clustering.Metric) {
	case "", "levenshtein", "jaccard", "cosine":
	default:
		return fmt.Errorf("clustering.metric must be levenshtein, jaccard or cosine (got %q)", c.Clustering.Metric)
	}

	cl := c.Classifier
	if cl.TokenBudget < 100 {
		return fmt.Errorf("classifier.token_budget must be at least 100 (got %d)", cl.TokenBudget)
	}
	if cl.MaxAttempts < 1 || cl.MaxAttempts > 10 {
		return fmt.Errorf("classifier.max_attempts must be between 1 and 10 (got %d)", cl.MaxAttempts)
	}
	if cl.InitialBackoff.Duration < 0 {
		return fmt.Errorf("classifier.initial_backoff must be non-negative (got %v)", cl.InitialBackoff)
	}
	if cl.MaxBackoff.Duration < cl.InitialBackoff.Duration {
		return fmt.Errorf("classifier.max_backoff (%v) must not be less than initial_backoff (%v)", cl.MaxBackoff, cl.InitialBackoff)
	}
	if cl.BackoffMultiplier < 1 {
		return fmt.Errorf("classifier.backoff_multiplier must be at least 1.0 (got %.2f)", cl.BackoffMultiplier)
	}
	if cl.Timeout.Duration <= 0 || cl.Timeout.Duration > 5*time.Minute {
		return fmt.Errorf("classifier.timeout must be between 0 and 5m (got %v)", cl.Timeout)
	}
	if cl.RequestsPerSecond < 0 {
		return fmt.Errorf("classifier.requests_per_second must be non-negative (got %.2f)", cl.RequestsPerSecond)
	}
	if cl.MaxConcurrentBatches < 1 {
		return fmt.Errorf("classifier.max_concurrent_batches must be positive (got %d)", cl.MaxConcurrentBatches)
	}

	if c.Builder.MinAttribution <= 0 || c.Builder.MinAttribution > 1 {
		return fmt.Errorf("builder.min_attribution must be in (0.0, 1.0] (got %.2f)", c.Builder.MinAttribution)
	}
	if c.OCR.MinConfidence < 0 || c.OCR.MinConfidence > 1 {
		return fmt.Errorf("ocr.min_confidence must be between 0.0 and 1.0 (got %.2f)", c.OCR.MinConfidence)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console (got %q)", c.Logging.Format)
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Provider: %s, Model: %s, Threshold: %.2f, Metric: %s, TokenBudget: %d, MaxAttempts: %d, Timeout: %v}",
		c.LLM.Provider, c.LLM.Model, c.Clustering.Threshold, c.Clustering.Metric,
		c.Classifier.TokenBudget, c.Classifier.MaxAttempts, c.Classifier.Timeout)
}

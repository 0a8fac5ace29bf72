package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Duration lets TOML files spell timeouts as "30s" or "1m30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type LLMConfig struct {
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"`
	APIKey      string  `toml:"api_key"`
	BaseURL     string  `toml:"base_url"`
	Temperature float32 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
}

type ClusteringConfig struct {
	Threshold float64 `toml:"threshold"`
	Metric    string  `toml:"metric"`
}

type ClassifierConfig struct {
	TokenBudget          int      `toml:"token_budget"`
	MaxAttempts          int      `toml:"max_attempts"`
	InitialBackoff       Duration `toml:"initial_backoff"`
	MaxBackoff           Duration `toml:"max_backoff"`
	BackoffMultiplier    float64  `toml:"backoff_multiplier"`
	Timeout              Duration `toml:"timeout"`
	RequestsPerSecond    float64  `toml:"requests_per_second"`
	MaxConcurrentBatches int      `toml:"max_concurrent_batches"`
	SystemPrompt         string   `toml:"system_prompt"`
	CacheTTL             Duration `toml:"cache_ttl"`
}

type BuilderConfig struct {
	MinAttribution float64 `toml:"min_attribution"`
}

type OCRConfig struct {
	MinConfidence float64 `toml:"min_confidence"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type S3Config struct {
	Region       string `toml:"region"`
	Profile      string `toml:"profile"`
	Endpoint     string `toml:"endpoint"`
	UsePathStyle bool   `toml:"use_path_style"`
}

type LoggingConfig struct {
	Level       string `toml:"level"`
	Format      string `toml:"format"`
	OutputPath  string `toml:"output_path"`
	Development bool   `toml:"development"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type Config struct {
	LLM        LLMConfig        `toml:"llm"`
	Clustering ClusteringConfig `toml:"clustering"`
	Classifier ClassifierConfig `toml:"classifier"`
	Builder    BuilderConfig    `toml:"builder"`
	OCR        OCRConfig        `toml:"ocr"`
	Memgraph   MemgraphConfig   `toml:"memgraph"`
	Redis      RedisConfig      `toml:"redis"`
	S3         S3Config         `toml:"s3"`
	Logging    LoggingConfig    `toml:"logging"`
	Server     ServerConfig     `toml:"server"`
}

// Load reads a TOML file on top of Default so omitted keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault falls back to Default when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

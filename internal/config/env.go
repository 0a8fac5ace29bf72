package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ApplyEnv overrides configuration values from environment variables.
func (c *Config) ApplyEnv() error {
	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.Model, "LLM_MODEL")
	setString(&c.LLM.APIKey, "LLM_API_KEY")
	setString(&c.LLM.BaseURL, "LLM_BASE_URL")

	if err := parseEnvFloat("VS_CLUSTER_THRESHOLD", &c.Clustering.Threshold); err != nil {
		return err
	}
	setString(&c.Clustering.Metric, "VS_CLUSTER_METRIC")

	if err := parseEnvInt("VS_CLASSIFIER_MAX_ATTEMPTS", &c.Classifier.MaxAttempts); err != nil {
		return err
	}
	if err := parseEnvSeconds("VS_CLASSIFIER_TIMEOUT_SECS", &c.Classifier.Timeout.Duration); err != nil {
		return err
	}
	if err := parseEnvInt("VS_TOKEN_BUDGET", &c.Classifier.TokenBudget); err != nil {
		return err
	}

	setString(&c.Memgraph.URI, "MEMGRAPH_URI")
	setString(&c.Memgraph.User, "MEMGRAPH_USER")
	setString(&c.Memgraph.Password, "MEMGRAPH_PASSWORD")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.S3.Region, "AWS_REGION")
	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Server.Port, "PORT")
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func parseEnvFloat(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = f
	return nil
}

func parseEnvInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = i
	return nil
}

func parseEnvSeconds(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = time.Duration(secs) * time.Second
	return nil
}

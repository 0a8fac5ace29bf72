package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[clustering]\nthreshold = 0.9\nmetric = \"jaccard\"\n"), 0o644))
	t.Setenv("LLM_MODEL", "gpt-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0.9, cfg.Clustering.Threshold)
	assert.Equal(t, "jaccard", cfg.Clustering.Metric)
	assert.Equal(t, "gpt-env", cfg.LLM.Model)
	assert.Equal(t, 3, cfg.Classifier.MaxAttempts)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, 0.85, cfg.Clustering.Threshold)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Setenv("VS_CLUSTER_THRESHOLD", "1.5")
	_, err := LoadConfig("")
	assert.Error(t, err)

	t.Setenv("VS_CLUSTER_THRESHOLD", "abc")
	_, err = LoadConfig("")
	assert.Error(t, err)
}

func TestNewReconstructorWithoutOptionalServices(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	cfg.LLM.APIKey = "test"
	cfg.Redis.Addr = "127.0.0.1:1"
	cfg.Memgraph.URI = ""

	r, cleanup, err := NewReconstructor(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer cleanup()

	assert.Nil(t, r.Classifier.Cache)
	assert.Nil(t, r.Provenance)
	assert.Equal(t, "openai", r.Classifier.Provider)
}

func TestNewReconstructorUnknownProvider(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	cfg.LLM.Provider = "mystery"

	_, _, err = NewReconstructor(context.Background(), cfg, nil)
	assert.Error(t, err)
}

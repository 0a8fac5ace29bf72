package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alingse/visionscribe/internal/core/model"
)

const ocrPayload = `{
  "total_frames": 3,
  "frames": [
    {"file_path": "f0.jpg", "timestamp": 1.0, "text_blocks": [{"text": "def main():", "confidence": 0.7}]},
    {"file_path": "f1.jpg", "timestamp": 3.2, "text_blocks": [{"text": "def main():", "confidence": 0.95}]},
    {"file_path": "f2.jpg", "timestamp": 4.0, "text_blocks": [{"text": "import os", "confidence": 0.3}]}
  ]
}`

func TestClusterCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "ocr.json")
	out := filepath.Join(dir, "out", "analysis.json")
	require.NoError(t, os.WriteFile(in, []byte(ocrPayload), 0o644))

	rootCmd.SetArgs([]string{"cluster", in, "-o", out, "-c", filepath.Join(dir, "absent.toml")})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var analysis model.Analysis
	require.NoError(t, json.Unmarshal(data, &analysis))

	assert.Equal(t, 2, analysis.Observations)
	require.Len(t, analysis.Blocks, 1)
	assert.Equal(t, "def main():", analysis.Blocks[0].Content)
	assert.Equal(t, 0.95, analysis.Blocks[0].Confidence)
}

//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alingse/visionscribe/internal/app"
	"github.com/alingse/visionscribe/internal/cache"
	"github.com/alingse/visionscribe/internal/config"
	"github.com/alingse/visionscribe/internal/core"
	"github.com/alingse/visionscribe/internal/core/model"
	"github.com/alingse/visionscribe/internal/driver"
	"github.com/alingse/visionscribe/internal/logging"
)

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	_ = godotenv.Load("../../.env")
	cfg, err := app.LoadConfig("../../config/config.toml")
	require.NoError(t, err)
	return cfg
}

func sessionObservations() []model.TextObservation {
	return []model.TextObservation{
		{ID: "o1", SourceFrameID: "f1", Timestamp: 1.0, Content: "def main():\n    print('hello')", Confidence: 0.7},
		{ID: "o2", SourceFrameID: "f2", Timestamp: 3.2, Content: "def main():\n    print('hello')", Confidence: 0.95},
		{ID: "o3", SourceFrameID: "f3", Timestamp: 5.0, Content: "if __name__ == '__main__':\n    main()", Confidence: 0.9},
	}
}

func TestFullFlow(t *testing.T) {
	cfg := loadConfig(t)
	if os.Getenv("LLM_API_KEY") == "" && cfg.LLM.Provider != "ollama" {
		t.Skip("Skipping integration test: LLM_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	r, cleanup, err := app.NewReconstructor(ctx, cfg, logging.MustNew(cfg.Logging))
	require.NoError(t, err)
	defer cleanup()

	res, err := r.Reconstruct(ctx, sessionObservations())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Stats.Blocks)
	if res.Tree != nil {
		for p, f := range res.Tree.Files() {
			assert.NotEmpty(t, f.SourceBlockIDs, p)
		}
	}
	t.Logf("success=%v files=%d conflicts=%d", res.Success, res.Stats.Files, len(res.Conflicts))
}

func TestRedisCache(t *testing.T) {
	cfg := loadConfig(t)
	if cfg.Redis.Addr == "" {
		t.Skip("Skipping integration test: REDIS_ADDR not set")
	}
	ctx := context.Background()
	c := cache.NewRedisCache(cfg.Redis)
	defer c.Close()
	require.NoError(t, c.Ping(ctx))

	key := "visionscribe:test:" + uuid.NewString()
	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, `{"structure":{}}`, time.Minute))
	val, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"structure":{}}`, val)
}

func TestProvenanceInMemgraph(t *testing.T) {
	cfg := loadConfig(t)
	if cfg.Memgraph.URI == "" {
		t.Skip("Skipping integration test: MEMGRAPH_URI not set")
	}
	ctx := context.Background()
	d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph, nil)
	require.NoError(t, err)
	defer d.Close(ctx)

	p := core.NewProvenanceRecorder(d)
	require.NoError(t, p.BuildIndices(ctx))

	tree := model.NewDirectory("")
	tree.Children["main.py"] = model.NewFileLeaf("main.py", "print(1)", "python", []string{"blk-1"})
	runID := uuid.NewString()
	res := &model.ReconstructionResult{RunID: runID, Success: true, Tree: tree, Stats: model.ResultStats{Files: 1, Blocks: 1}}
	blocks := []model.CanonicalTextBlock{{ID: "blk-1", Content: "print(1)", Confidence: 0.9, SourceObservationIDs: []string{"o1"}}}

	require.NoError(t, p.Record(ctx, blocks, res))

	out, err := d.ExecuteQuery(ctx, driver.GetRunFilesQuery, map[string]interface{}{"run_id": runID})
	require.NoError(t, err)
	require.Len(t, out.Records, 1)
	path, _ := out.Records[0].Get("path")
	assert.Equal(t, "main.py", path)
}

package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alingse/visionscribe/internal/core/model"
	"github.com/alingse/visionscribe/internal/driver"
)

// ProvenanceRecorder persists which observations and blocks each emitted
// file came from, so a run can be audited after the fact.
type ProvenanceRecorder struct {
	Driver driver.GraphDriver
	Now    func() time.Time
}

func NewProvenanceRecorder(d driver.GraphDriver) *ProvenanceRecorder {
	return &ProvenanceRecorder{Driver: d, Now: time.Now}
}

func (p *ProvenanceRecorder) BuildIndices(ctx context.Context) error {
	return p.Driver.BuildIndices(ctx)
}

func (p *ProvenanceRecorder) Record(ctx context.Context, blocks []model.CanonicalTextBlock, res *model.ReconstructionResult) error {
	if res.RunID == "" {
		return fmt.Errorf("reconstruction result has no run id")
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	runParams := map[string]interface{}{
		"uuid":         res.RunID,
		"created_at":   now().UTC(),
		"success":      res.Success,
		"observations": res.Stats.Observations,
		"clusters":     res.Stats.Clusters,
		"blocks":       res.Stats.Blocks,
		"files":        res.Stats.Files,
	}
	if _, err := p.Driver.ExecuteQuery(ctx, driver.SaveRunQuery, runParams); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	for _, b := range blocks {
		params := map[string]interface{}{
			"run_id":          res.RunID,
			"uuid":            b.ID,
			"content":         b.Content,
			"confidence":      b.Confidence,
			"category":        b.Category,
			"observation_ids": b.SourceObservationIDs,
		}
		if _, err := p.Driver.ExecuteQuery(ctx, driver.SaveBlockQuery, params); err != nil {
			return fmt.Errorf("failed to save block %s: %w", b.ID, err)
		}
	}

	if res.Tree != nil {
		files := res.Tree.Files()
		paths := make([]string, 0, len(files))
		for rel := range files {
			paths = append(paths, rel)
		}
		sort.Strings(paths)
		for _, rel := range paths {
			leaf := files[rel]
			params := map[string]interface{}{
				"run_id":     res.RunID,
				"path":       rel,
				"file_type":  leaf.FileType,
				"size_bytes": leaf.SizeBytes,
				"block_ids":  leaf.SourceBlockIDs,
			}
			if _, err := p.Driver.ExecuteQuery(ctx, driver.SaveFileQuery, params); err != nil {
				return fmt.Errorf("failed to save file %s: %w", rel, err)
			}
		}
	}

	for i, c := range res.Conflicts {
		params := map[string]interface{}{
			"run_id":     res.RunID,
			"seq":        i,
			"path":       c.Path,
			"kind":       string(c.Kind),
			"resolution": string(c.Resolution),
			"block_id":   c.BlockID,
			"detail":     c.Detail,
		}
		if _, err := p.Driver.ExecuteQuery(ctx, driver.SaveConflictQuery, params); err != nil {
			return fmt.Errorf("failed to save conflict %d: %w", i, err)
		}
	}
	return nil
}

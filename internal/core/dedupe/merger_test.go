package dedupe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alingse/visionscribe/internal/core/cluster"
	"github.com/alingse/visionscribe/internal/core/model"
	"github.com/alingse/visionscribe/internal/core/similarity"
)

func obs(id string, ts float64, content string, conf float64) model.TextObservation {
	return model.TextObservation{ID: id, Timestamp: ts, Content: content, Confidence: conf}
}

func TestMergeScenarioHighestConfidenceWins(t *testing.T) {
	c, err := cluster.NewClusterer(0.85, similarity.Levenshtein)
	require.NoError(t, err)
	clusters, err := c.Cluster([]model.TextObservation{
		obs("o1", 1.0, "def main():", 0.7),
		obs("o2", 3.2, "def main():", 0.95),
	})
	require.NoError(t, err)
	require.Len(t, clusters, 1)

	block, err := NewMerger().Merge(clusters[0])
	require.NoError(t, err)
	assert.Equal(t, "def main():", block.Content)
	assert.Equal(t, 0.95, block.Confidence)
	assert.Equal(t, []string{"o1", "o2"}, block.SourceObservationIDs)
	assert.Equal(t, "python", block.Category)
}

func TestMergeTieBreaks(t *testing.T) {
	tests := []struct {
		name    string
		members []model.TextObservation
		want    string
	}{
		{
			name: "longer normalized content on equal confidence",
			members: []model.TextObservation{
				obs("a", 0, "func main()", 0.9),
				obs("b", 1, "func main() {", 0.9),
			},
			want: "func main() {",
		},
		{
			name: "whitespace does not count toward length",
			members: []model.TextObservation{
				obs("a", 0, "x = 1", 0.9),
				obs("b", 1, "x    =    1", 0.9),
			},
			want: "x = 1",
		},
		{
			name: "earliest timestamp on full tie",
			members: []model.TextObservation{
				obs("late", 5, "return nil", 0.8),
				obs("early", 2, "return nll", 0.8),
			},
			want: "return nll",
		},
		{
			name: "confidence beats length",
			members: []model.TextObservation{
				obs("a", 0, "import os, sys", 0.6),
				obs("b", 1, "import os", 0.99),
			},
			want: "import os",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, err := NewMerger().Merge(model.Cluster{ID: "c1", Members: tt.members, Threshold: 0.5})
			require.NoError(t, err)
			assert.Equal(t, tt.want, block.Content)
		})
	}
}

func TestMergeEmptyCluster(t *testing.T) {
	_, err := NewMerger().Merge(model.Cluster{ID: "empty"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyCluster)

	var ece *EmptyClusterError
	require.True(t, errors.As(err, &ece))
	assert.Equal(t, "empty", ece.ClusterID)
}

func TestMergeIdempotent(t *testing.T) {
	c := model.Cluster{ID: "c1", Members: []model.TextObservation{
		obs("a", 0, "SELECT 1", 0.5),
		obs("b", 1, "SELECT 1", 0.5),
	}}
	m := NewMerger()
	first, err := m.Merge(c)
	require.NoError(t, err)
	second, err := m.Merge(c)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, BlockID("c1"), first.ID)
}

func TestMergeAll(t *testing.T) {
	m := &Merger{}
	blocks, err := m.MergeAll([]model.Cluster{
		{ID: "c1", Members: []model.TextObservation{obs("a", 0, "one", 0.4)}},
		{ID: "c2", Members: []model.TextObservation{obs("b", 1, "two", 0.6)}},
	})
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "one", blocks[0].Content)
	assert.Equal(t, "two", blocks[1].Content)
	assert.Empty(t, blocks[0].Category)

	_, err = m.MergeAll([]model.Cluster{{ID: "c1", Members: []model.TextObservation{obs("a", 0, "one", 0.4)}}, {ID: "bad"}})
	assert.ErrorIs(t, err, ErrEmptyCluster)
}

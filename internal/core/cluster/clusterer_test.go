package cluster

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alingse/visionscribe/internal/core/model"
	"github.com/alingse/visionscribe/internal/core/similarity"
)

func obs(id string, ts float64, content string, conf float64) model.TextObservation {
	return model.TextObservation{ID: id, SourceFrameID: "frame-" + id, Timestamp: ts, Content: content, Confidence: conf}
}

func TestClusterSameTextAcrossFrames(t *testing.T) {
	c, err := NewClusterer(0.85, similarity.Levenshtein)
	require.NoError(t, err)

	clusters, err := c.Cluster([]model.TextObservation{
		obs("o2", 3.2, "def main():", 0.95),
		obs("o1", 1.0, "def main():", 0.7),
	})
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, []string{"o1", "o2"}, clusters[0].MemberIDs())
	assert.Equal(t, 0.85, clusters[0].Threshold)

	rep, ok := clusters[0].Representative()
	require.True(t, ok)
	assert.Equal(t, "o1", rep.ID)
}

func TestClusterEmptyAndSingle(t *testing.T) {
	c, err := NewClusterer(0.5, nil)
	require.NoError(t, err)

	clusters, err := c.Cluster(nil)
	require.NoError(t, err)
	assert.Empty(t, clusters)

	clusters, err = c.Cluster([]model.TextObservation{obs("only", 0, "x := 1", 0.9)})
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, []string{"only"}, clusters[0].MemberIDs())
}

func TestClusterThresholdOneGroupsExactText(t *testing.T) {
	c, err := NewClusterer(1.0, similarity.Levenshtein)
	require.NoError(t, err)

	clusters, err := c.Cluster([]model.TextObservation{
		obs("a", 0, "import os", 0.9),
		obs("b", 1, "IMPORT   os", 0.9),
		obs("c", 2, "import of", 0.9),
	})
	require.NoError(t, err)
	require.Len(t, clusters, 2)
	assert.Equal(t, []string{"a", "b"}, clusters[0].MemberIDs())
	assert.Equal(t, []string{"c"}, clusters[1].MemberIDs())
}

func TestClusterTieGoesToEarliestRepresentative(t *testing.T) {
	c, err := NewClusterer(0.6, similarity.Jaccard)
	require.NoError(t, err)

	clusters, err := c.Cluster([]model.TextObservation{
		obs("first", 0, "a b c", 0.9),
		obs("second", 1, "a b d", 0.9),
		obs("both", 2, "a b c d", 0.9),
	})
	require.NoError(t, err)
	require.Len(t, clusters, 2)
	assert.Equal(t, []string{"first", "both"}, clusters[0].MemberIDs())
	assert.Equal(t, []string{"second"}, clusters[1].MemberIDs())
}

func TestClusterInvalidThreshold(t *testing.T) {
	for _, th := range []float64{0, -0.1, 1.5} {
		_, err := NewClusterer(th, nil)
		assert.ErrorIs(t, err, ErrInvalidThreshold)
	}

	c := &Clusterer{Threshold: 2, Metric: similarity.Levenshtein}
	_, err := c.Cluster([]model.TextObservation{obs("a", 0, "x", 1)})
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestClusterDuplicateID(t *testing.T) {
	c, err := NewClusterer(0.8, nil)
	require.NoError(t, err)
	_, err = c.Cluster([]model.TextObservation{obs("a", 0, "x", 1), obs("a", 1, "y", 1)})
	assert.ErrorIs(t, err, ErrDuplicateObservation)
}

func sampleObservations() []model.TextObservation {
	lines := []string{
		"package main",
		"func main() {",
		"fmt.Println(\"hello\")",
		"package maln",
		"func main() {}",
		"import \"fmt\"",
	}
	var out []model.TextObservation
	for i := 0; i < 30; i++ {
		out = append(out, obs(fmt.Sprintf("o%02d", i), float64(i%7)*0.5, lines[i%len(lines)], 0.5+float64(i%5)/10))
	}
	return out
}

func TestClusterPartitionAndInvariant(t *testing.T) {
	c, err := NewClusterer(0.85, similarity.Levenshtein)
	require.NoError(t, err)

	input := sampleObservations()
	clusters, err := c.Cluster(input)
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, cl := range clusters {
		rep, ok := cl.Representative()
		require.True(t, ok)
		for i, m := range cl.Members {
			seen[m.ID]++
			score := similarity.Compare(c.Metric, m.Content, rep.Content)
			assert.GreaterOrEqual(t, score, c.Threshold)
			if i > 0 {
				assert.LessOrEqual(t, cl.Members[i-1].Timestamp, m.Timestamp)
			}
		}
	}
	require.Len(t, seen, len(input))
	for id, n := range seen {
		assert.Equal(t, 1, n, "observation %s in %d clusters", id, n)
	}
}

func TestClusterDeterministic(t *testing.T) {
	c, err := NewClusterer(0.85, similarity.Levenshtein)
	require.NoError(t, err)

	input := sampleObservations()
	first, err := c.Cluster(input)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 5; i++ {
		shuffled := append([]model.TextObservation(nil), input...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		again, err := c.Cluster(shuffled)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestClusterDoesNotMutateInput(t *testing.T) {
	c, err := NewClusterer(0.85, nil)
	require.NoError(t, err)
	input := []model.TextObservation{obs("b", 2, "y", 1), obs("a", 1, "x", 1)}
	_, err = c.Cluster(input)
	require.NoError(t, err)
	assert.Equal(t, "b", input[0].ID)
}

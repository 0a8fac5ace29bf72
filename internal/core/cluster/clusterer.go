package cluster

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/alingse/visionscribe/internal/core/model"
	"github.com/alingse/visionscribe/internal/core/similarity"
)

var (
	ErrInvalidThreshold     = errors.New("similarity threshold must be in (0, 1]")
	ErrDuplicateObservation = errors.New("duplicate observation id")
)

// Namespace seeds the deterministic cluster ids.
var Namespace = uuid.MustParse("5a7c1e0e-3d4b-4f38-9c61-0b7f2f7f6a10")

// Clusterer groups observations that show the same on-screen text using
// a single timestamp-ordered pass against each cluster's representative.
type Clusterer struct {
	Threshold float64
	Metric    similarity.Metric
}

func NewClusterer(threshold float64, metric similarity.Metric) (*Clusterer, error) {
	if threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("%w (got %v)", ErrInvalidThreshold, threshold)
	}
	if metric == nil {
		metric = similarity.Levenshtein
	}
	return &Clusterer{
		Threshold: threshold,
		Metric:    metric,
	}, nil
}

type workingCluster struct {
	rep     string // normalized representative content
	members []model.TextObservation
}

func (c *Clusterer) Cluster(observations []model.TextObservation) ([]model.Cluster, error) {
	if c.Threshold <= 0 || c.Threshold > 1 {
		return nil, fmt.Errorf("%w (got %v)", ErrInvalidThreshold, c.Threshold)
	}
	if len(observations) == 0 {
		return nil, nil
	}

	ordered := make([]model.TextObservation, len(observations))
	copy(ordered, observations)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Timestamp != ordered[j].Timestamp {
			return ordered[i].Timestamp < ordered[j].Timestamp
		}
		return ordered[i].ID < ordered[j].ID
	})

	seen := make(map[string]struct{}, len(ordered))
	var working []*workingCluster

	for _, obs := range ordered {
		if _, dup := seen[obs.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateObservation, obs.ID)
		}
		seen[obs.ID] = struct{}{}

		norm := similarity.Normalize(obs.Content)
		best := -1
		bestScore := 0.0
		// clusters are opened in timestamp order, so strict > keeps the
		// earliest representative on ties
		for i, wc := range working {
			score := c.Metric(norm, wc.rep)
			if score >= c.Threshold && score > bestScore {
				best = i
				bestScore = score
			}
		}

		if best == -1 {
			working = append(working, &workingCluster{
				rep:     norm,
				members: []model.TextObservation{obs},
			})
			continue
		}
		working[best].members = append(working[best].members, obs)
	}

	clusters := make([]model.Cluster, len(working))
	for i, wc := range working {
		clusters[i] = model.Cluster{
			ID:        ClusterID(wc.members[0].ID),
			Members:   wc.members,
			Threshold: c.Threshold,
		}
	}
	return clusters, nil
}

// ClusterID derives a stable cluster id from its representative observation.
func ClusterID(representativeID string) string {
	return uuid.NewSHA1(Namespace, []byte(representativeID)).String()
}

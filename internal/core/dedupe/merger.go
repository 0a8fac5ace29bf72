package dedupe

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/alingse/visionscribe/internal/core/filetype"
	"github.com/alingse/visionscribe/internal/core/model"
	"github.com/alingse/visionscribe/internal/core/similarity"
)

var ErrEmptyCluster = errors.New("cluster has no members")

type EmptyClusterError struct {
	ClusterID string
}

func (e *EmptyClusterError) Error() string {
	return fmt.Sprintf("cannot merge cluster %s: no members", e.ClusterID)
}

func (e *EmptyClusterError) Is(target error) bool {
	return target == ErrEmptyCluster
}

// Namespace seeds the deterministic block ids.
var Namespace = uuid.MustParse("0c6f3d8e-52a1-4c67-8f1e-6b2d9a4e7c35")

// Merger collapses a cluster into a single canonical text block.
type Merger struct {
	// DetectCategory tags blocks with a guessed language when set.
	DetectCategory bool
}

func NewMerger() *Merger {
	return &Merger{DetectCategory: true}
}

func (m *Merger) Merge(c model.Cluster) (model.CanonicalTextBlock, error) {
	if len(c.Members) == 0 {
		return model.CanonicalTextBlock{}, &EmptyClusterError{ClusterID: c.ID}
	}

	best := c.Members[0]
	bestLen := utf8.RuneCountInString(similarity.Normalize(best.Content))
	maxConf := best.Confidence
	for _, o := range c.Members[1:] {
		if o.Confidence > maxConf {
			maxConf = o.Confidence
		}
		l := utf8.RuneCountInString(similarity.Normalize(o.Content))
		if preferred(o, l, best, bestLen) {
			best, bestLen = o, l
		}
	}

	block := model.CanonicalTextBlock{
		ID:                   BlockID(c.ID),
		Content:              best.Content,
		Confidence:           maxConf,
		SourceObservationIDs: c.MemberIDs(),
	}
	if m.DetectCategory {
		if lang := filetype.DetectLanguage(best.Content); lang != filetype.Unknown {
			block.Category = lang
		}
	}
	return block, nil
}

// preferred orders candidates by confidence, then normalized length,
// then earliest timestamp, then id.
func preferred(o model.TextObservation, oLen int, cur model.TextObservation, curLen int) bool {
	if o.Confidence != cur.Confidence {
		return o.Confidence > cur.Confidence
	}
	if oLen != curLen {
		return oLen > curLen
	}
	if o.Timestamp != cur.Timestamp {
		return o.Timestamp < cur.Timestamp
	}
	return o.ID < cur.ID
}

// MergeAll merges clusters in order. It stops at the first empty cluster.
func (m *Merger) MergeAll(clusters []model.Cluster) ([]model.CanonicalTextBlock, error) {
	blocks := make([]model.CanonicalTextBlock, 0, len(clusters))
	for _, c := range clusters {
		b, err := m.Merge(c)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func BlockID(clusterID string) string {
	return uuid.NewSHA1(Namespace, []byte(clusterID)).String()
}

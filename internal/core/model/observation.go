package model

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// BoundingBox is the on-screen rectangle an observation was read from, in pixels.
type BoundingBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// TextObservation is one OCR reading of a text region in a single frame.
type TextObservation struct {
	ID            string       `json:"id"`
	SourceFrameID string       `json:"source_frame_id"`
	Timestamp     float64      `json:"timestamp"`
	Content       string       `json:"content"`
	Confidence    float64      `json:"confidence"`
	BoundingBox   *BoundingBox `json:"bounding_box,omitempty"`
	Language      string       `json:"language,omitempty"`
}

func (o TextObservation) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("observation has empty id")
	}
	if math.IsNaN(o.Timestamp) || math.IsInf(o.Timestamp, 0) || o.Timestamp < 0 {
		return fmt.Errorf("observation %s: invalid timestamp %v", o.ID, o.Timestamp)
	}
	if math.IsNaN(o.Confidence) || o.Confidence < 0 || o.Confidence > 1 {
		return fmt.Errorf("observation %s: confidence must be between 0.0 and 1.0 (got %v)", o.ID, o.Confidence)
	}
	if !utf8.ValidString(o.Content) {
		return fmt.Errorf("observation %s: content is not valid UTF-8", o.ID)
	}
	return nil
}

// Cluster groups observations judged to be the same on-screen text.
// Members are ordered by timestamp; the first member is the representative
// every other member was compared against.
type Cluster struct {
	ID        string            `json:"id"`
	Members   []TextObservation `json:"members"`
	Threshold float64           `json:"threshold"`
}

func (c Cluster) MemberIDs() []string {
	ids := make([]string, len(c.Members))
	for i, m := range c.Members {
		ids[i] = m.ID
	}
	return ids
}

func (c Cluster) Representative() (TextObservation, bool) {
	if len(c.Members) == 0 {
		return TextObservation{}, false
	}
	return c.Members[0], true
}

// CanonicalTextBlock is the single surviving text for a cluster.
type CanonicalTextBlock struct {
	ID                   string   `json:"id"`
	Content              string   `json:"content"`
	Confidence           float64  `json:"confidence"`
	SourceObservationIDs []string `json:"source_observation_ids"`
	Category             string   `json:"category,omitempty"`
}

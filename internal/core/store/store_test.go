package store

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alingse/visionscribe/internal/core/model"
)

func TestStoreConcurrentAdd(t *testing.T) {
	s := NewObservationStore()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				err := s.Add(model.TextObservation{
					ID:         fmt.Sprintf("w%d-%d", w, i),
					Timestamp:  float64(i),
					Content:    "line",
					Confidence: 0.8,
				})
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 200, s.Len())
	snap := s.Snapshot()
	for i := 1; i < len(snap); i++ {
		assert.LessOrEqual(t, snap[i-1].Timestamp, snap[i].Timestamp)
	}
}

func TestStoreRejectsInvalid(t *testing.T) {
	s := NewObservationStore()
	require.NoError(t, s.Add(model.TextObservation{ID: "a", Content: "x", Confidence: 0.5}))

	assert.Error(t, s.Add(model.TextObservation{ID: "a", Content: "y", Confidence: 0.5}))
	assert.Error(t, s.Add(model.TextObservation{ID: "b", Content: "y", Confidence: 1.5}))
	assert.Error(t, s.Add(model.TextObservation{ID: "c", Content: "y", Confidence: 0.5, Timestamp: -1}))
	assert.Error(t, s.Add(model.TextObservation{ID: "", Content: "y", Confidence: 0.5}))

	// all-or-nothing
	err := s.Add(
		model.TextObservation{ID: "d", Content: "ok", Confidence: 0.5},
		model.TextObservation{ID: "d", Content: "dup", Confidence: 0.5},
	)
	assert.Error(t, err)
	assert.Equal(t, 1, s.Len())

	s.Reset()
	assert.Equal(t, 0, s.Len())
}

const samplePayload = `{
  "total_frames": 2,
  "processing_info": {"languages": ["en"], "confidence_threshold": 0.5},
  "frames": [
    {
      "file_path": "frames/frame_0001_t3.jpg",
      "timestamp": 3.2,
      "text_blocks": [
        {"text": "def main():", "confidence": 0.95, "bbox": [[10, 20], [110, 20], [110, 40], [10, 40]], "language": "en"},
        {"text": "   ", "confidence": 0.99}
      ]
    },
    {
      "frame_id": 0,
      "file_path": "frames/frame_0000_t1.jpg",
      "timestamp": 1.0,
      "text_blocks": [
        {"id": "given", "text": "def main():", "confidence": 0.7, "bbox": [10, 20, 110, 40]},
        {"text": "noise", "confidence": 0.2}
      ]
    }
  ]
}`

func TestLoadOCR(t *testing.T) {
	s := NewObservationStore()
	n, err := s.LoadOCR(strings.NewReader(samplePayload), 0.5)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "given", snap[0].ID)
	assert.Equal(t, "frame-0", snap[0].SourceFrameID)
	assert.Equal(t, 1.0, snap[0].Timestamp)
	assert.Equal(t, &model.BoundingBox{X1: 10, Y1: 20, X2: 110, Y2: 40}, snap[0].BoundingBox)

	assert.Equal(t, "frames/frame_0001_t3.jpg", snap[1].SourceFrameID)
	assert.Equal(t, &model.BoundingBox{X1: 10, Y1: 20, X2: 110, Y2: 40}, snap[1].BoundingBox)
	assert.Equal(t, "en", snap[1].Language)
	assert.NotEmpty(t, snap[1].ID)

	// derived ids are stable
	p, err := DecodeOCRPayload(strings.NewReader(samplePayload))
	require.NoError(t, err)
	assert.Equal(t, snap[1].ID, p.Observations(0.5)[0].ID)
}

func TestDecodeOCRPayloadErrors(t *testing.T) {
	_, err := DecodeOCRPayload(strings.NewReader("{"))
	assert.Error(t, err)

	for _, bbox := range []string{`[1,2,3]`, `[[1]]`, `[[]]`, `[]`, `[[1,2],[3]]`} {
		doc := `{"frames":[{"timestamp":1,"text_blocks":[{"text":"x","confidence":0.9,"bbox":` + bbox + `}]}]}`
		assert.NotPanics(t, func() {
			_, err = DecodeOCRPayload(strings.NewReader(doc))
		}, bbox)
		assert.Error(t, err, bbox)
	}
}

func TestLoadOCRFractionalFrameIDs(t *testing.T) {
	doc := `{"frames": [
		{"frame_id": 1.5, "timestamp": 1, "text_blocks": [{"text": "alpha", "confidence": 0.9}]},
		{"frame_id": 1.7, "timestamp": 2, "text_blocks": [{"text": "beta", "confidence": 0.9}]},
		{"frame_id": 2, "timestamp": 3, "text_blocks": [{"text": "gamma", "confidence": 0.9}]}
	]}`

	s := NewObservationStore()
	n, err := s.LoadOCR(strings.NewReader(doc), 0.5)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	snap := s.Snapshot()
	assert.Equal(t, "frame-1.5", snap[0].SourceFrameID)
	assert.Equal(t, "frame-1.7", snap[1].SourceFrameID)
	assert.Equal(t, "frame-2", snap[2].SourceFrameID)
	assert.NotEqual(t, snap[0].ID, snap[1].ID)
}

package store

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/alingse/visionscribe/internal/core/model"
)

// Namespace seeds ids for OCR blocks that arrive without one.
var Namespace = uuid.MustParse("9b1e4f52-7d0a-4c3e-8a55-2f6c1d9e0b74")

// OCRPayload is the JSON document written by the OCR stage.
type OCRPayload struct {
	TotalFrames    int            `json:"total_frames"`
	ProcessingInfo map[string]any `json:"processing_info,omitempty"`
	Frames         []OCRFrame     `json:"frames"`
}

type OCRFrame struct {
	FrameID    any            `json:"frame_id,omitempty"`
	FilePath   string         `json:"file_path"`
	Timestamp  float64        `json:"timestamp"`
	TextBlocks []OCRTextBlock `json:"text_blocks"`
}

type OCRTextBlock struct {
	ID         string   `json:"id,omitempty"`
	Text       string   `json:"text"`
	Confidence float64  `json:"confidence"`
	BBox       *OCRBBox `json:"bbox,omitempty"`
	Language   string   `json:"language,omitempty"`
}

// OCRBBox accepts [x1, y1, x2, y2] or a list of [x, y] corner points.
type OCRBBox struct {
	model.BoundingBox
}

func (b *OCRBBox) UnmarshalJSON(data []byte) error {
	var flat []float64
	if err := json.Unmarshal(data, &flat); err == nil {
		if len(flat) != 4 {
			return fmt.Errorf("bbox needs 4 numbers, got %d", len(flat))
		}
		b.BoundingBox = model.BoundingBox{X1: flat[0], Y1: flat[1], X2: flat[2], Y2: flat[3]}
		return nil
	}

	var points [][]float64
	if err := json.Unmarshal(data, &points); err != nil {
		return fmt.Errorf("bbox must be [x1,y1,x2,y2] or a list of points: %w", err)
	}
	if len(points) == 0 {
		return fmt.Errorf("bbox has no points")
	}
	for _, p := range points {
		if len(p) != 2 {
			return fmt.Errorf("bbox point needs 2 numbers, got %d", len(p))
		}
	}
	box := model.BoundingBox{X1: points[0][0], Y1: points[0][1], X2: points[0][0], Y2: points[0][1]}
	for _, p := range points[1:] {
		box.X1, box.Y1 = min(box.X1, p[0]), min(box.Y1, p[1])
		box.X2, box.Y2 = max(box.X2, p[0]), max(box.Y2, p[1])
	}
	b.BoundingBox = box
	return nil
}

func (b OCRBBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([]float64{b.X1, b.Y1, b.X2, b.Y2})
}

func DecodeOCRPayload(r io.Reader) (*OCRPayload, error) {
	var p OCRPayload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode OCR payload: %w", err)
	}
	return &p, nil
}

// Observations flattens the payload, dropping blank text and blocks below
// minConfidence. Missing ids are derived from the frame and block position.
func (p *OCRPayload) Observations(minConfidence float64) []model.TextObservation {
	var out []model.TextObservation
	for i, f := range p.Frames {
		frameID := frameIdentifier(f, i)
		for j, tb := range f.TextBlocks {
			if strings.TrimSpace(tb.Text) == "" || tb.Confidence < minConfidence {
				continue
			}
			id := tb.ID
			if id == "" {
				id = uuid.NewSHA1(Namespace, []byte(fmt.Sprintf("%s#%d", frameID, j))).String()
			}
			obs := model.TextObservation{
				ID:            id,
				SourceFrameID: frameID,
				Timestamp:     f.Timestamp,
				Content:       tb.Text,
				Confidence:    tb.Confidence,
				Language:      tb.Language,
			}
			if tb.BBox != nil {
				box := tb.BBox.BoundingBox
				obs.BoundingBox = &box
			}
			out = append(out, obs)
		}
	}
	return out
}

func frameIdentifier(f OCRFrame, index int) string {
	switch {
	case f.FrameID != nil:
		if n, ok := f.FrameID.(float64); ok {
			return "frame-" + strconv.FormatFloat(n, 'f', -1, 64)
		}
		return fmt.Sprint(f.FrameID)
	case f.FilePath != "":
		return f.FilePath
	}
	return fmt.Sprintf("frame-%d", index)
}

// LoadOCR decodes a payload and adds its observations to the store.
func (s *ObservationStore) LoadOCR(r io.Reader, minConfidence float64) (int, error) {
	p, err := DecodeOCRPayload(r)
	if err != nil {
		return 0, err
	}
	obs := p.Observations(minConfidence)
	if err := s.Add(obs...); err != nil {
		return 0, err
	}
	return len(obs), nil
}

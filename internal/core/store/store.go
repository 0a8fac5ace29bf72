package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/alingse/visionscribe/internal/core/model"
)

// ObservationStore collects observations from concurrent OCR producers.
type ObservationStore struct {
	mu    sync.RWMutex
	items []model.TextObservation
	ids   map[string]struct{}
}

func NewObservationStore() *ObservationStore {
	return &ObservationStore{ids: make(map[string]struct{})}
}

// Add validates and appends observations. The batch is all-or-nothing.
func (s *ObservationStore) Add(observations ...model.TextObservation) error {
	batch := make(map[string]struct{}, len(observations))
	for _, o := range observations {
		if err := o.Validate(); err != nil {
			return err
		}
		if _, dup := batch[o.ID]; dup {
			return fmt.Errorf("duplicate observation id %s in batch", o.ID)
		}
		batch[o.ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range observations {
		if _, dup := s.ids[o.ID]; dup {
			return fmt.Errorf("observation %s already stored", o.ID)
		}
	}
	for _, o := range observations {
		s.ids[o.ID] = struct{}{}
		s.items = append(s.items, o)
	}
	return nil
}

func (s *ObservationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Snapshot returns a copy ordered by timestamp, then id.
func (s *ObservationStore) Snapshot() []model.TextObservation {
	s.mu.RLock()
	out := make([]model.TextObservation, len(s.items))
	copy(out, s.items)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp < out[j].Timestamp
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *ObservationStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.ids = make(map[string]struct{})
}

package store

import (
	"time"

	"github.com/amishk599/resumefit/internal/model"
)

// NopStore is used when history is disabled. Results stay in memory only.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Record(rec model.Record) error { return nil }
func (s *NopStore) Recent(limit int) ([]model.Record, error) { return nil, nil }
func (s *NopStore) Cleanup(olderThan time.Duration) error { return nil }

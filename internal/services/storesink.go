package services

import (
	"github.com/kalagato/valuebot-backend/internal/models"
	"github.com/kalagato/valuebot-backend/internal/storage"
)

// StoreSink adapts the lead store to the RecordSink interface, so completed
// conversations land in Postgres (or the in-memory store) alongside the
// spreadsheet.
type StoreSink struct {
	store storage.Store
}

// NewStoreSink wraps a store as a record sink.
func NewStoreSink(store storage.Store) *StoreSink {
	return &StoreSink{store: store}
}

func (s *StoreSink) SaveLead(lead *models.ValuationLead) error {
	_, err := s.store.CreateLead(lead)
	return err
}

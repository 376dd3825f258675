package storage

import (
	"github.com/kalagato/valuebot-backend/internal/models"
)

var storeInstance Store

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	return storeInstance
}

// Store defines the interface for lead persistence
type Store interface {
	// Lead operations
	CreateLead(lead *models.ValuationLead) (*models.ValuationLead, error)
	GetLead(id string) (*models.ValuationLead, error)
	GetLeadsByPhone(phone string) ([]*models.ValuationLead, error)
	GetAllLeads() ([]*models.ValuationLead, error)
	CountLeads() (int64, error)
}

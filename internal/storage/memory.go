package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kalagato/valuebot-backend/internal/models"
)

// MemoryStore holds leads in memory, for tests and local development
type MemoryStore struct {
	leads map[string]*models.ValuationLead
	order []string // insertion order, leads are append-only

	mu sync.RWMutex
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		leads: make(map[string]*models.ValuationLead),
	}
}

func (m *MemoryStore) CreateLead(lead *models.ValuationLead) (*models.ValuationLead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}

	m.leads[lead.ID] = lead
	m.order = append(m.order, lead.ID)
	return lead, nil
}

func (m *MemoryStore) GetLead(id string) (*models.ValuationLead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lead, exists := m.leads[id]
	if !exists {
		return nil, fmt.Errorf("lead not found")
	}
	return lead, nil
}

func (m *MemoryStore) GetLeadsByPhone(phone string) ([]*models.ValuationLead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var leads []*models.ValuationLead
	for _, id := range m.order {
		if m.leads[id].UserPhone == phone {
			leads = append(leads, m.leads[id])
		}
	}
	return leads, nil
}

func (m *MemoryStore) GetAllLeads() ([]*models.ValuationLead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	leads := make([]*models.ValuationLead, 0, len(m.order))
	for _, id := range m.order {
		leads = append(leads, m.leads[id])
	}
	return leads, nil
}

func (m *MemoryStore) CountLeads() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.leads)), nil
}

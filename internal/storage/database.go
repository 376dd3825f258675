package storage

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kalagato/valuebot-backend/internal/models"
)

// DatabaseStore persists leads in PostgreSQL via GORM
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a database-backed store
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (d *DatabaseStore) CreateLead(lead *models.ValuationLead) (*models.ValuationLead, error) {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}

	if err := d.db.Create(lead).Error; err != nil {
		return nil, err
	}
	return lead, nil
}

func (d *DatabaseStore) GetLead(id string) (*models.ValuationLead, error) {
	var lead models.ValuationLead
	if err := d.db.First(&lead, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

func (d *DatabaseStore) GetLeadsByPhone(phone string) ([]*models.ValuationLead, error) {
	var leads []*models.ValuationLead
	if err := d.db.Where("user_phone = ?", phone).Order("created_at").Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

func (d *DatabaseStore) GetAllLeads() ([]*models.ValuationLead, error) {
	var leads []*models.ValuationLead
	if err := d.db.Order("created_at").Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

func (d *DatabaseStore) CountLeads() (int64, error) {
	var count int64
	if err := d.db.Model(&models.ValuationLead{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

package store

import (
	"context"
	"fmt"

	"github.com/dukerupert/officecrm/internal/model"
	"gorm.io/gorm"
)

type LeadStore struct {
	db *gorm.DB
}

func NewLeadStore(db *gorm.DB) *LeadStore {
	return &LeadStore{db: db}
}

func (s *LeadStore) Create(ctx context.Context, l *model.Lead) error {
	if l.ID == "" {
		l.ID = newID()
	}
	if l.Name == "" {
		l.Name = "Untitled"
	}
	if l.Status == "" {
		l.Status = model.LeadNew
	}
	if err := s.db.WithContext(ctx).Create(l).Error; err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// ListByClient returns a client's leads, newest first.
func (s *LeadStore) ListByClient(ctx context.Context, clientID string) ([]model.Lead, error) {
	out := []model.Lead{}
	err := s.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return out, nil
}

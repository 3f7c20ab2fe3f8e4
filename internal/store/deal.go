package store

import (
	"context"
	"fmt"

	"github.com/dukerupert/officecrm/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DealStore struct {
	db *gorm.DB
}

func NewDealStore(db *gorm.DB) *DealStore {
	return &DealStore{db: db}
}

func (s *DealStore) Create(ctx context.Context, d *model.Deal) error {
	if d.ID == "" {
		d.ID = newID()
	}
	if d.Stage == "" {
		d.Stage = model.StageNew
	}
	if d.DecisionMakers == nil {
		d.DecisionMakers = datatypes.JSONSlice[string]{}
	}
	if err := s.db.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("insert deal: %w", err)
	}
	return nil
}

func (s *DealStore) GetByID(ctx context.Context, id string) (*model.Deal, error) {
	var d model.Deal
	err := s.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get deal: %w", err)
	}
	return &d, nil
}

// ListByClient returns a client's deals, newest first.
func (s *DealStore) ListByClient(ctx context.Context, clientID string) ([]model.Deal, error) {
	out := []model.Deal{}
	err := s.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	return out, nil
}

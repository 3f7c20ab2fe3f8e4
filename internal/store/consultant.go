package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/dukerupert/officecrm/internal/model"
	"github.com/dukerupert/officecrm/internal/schedule"
	"gorm.io/gorm"
)

type ConsultantStore struct {
	db *gorm.DB
}

func NewConsultantStore(db *gorm.DB) *ConsultantStore {
	return &ConsultantStore{db: db}
}

func (s *ConsultantStore) Create(ctx context.Context, name string, email *string) (*model.Consultant, error) {
	c := &model.Consultant{ID: newID(), Name: strings.TrimSpace(name), Email: email}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("insert consultant: %w", err)
	}
	return c, nil
}

func (s *ConsultantStore) GetByID(ctx context.Context, id string) (*model.Consultant, error) {
	var c model.Consultant
	err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get consultant: %w", err)
	}
	return &c, nil
}

// List returns every consultant ordered by name.
func (s *ConsultantStore) List(ctx context.Context) ([]model.Consultant, error) {
	var out []model.Consultant
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list consultants: %w", err)
	}
	return out, nil
}

// ListWithAppointments returns consultants that have at least one appointment
// on record, ordered by name.
func (s *ConsultantStore) ListWithAppointments(ctx context.Context) ([]model.Consultant, error) {
	var out []model.Consultant
	err := s.db.WithContext(ctx).
		Select("id", "name").
		Where("EXISTS (SELECT 1 FROM appointments a WHERE a.consultant_id = consultants.id)").
		Order("name ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list consultants with appointments: %w", err)
	}
	return out, nil
}

// ListWithAppointmentsIn returns consultants with an appointment starting inside r,
// ordered by name.
func (s *ConsultantStore) ListWithAppointmentsIn(ctx context.Context, r schedule.Range) ([]model.Consultant, error) {
	endOp := "<"
	if r.EndInclusive {
		endOp = "<="
	}
	var out []model.Consultant
	err := s.db.WithContext(ctx).
		Select("id", "name").
		Where("EXISTS (SELECT 1 FROM appointments a WHERE a.consultant_id = consultants.id AND a.start_at >= ? AND a.start_at "+endOp+" ?)",
			r.Start.UTC(), r.End.UTC()).
		Order("name ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list consultants in range: %w", err)
	}
	return out, nil
}

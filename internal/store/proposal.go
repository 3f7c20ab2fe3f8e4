package store

import (
	"context"
	"fmt"

	"github.com/dukerupert/officecrm/internal/model"
	"gorm.io/gorm"
)

type ProposalStore struct {
	db *gorm.DB
}

func NewProposalStore(db *gorm.DB) *ProposalStore {
	return &ProposalStore{db: db}
}

func (s *ProposalStore) Create(ctx context.Context, p *model.Proposal) error {
	if p.ID == "" {
		p.ID = newID()
	}
	if p.Status == "" {
		p.Status = model.ProposalDraft
	}
	p.IssueDate = p.IssueDate.UTC()
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("insert proposal: %w", err)
	}
	return nil
}

func (s *ProposalStore) GetByID(ctx context.Context, id string) (*model.Proposal, error) {
	var p model.Proposal
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get proposal: %w", err)
	}
	return &p, nil
}

// ListByClient returns the proposals of every deal belonging to a client, most
// recent issue date first.
func (s *ProposalStore) ListByClient(ctx context.Context, clientID string) ([]model.ProposalRow, error) {
	out := []model.ProposalRow{}
	err := s.db.WithContext(ctx).
		Table("proposals AS p").
		Select("p.id, p.title, p.status, p.issue_date, p.valid_until, d.title AS deal_title").
		Joins("JOIN deals d ON d.id = p.deal_id").
		Where("d.client_id = ?", clientID).
		Order("p.issue_date DESC").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	return out, nil
}

// UpdateStatus sets the status and returns the updated proposal, or nil when the
// proposal does not exist.
func (s *ProposalStore) UpdateStatus(ctx context.Context, id string, status model.ProposalStatus) (*model.Proposal, error) {
	res := s.db.WithContext(ctx).
		Model(&model.Proposal{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("update proposal status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.GetByID(ctx, id)
}

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dukerupert/officecrm/internal/model"
	"gorm.io/gorm"
)

type ClientFileStore struct {
	db *gorm.DB
}

func NewClientFileStore(db *gorm.DB) *ClientFileStore {
	return &ClientFileStore{db: db}
}

func (s *ClientFileStore) Create(ctx context.Context, f *model.ClientFile) error {
	if f.ID == "" {
		f.ID = newID()
	}
	f.FileDate = f.FileDate.UTC()
	if err := s.db.WithContext(ctx).Create(f).Error; err != nil {
		return fmt.Errorf("insert client file: %w", err)
	}
	return nil
}

func (s *ClientFileStore) GetByID(ctx context.Context, id string) (*model.ClientFile, error) {
	var f model.ClientFile
	err := s.db.WithContext(ctx).First(&f, "id = ?", id).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get client file: %w", err)
	}
	return &f, nil
}

// ListByClient returns a client's files, most recent file date first.
func (s *ClientFileStore) ListByClient(ctx context.Context, clientID string) ([]model.ClientFile, error) {
	out := []model.ClientFile{}
	err := s.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("file_date DESC, created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list client files: %w", err)
	}
	return out, nil
}

// FileUpdate holds the editable metadata of a file. Nil fields are left unchanged.
type FileUpdate struct {
	DisplayName *string
	Description *string
	Ext         *string
	ContentType *string
	FileDate    *time.Time
}

func (u FileUpdate) fields() map[string]any {
	m := map[string]any{}
	if u.DisplayName != nil {
		m["display_name"] = *u.DisplayName
	}
	if u.Description != nil {
		if *u.Description == "" {
			m["description"] = nil
		} else {
			m["description"] = *u.Description
		}
	}
	if u.Ext != nil {
		m["ext"] = *u.Ext
	}
	if u.ContentType != nil {
		m["content_type"] = *u.ContentType
	}
	if u.FileDate != nil {
		m["file_date"] = u.FileDate.UTC()
	}
	return m
}

// Update applies u and returns the file, or nil when it does not exist.
func (s *ClientFileStore) Update(ctx context.Context, id string, u FileUpdate) (*model.ClientFile, error) {
	if fields := u.fields(); len(fields) > 0 {
		res := s.db.WithContext(ctx).
			Model(&model.ClientFile{}).
			Where("id = ?", id).
			Updates(fields)
		if res.Error != nil {
			return nil, fmt.Errorf("update client file: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, nil
		}
	}
	return s.GetByID(ctx, id)
}

// Delete removes the row and returns it so the caller can drop the stored blob.
// Deleting a missing file is not an error and returns nil.
func (s *ClientFileStore) Delete(ctx context.Context, id string) (*model.ClientFile, error) {
	f, err := s.GetByID(ctx, id)
	if err != nil || f == nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Delete(&model.ClientFile{}, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("delete client file: %w", err)
	}
	return f, nil
}

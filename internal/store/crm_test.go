package store

import (
	"context"
	"testing"
	"time"

	"github.com/dukerupert/officecrm/internal/model"
)

func TestLeadCreateAndList(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	s := NewLeadStore(db)
	cl := mustClient(t, db, "Acme")

	first := &model.Lead{ClientID: cl.ID}
	if err := s.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.Name != "Untitled" || first.Status != model.LeadNew {
		t.Errorf("defaults = %q/%q, want Untitled/NEW", first.Name, first.Status)
	}

	second := &model.Lead{ClientID: cl.ID, Name: "Referral", Status: model.LeadQualified}
	if err := s.Create(ctx, second); err != nil {
		t.Fatalf("create: %v", err)
	}
	// Force distinct creation times.
	db.Model(&model.Lead{}).Where("id = ?", first.ID).Update("created_at", time.Now().UTC().Add(-time.Hour))

	leads, err := s.ListByClient(ctx, cl.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(leads) != 2 || leads[0].ID != second.ID {
		t.Errorf("leads = %v, want newest first", leads)
	}

	other, err := s.ListByClient(ctx, "nobody")
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if other == nil || len(other) != 0 {
		t.Errorf("other = %v, want empty", other)
	}
}

func TestDealCreate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	s := NewDealStore(db)
	cl := mustClient(t, db, "Acme")

	d := &model.Deal{ClientID: cl.ID, Title: "Annual plan", ValueCents: 123456, DecisionMakers: []string{"Ann", "Bob"}}
	if err := s.Create(ctx, d); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Stage != model.StageNew {
		t.Errorf("stage = %q, want NEW", got.Stage)
	}
	if len(got.DecisionMakers) != 2 || got.DecisionMakers[1] != "Bob" {
		t.Errorf("decision makers = %v", got.DecisionMakers)
	}
	if got.ValueCents != 123456 {
		t.Errorf("value = %d, want 123456", got.ValueCents)
	}

	deals, err := s.ListByClient(ctx, cl.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(deals) != 1 {
		t.Errorf("deals = %d, want 1", len(deals))
	}
}

func TestProposalListAndStatus(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	cl := mustClient(t, db, "Acme")
	deal := &model.Deal{ClientID: cl.ID, Title: "Annual plan"}
	if err := NewDealStore(db).Create(ctx, deal); err != nil {
		t.Fatalf("create deal: %v", err)
	}

	s := NewProposalStore(db)
	older := &model.Proposal{DealID: deal.ID, Title: "v1", IssueDate: utc(2024, 5, 1, 0, 0)}
	newer := &model.Proposal{DealID: deal.ID, Title: "v2", IssueDate: utc(2024, 6, 1, 0, 0)}
	for _, p := range []*model.Proposal{older, newer} {
		if err := s.Create(ctx, p); err != nil {
			t.Fatalf("create proposal: %v", err)
		}
	}

	rows, err := s.ListByClient(ctx, cl.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 || rows[0].Title != "v2" || rows[0].DealTitle != "Annual plan" {
		t.Errorf("rows = %+v", rows)
	}
	if rows[1].Status != model.ProposalDraft {
		t.Errorf("status = %q, want DRAFT", rows[1].Status)
	}

	updated, err := s.UpdateStatus(ctx, older.ID, model.ProposalAccepted)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated == nil || updated.Status != model.ProposalAccepted {
		t.Errorf("updated = %+v, want ACCEPTED", updated)
	}

	missing, err := s.UpdateStatus(ctx, "missing", model.ProposalSent)
	if err != nil {
		t.Fatalf("update missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing proposal")
	}
}

func TestClientFileLifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	s := NewClientFileStore(db)
	cl := mustClient(t, db, "Acme")

	f := &model.ClientFile{
		ClientID:    cl.ID,
		StoredName:  "abc.pdf",
		DisplayName: "Contract",
		Ext:         "pdf",
		ContentType: "application/pdf",
		FileDate:    utc(2024, 6, 3, 0, 0),
		Bytes:       42,
		Checksum:    "deadbeef",
	}
	if err := s.Create(ctx, f); err != nil {
		t.Fatalf("create: %v", err)
	}

	files, err := s.ListByClient(ctx, cl.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 1 || files[0].StoredName != "abc.pdf" {
		t.Fatalf("files = %v", files)
	}

	name := "Signed contract"
	empty := ""
	updated, err := s.Update(ctx, f.ID, FileUpdate{DisplayName: &name, Description: &empty})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.DisplayName != name || updated.Description != nil {
		t.Errorf("updated = %+v", updated)
	}

	missing, err := s.Update(ctx, "missing", FileUpdate{DisplayName: &name})
	if err != nil || missing != nil {
		t.Errorf("update missing = %v, %v, want nil, nil", missing, err)
	}

	deleted, err := s.Delete(ctx, f.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted == nil || deleted.StoredName != "abc.pdf" {
		t.Errorf("deleted = %v", deleted)
	}
	again, err := s.Delete(ctx, f.ID)
	if err != nil || again != nil {
		t.Errorf("second delete = %v, %v, want nil, nil", again, err)
	}
}

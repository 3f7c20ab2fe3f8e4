package store

import (
	"context"
	"testing"
	"time"

	"github.com/dukerupert/officecrm/internal/schedule"
)

func TestConsultantListWithAppointments(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	s := NewConsultantStore(db)

	cl := mustClient(t, db, "Acme")
	zed := mustConsultant(t, db, "Zed")
	amy := mustConsultant(t, db, "Amy")
	mustConsultant(t, db, "Idle")

	mustAppointment(t, db, cl.ID, &zed.ID, utc(2024, 6, 3, 9, 0), 30)
	mustAppointment(t, db, cl.ID, &amy.ID, utc(2023, 1, 10, 9, 0), 30)

	got, err := s.ListWithAppointments(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "Amy" || got[1].Name != "Zed" {
		t.Errorf("order = %s,%s, want Amy,Zed", got[0].Name, got[1].Name)
	}

	inRange, err := s.ListWithAppointmentsIn(ctx, schedule.ResolveDay("2024-06-03", time.Now()))
	if err != nil {
		t.Fatalf("list in range: %v", err)
	}
	if len(inRange) != 1 || inRange[0].ID != zed.ID {
		t.Errorf("in range = %v, want [Zed]", inRange)
	}

	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("all = %d, want 3", len(all))
	}
}

func TestConsultantGetByID(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	s := NewConsultantStore(db)

	c, err := s.Create(ctx, "  Dr. A ", strPtr("a@example.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := s.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Dr. A" {
		t.Errorf("name = %q, want %q", got.Name, "Dr. A")
	}

	missing, err := s.GetByID(ctx, "nope")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing consultant")
	}
}

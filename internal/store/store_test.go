package store

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dukerupert/officecrm/internal/database"
	"github.com/dukerupert/officecrm/internal/model"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := database.OpenGorm(db, database.DriverSQLite, slog.Default())
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}
	return gdb
}

func mustClient(t *testing.T, db *gorm.DB, name string) *model.Client {
	t.Helper()
	c := &model.Client{Name: name, CompanyName: strPtr(name)}
	if err := NewClientStore(db).Create(context.Background(), c); err != nil {
		t.Fatalf("create client: %v", err)
	}
	return c
}

func mustConsultant(t *testing.T, db *gorm.DB, name string) *model.Consultant {
	t.Helper()
	c, err := NewConsultantStore(db).Create(context.Background(), name, nil)
	if err != nil {
		t.Fatalf("create consultant: %v", err)
	}
	return c
}

func mustAppointment(t *testing.T, db *gorm.DB, clientID string, consultantID *string, start time.Time, dur int) *model.Appointment {
	t.Helper()
	a := &model.Appointment{
		ClientID:     clientID,
		ConsultantID: consultantID,
		StartAt:      start,
		DurationMin:  dur,
	}
	if err := NewAppointmentStore(db).Create(context.Background(), a); err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	return a
}

func strPtr(s string) *string { return &s }

func utc(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

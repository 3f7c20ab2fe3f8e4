package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dukerupert/officecrm/internal/model"
	"github.com/dukerupert/officecrm/internal/schedule"
	"gorm.io/gorm"
)

// MissingClientName stands in for a client whose name cannot be resolved.
const MissingClientName = "—"

type AppointmentStore struct {
	db *gorm.DB
}

func NewAppointmentStore(db *gorm.DB) *AppointmentStore {
	return &AppointmentStore{db: db}
}

// apptRow is the joined projection read back for the schedule views.
type apptRow struct {
	ID             string
	ClientID       string
	ClientName     *string
	ConsultantID   *string
	ConsultantName *string
	StartAt        time.Time
	DurationMin    int
	Status         string
	TypeName       *string
}

func (r apptRow) toAppt() model.Appt {
	name := MissingClientName
	if r.ClientName != nil && *r.ClientName != "" {
		name = *r.ClientName
	}
	return model.Appt{
		ID:             r.ID,
		ClientID:       r.ClientID,
		ClientName:     name,
		ConsultantID:   r.ConsultantID,
		ConsultantName: r.ConsultantName,
		StartISO:       r.StartAt.UTC().Format(schedule.ISOLayout),
		DurationMin:    r.DurationMin,
		Status:         model.AppointmentStatus(r.Status),
		TypeName:       r.TypeName,
	}
}

func (s *AppointmentStore) projection(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("appointments AS a").
		Select(`a.id, a.client_id, cl.name AS client_name, a.consultant_id, co.name AS consultant_name,
			a.start_at, a.duration_min, a.status, t.name AS type_name`).
		Joins("LEFT JOIN clients cl ON cl.id = a.client_id").
		Joins("LEFT JOIN consultants co ON co.id = a.consultant_id").
		Joins("LEFT JOIN appointment_types t ON t.id = a.appointment_type_id")
}

func scanAppts(q *gorm.DB) ([]model.Appt, error) {
	var rows []apptRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.Appt, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toAppt())
	}
	return out, nil
}

// ListInRange returns appointments starting inside r, ascending by start. An empty
// consultantID matches every consultant, including unassigned appointments.
func (s *AppointmentStore) ListInRange(ctx context.Context, r schedule.Range, consultantID string) ([]model.Appt, error) {
	q := s.projection(ctx).Where("a.start_at >= ?", r.Start.UTC())
	if r.EndInclusive {
		q = q.Where("a.start_at <= ?", r.End.UTC())
	} else {
		q = q.Where("a.start_at < ?", r.End.UTC())
	}
	if consultantID != "" {
		q = q.Where("a.consultant_id = ?", consultantID)
	}

	appts, err := scanAppts(q.Order("a.start_at ASC"))
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	return appts, nil
}

// ListSignedIn returns today's appointments whose client is currently signed in.
func (s *AppointmentStore) ListSignedIn(ctx context.Context, now time.Time) ([]model.SignedInRow, error) {
	day := schedule.ResolveDay("", now)

	type row struct {
		ID             string
		ClientID       string
		CompanyName    *string
		ClientName     *string
		StartAt        time.Time
		ConsultantName *string
	}
	var rows []row
	err := s.db.WithContext(ctx).
		Table("appointments AS a").
		Select("a.id, a.client_id, cl.company_name, cl.name AS client_name, a.start_at, co.name AS consultant_name").
		Joins("LEFT JOIN clients cl ON cl.id = a.client_id").
		Joins("LEFT JOIN consultants co ON co.id = a.consultant_id").
		Where("a.status = ?", model.StatusSignedIn).
		Where("a.start_at >= ? AND a.start_at <= ?", day.Start, day.End).
		Order("a.start_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query signed in: %w", err)
	}

	out := make([]model.SignedInRow, 0, len(rows))
	for _, r := range rows {
		company := MissingClientName
		switch {
		case r.CompanyName != nil && *r.CompanyName != "":
			company = *r.CompanyName
		case r.ClientName != nil && *r.ClientName != "":
			company = *r.ClientName
		}
		out = append(out, model.SignedInRow{
			ApptID:      r.ID,
			ClientID:    r.ClientID,
			CompanyName: company,
			Time:        r.StartAt.UTC().Format("3:04 PM"),
			Consultant:  r.ConsultantName,
		})
	}
	return out, nil
}

// ListForClient returns a client's appointments split around now: upcoming ones
// ascending, previous ones most recent first. Each list is capped at limit.
func (s *AppointmentStore) ListForClient(ctx context.Context, clientID string, now time.Time, limit int) (upcoming, previous []model.Appt, err error) {
	upcoming, err = scanAppts(s.projection(ctx).
		Where("a.client_id = ? AND a.start_at >= ?", clientID, now.UTC()).
		Order("a.start_at ASC").
		Limit(limit))
	if err != nil {
		return nil, nil, fmt.Errorf("query upcoming appointments: %w", err)
	}
	previous, err = scanAppts(s.projection(ctx).
		Where("a.client_id = ? AND a.start_at < ?", clientID, now.UTC()).
		Order("a.start_at DESC").
		Limit(limit))
	if err != nil {
		return nil, nil, fmt.Errorf("query previous appointments: %w", err)
	}
	return upcoming, previous, nil
}

func (s *AppointmentStore) GetByID(ctx context.Context, id string) (*model.Appointment, error) {
	var a model.Appointment
	err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return &a, nil
}

// Create inserts an appointment. Overlapping appointments are allowed.
func (s *AppointmentStore) Create(ctx context.Context, a *model.Appointment) error {
	if a.ID == "" {
		a.ID = newID()
	}
	if a.Status == "" {
		a.Status = model.StatusUnconfirmed
	}
	a.StartAt = a.StartAt.UTC()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		return touchLastAppt(tx, a.ClientID)
	})
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

// Update rewrites the schedulable fields of an appointment and refreshes the
// last appointment date of both the previous and the current client.
func (s *AppointmentStore) Update(ctx context.Context, a *model.Appointment) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prev model.Appointment
		if err := tx.Select("id", "client_id").First(&prev, "id = ?", a.ID).Error; err != nil {
			if isNotFound(err) {
				return ErrNotFound
			}
			return err
		}

		err := tx.Model(&model.Appointment{}).
			Where("id = ?", a.ID).
			Updates(map[string]any{
				"client_id":           a.ClientID,
				"consultant_id":       a.ConsultantID,
				"appointment_type_id": a.AppointmentTypeID,
				"start_at":            a.StartAt.UTC(),
				"duration_min":        a.DurationMin,
				"status":              a.Status,
				"notes":               a.Notes,
			}).Error
		if err != nil {
			return err
		}

		if prev.ClientID != a.ClientID {
			if err := touchLastAppt(tx, prev.ClientID); err != nil {
				return err
			}
		}
		return touchLastAppt(tx, a.ClientID)
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	return nil
}

func (s *AppointmentStore) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error {
	res := s.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("update appointment status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an appointment. Deleting a missing appointment is a no-op.
func (s *AppointmentStore) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prev model.Appointment
		if err := tx.Select("id", "client_id").First(&prev, "id = ?", id).Error; err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		if err := tx.Delete(&model.Appointment{}, "id = ?", id).Error; err != nil {
			return err
		}
		return touchLastAppt(tx, prev.ClientID)
	})
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	return nil
}

// EnsureType returns the id of the appointment type with the given name,
// creating it when missing.
func (s *AppointmentStore) EnsureType(ctx context.Context, name string) (string, error) {
	t := model.AppointmentType{Name: name}
	err := s.db.WithContext(ctx).
		Where("name = ?", name).
		Attrs(model.AppointmentType{ID: newID()}).
		FirstOrCreate(&t).Error
	if err != nil {
		return "", fmt.Errorf("ensure appointment type: %w", err)
	}
	return t.ID, nil
}

func (s *AppointmentStore) ListTypes(ctx context.Context) ([]model.AppointmentType, error) {
	var out []model.AppointmentType
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list appointment types: %w", err)
	}
	return out, nil
}

// touchLastAppt keeps clients.last_appt_at at the latest appointment start.
func touchLastAppt(tx *gorm.DB, clientID string) error {
	return tx.Exec(`UPDATE clients SET last_appt_at = (
		SELECT MAX(start_at) FROM appointments WHERE client_id = ?
	) WHERE id = ?`, clientID, clientID).Error
}

package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/dukerupert/officecrm/internal/model"
)

// ConsultantScope controls which consultants are listed alongside a view.
type ConsultantScope string

const (
	// ScopeAny lists every consultant that has at least one appointment on record.
	ScopeAny ConsultantScope = "any"
	// ScopeRange lists consultants with an appointment inside the viewed window.
	ScopeRange ConsultantScope = "range"
)

// ParseConsultantScope returns ScopeAny for anything other than "range".
func ParseConsultantScope(s string) ConsultantScope {
	if ConsultantScope(s) == ScopeRange {
		return ScopeRange
	}
	return ScopeAny
}

type AppointmentSource interface {
	ListInRange(ctx context.Context, r Range, consultantID string) ([]model.Appt, error)
}

type ConsultantSource interface {
	ListWithAppointments(ctx context.Context) ([]model.Consultant, error)
	ListWithAppointmentsIn(ctx context.Context, r Range) ([]model.Consultant, error)
}

type Config struct {
	Scope ConsultantScope
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service assembles the day and week schedule payloads.
type Service struct {
	appts       AppointmentSource
	consultants ConsultantSource
	scope       ConsultantScope
	now         func() time.Time
}

func NewService(appts AppointmentSource, consultants ConsultantSource, cfg Config) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	scope := cfg.Scope
	if scope != ScopeRange {
		scope = ScopeAny
	}
	return &Service{appts: appts, consultants: consultants, scope: scope, now: now}
}

// Now is the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

// Day returns the appointments starting on the given date with the consultant list.
// An empty consultantID means all consultants.
func (s *Service) Day(ctx context.Context, dateInput, consultantID string) (*model.DayPayload, error) {
	r := ResolveDay(dateInput, s.now())

	appts, err := s.appts.ListInRange(ctx, r, consultantID)
	if err != nil {
		return nil, fmt.Errorf("day appointments: %w", err)
	}
	consultants, err := s.listConsultants(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("day consultants: %w", err)
	}

	return &model.DayPayload{
		DateISO:      r.Start.Format(DateLayout),
		Consultants:  consultants,
		Appointments: nonNil(appts),
	}, nil
}

// Week returns seven day buckets starting at the given date.
func (s *Service) Week(ctx context.Context, startInput, consultantID string) (*model.WeekPayload, error) {
	r := ResolveWeek(startInput, s.now())

	appts, err := s.appts.ListInRange(ctx, r, consultantID)
	if err != nil {
		return nil, fmt.Errorf("week appointments: %w", err)
	}
	consultants, err := s.listConsultants(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("week consultants: %w", err)
	}

	startISO := r.Start.Format(DateLayout)
	return &model.WeekPayload{
		StartISO:    startISO,
		Days:        BuildWeekGrid(appts, startISO),
		Consultants: consultants,
	}, nil
}

func (s *Service) listConsultants(ctx context.Context, r Range) ([]model.Consultant, error) {
	var (
		out []model.Consultant
		err error
	)
	if s.scope == ScopeRange {
		out, err = s.consultants.ListWithAppointmentsIn(ctx, r)
	} else {
		out, err = s.consultants.ListWithAppointments(ctx)
	}
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Consultant{}
	}
	return out, nil
}

func nonNil(appts []model.Appt) []model.Appt {
	if appts == nil {
		return []model.Appt{}
	}
	return appts
}

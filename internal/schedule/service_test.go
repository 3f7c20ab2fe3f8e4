package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dukerupert/officecrm/internal/model"
)

type fakeAppts struct {
	appts []model.Appt
	err   error

	gotRange      Range
	gotConsultant string
}

func (f *fakeAppts) ListInRange(_ context.Context, r Range, consultantID string) ([]model.Appt, error) {
	f.gotRange = r
	f.gotConsultant = consultantID
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Appt
	for _, a := range f.appts {
		t, _ := parseISO(a.StartISO)
		if !r.Contains(t) {
			continue
		}
		if consultantID != "" && (a.ConsultantID == nil || *a.ConsultantID != consultantID) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type fakeConsultants struct {
	all     []model.Consultant
	inRange []model.Consultant
	err     error

	anyCalls   int
	rangeCalls int
}

func (f *fakeConsultants) ListWithAppointments(context.Context) ([]model.Consultant, error) {
	f.anyCalls++
	return f.all, f.err
}

func (f *fakeConsultants) ListWithAppointmentsIn(context.Context, Range) ([]model.Consultant, error) {
	f.rangeCalls++
	return f.inRange, f.err
}

func newTestService(appts *fakeAppts, consultants *fakeConsultants, scope ConsultantScope) *Service {
	return NewService(appts, consultants, Config{
		Scope: scope,
		Now:   func() time.Time { return fixedNow },
	})
}

func TestServiceDay(t *testing.T) {
	appts := &fakeAppts{appts: []model.Appt{
		appt("a1", "c1", "2024-06-03T09:00:00.000Z", 30),
		appt("a2", "c1", "2024-06-04T09:00:00.000Z", 30),
	}}
	consultants := &fakeConsultants{all: []model.Consultant{{ID: "c1", Name: "Dr. A"}}}
	svc := newTestService(appts, consultants, ScopeAny)

	p, err := svc.Day(context.Background(), "2024-06-03", "")
	if err != nil {
		t.Fatalf("day: %v", err)
	}
	if p.DateISO != "2024-06-03" {
		t.Errorf("dateISO = %q, want %q", p.DateISO, "2024-06-03")
	}
	if len(p.Appointments) != 1 || p.Appointments[0].ID != "a1" {
		t.Errorf("appointments = %v, want [a1]", p.Appointments)
	}
	if len(p.Consultants) != 1 || p.Consultants[0].Name != "Dr. A" {
		t.Errorf("consultants = %v, want [Dr. A]", p.Consultants)
	}
	if !appts.gotRange.EndInclusive {
		t.Error("day query should use an inclusive end")
	}
	if consultants.anyCalls != 1 || consultants.rangeCalls != 0 {
		t.Errorf("consultant calls any=%d range=%d, want 1/0", consultants.anyCalls, consultants.rangeCalls)
	}
}

func TestServiceDayDefaultsAndEmpty(t *testing.T) {
	svc := newTestService(&fakeAppts{}, &fakeConsultants{}, ScopeAny)

	p, err := svc.Day(context.Background(), "garbage", "")
	if err != nil {
		t.Fatalf("day: %v", err)
	}
	if p.DateISO != "2024-06-05" {
		t.Errorf("dateISO = %q, want %q", p.DateISO, "2024-06-05")
	}
	if p.Appointments == nil || p.Consultants == nil {
		t.Error("empty lists should be non-nil so they encode as []")
	}
}

func TestServiceDayConsultantFilter(t *testing.T) {
	appts := &fakeAppts{}
	svc := newTestService(appts, &fakeConsultants{}, ScopeAny)

	if _, err := svc.Day(context.Background(), "2024-06-03", "c2"); err != nil {
		t.Fatalf("day: %v", err)
	}
	if appts.gotConsultant != "c2" {
		t.Errorf("consultant filter = %q, want %q", appts.gotConsultant, "c2")
	}
}

func TestServiceWeek(t *testing.T) {
	appts := &fakeAppts{appts: []model.Appt{
		appt("a1", "c1", "2024-06-03T09:00:00.000Z", 30),
		appt("a2", "", "2024-06-05T09:00:00.000Z", 30),
		appt("a3", "c1", "2024-06-10T00:00:00.000Z", 30),
	}}
	consultants := &fakeConsultants{
		all:     []model.Consultant{{ID: "c1", Name: "Dr. A"}, {ID: "c2", Name: "Dr. B"}},
		inRange: []model.Consultant{{ID: "c1", Name: "Dr. A"}},
	}
	svc := newTestService(appts, consultants, ScopeRange)

	p, err := svc.Week(context.Background(), "2024-06-03", "")
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	if p.StartISO != "2024-06-03" {
		t.Errorf("startISO = %q, want %q", p.StartISO, "2024-06-03")
	}
	if len(p.Days) != 7 {
		t.Fatalf("len(days) = %d, want 7", len(p.Days))
	}
	if len(p.Days[0].Appointments) != 1 || len(p.Days[2].Appointments) != 1 {
		t.Errorf("buckets = %d/%d, want 1/1", len(p.Days[0].Appointments), len(p.Days[2].Appointments))
	}
	for _, d := range p.Days {
		for _, a := range d.Appointments {
			if a.ID == "a3" {
				t.Error("appointment at start+7d should be excluded")
			}
		}
	}
	if len(p.Consultants) != 1 {
		t.Errorf("consultants = %v, want only in-range", p.Consultants)
	}
	if consultants.rangeCalls != 1 {
		t.Errorf("range calls = %d, want 1", consultants.rangeCalls)
	}
}

func TestServiceErrors(t *testing.T) {
	boom := errors.New("boom")

	svc := newTestService(&fakeAppts{err: boom}, &fakeConsultants{}, ScopeAny)
	if p, err := svc.Day(context.Background(), "2024-06-03", ""); !errors.Is(err, boom) || p != nil {
		t.Errorf("day = (%v, %v), want (nil, boom)", p, err)
	}
	if p, err := svc.Week(context.Background(), "2024-06-03", ""); !errors.Is(err, boom) || p != nil {
		t.Errorf("week = (%v, %v), want (nil, boom)", p, err)
	}

	svc = newTestService(&fakeAppts{}, &fakeConsultants{err: boom}, ScopeAny)
	if _, err := svc.Day(context.Background(), "2024-06-03", ""); !errors.Is(err, boom) {
		t.Errorf("day err = %v, want boom", err)
	}
}

func TestParseConsultantScope(t *testing.T) {
	if got := ParseConsultantScope("range"); got != ScopeRange {
		t.Errorf("range = %q", got)
	}
	if got := ParseConsultantScope("whatever"); got != ScopeAny {
		t.Errorf("whatever = %q, want any", got)
	}
}

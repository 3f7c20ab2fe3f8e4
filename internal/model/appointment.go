package model

import (
	"strings"
	"time"
)

type AppointmentStatus string

const (
	StatusUnconfirmed AppointmentStatus = "UNCONFIRMED"
	StatusConfirmed   AppointmentStatus = "CONFIRMED"
	StatusSignedIn    AppointmentStatus = "SIGNED_IN"
	StatusSignedOut   AppointmentStatus = "SIGNED_OUT"
	StatusCancelled   AppointmentStatus = "CANCELLED"
	StatusMissed      AppointmentStatus = "MISSED"
	StatusLeftMessage AppointmentStatus = "LEFT_MESSAGE"
	StatusYearOut     AppointmentStatus = "YEAR_OUT"
	StatusAvailable   AppointmentStatus = "AVAILABLE"
	StatusOffLunch    AppointmentStatus = "OFF_LUNCH"
)

// AppointmentStatuses lists every status in legend order.
var AppointmentStatuses = []AppointmentStatus{
	StatusAvailable,
	StatusOffLunch,
	StatusSignedIn,
	StatusSignedOut,
	StatusConfirmed,
	StatusUnconfirmed,
	StatusLeftMessage,
	StatusMissed,
	StatusCancelled,
	StatusYearOut,
}

var statusColors = map[AppointmentStatus]string{
	StatusAvailable:   "#e5e7eb",
	StatusOffLunch:    "#9ca3af",
	StatusSignedIn:    "#2563eb",
	StatusSignedOut:   "#4b5563",
	StatusConfirmed:   "#059669",
	StatusUnconfirmed: "#f59e0b",
	StatusLeftMessage: "#a855f7",
	StatusMissed:      "#ef4444",
	StatusCancelled:   "#6b7280",
	StatusYearOut:     "#f97316",
}

const defaultStatusColor = "#d1d5db"

// ParseAppointmentStatus accepts enum names and display labels
// ("Signed-In", "left message", "Off/Lunch").
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_", "/", "_").Replace(norm)
	st := AppointmentStatus(norm)
	return st, st.Valid()
}

func (s AppointmentStatus) Valid() bool {
	_, ok := statusColors[s]
	return ok
}

// Color is the legend colour for display. Unknown statuses get a neutral grey.
func (s AppointmentStatus) Color() string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return defaultStatusColor
}

// Label is the human form used in the legend, e.g. "Signed In".
func (s AppointmentStatus) Label() string {
	words := strings.Split(strings.ToLower(string(s)), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

type Appointment struct {
	ID                string            `json:"id" gorm:"primaryKey"`
	ClientID          string            `json:"clientId"`
	ConsultantID      *string           `json:"consultantId"`
	AppointmentTypeID *string           `json:"appointmentTypeId"`
	StartAt           time.Time         `json:"startAt"`
	DurationMin       int               `json:"durationMin"`
	Status            AppointmentStatus `json:"status"`
	Notes             *string           `json:"notes"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

func (Appointment) TableName() string { return "appointments" }

// EndAt is StartAt plus the duration.
func (a Appointment) EndAt() time.Time {
	return a.StartAt.Add(time.Duration(a.DurationMin) * time.Minute)
}

type AppointmentType struct {
	ID   string `json:"id" gorm:"primaryKey"`
	Name string `json:"name"`
}

func (AppointmentType) TableName() string { return "appointment_types" }

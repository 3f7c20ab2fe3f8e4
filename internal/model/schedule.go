package model

// Appt is the read projection of an appointment shared by the day and week views.
type Appt struct {
	ID             string            `json:"id"`
	ClientID       string            `json:"clientId"`
	ClientName     string            `json:"clientName"`
	ConsultantID   *string           `json:"consultantId"`
	ConsultantName *string           `json:"consultantName"`
	StartISO       string            `json:"startISO"`
	DurationMin    int               `json:"durationMin"`
	Status         AppointmentStatus `json:"status"`
	TypeName       *string           `json:"typeName"`
}

type DayPayload struct {
	DateISO      string       `json:"dateISO"`
	Consultants  []Consultant `json:"consultants"`
	Appointments []Appt       `json:"appointments"`
}

type WeekDay struct {
	DateISO      string `json:"dateISO"`
	Appointments []Appt `json:"appointments"`
}

type WeekPayload struct {
	StartISO    string       `json:"startISO"`
	Days        []WeekDay    `json:"days"`
	Consultants []Consultant `json:"consultants"`
}

// SignedInRow is one entry of the "currently signed in" panel.
type SignedInRow struct {
	ApptID      string  `json:"apptId"`
	ClientID    string  `json:"clientId"`
	CompanyName string  `json:"companyName"`
	Time        string  `json:"time"`
	Consultant  *string `json:"consultant"`
}

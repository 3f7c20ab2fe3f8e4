package model

import "time"

type LeadStatus string

const (
	LeadNew          LeadStatus = "NEW"
	LeadContacted    LeadStatus = "CONTACTED"
	LeadEngaged      LeadStatus = "ENGAGED"
	LeadWorking      LeadStatus = "WORKING"
	LeadNurture      LeadStatus = "NURTURE"
	LeadQualified    LeadStatus = "QUALIFIED"
	LeadDisqualified LeadStatus = "DISQUALIFIED"
)

var leadStatuses = map[LeadStatus]bool{
	LeadNew: true, LeadContacted: true, LeadEngaged: true, LeadWorking: true,
	LeadNurture: true, LeadQualified: true, LeadDisqualified: true,
}

// ParseLeadStatus normalises free text ("nurture", "Qualified") and falls back to NEW.
func ParseLeadStatus(s string) LeadStatus {
	st := LeadStatus(enumKey(s))
	if leadStatuses[st] {
		return st
	}
	return LeadNew
}

type Lead struct {
	ID              string     `json:"id" gorm:"primaryKey"`
	ClientID        string     `json:"clientId"`
	Name            string     `json:"name"`
	Company         *string    `json:"company"`
	Email           *string    `json:"email"`
	Phone           *string    `json:"phone"`
	Source          *string    `json:"source"`
	Status          LeadStatus `json:"status"`
	Score           *int       `json:"score"`
	Needs           *string    `json:"needs"`
	BudgetTimeframe *string    `json:"budgetTimeframe"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (Lead) TableName() string { return "leads" }

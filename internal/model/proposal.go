package model

import (
	"strings"
	"time"
)

type ProposalStatus string

const (
	ProposalDraft    ProposalStatus = "DRAFT"
	ProposalSent     ProposalStatus = "SENT"
	ProposalAccepted ProposalStatus = "ACCEPTED"
	ProposalRejected ProposalStatus = "REJECTED"
	ProposalExpired  ProposalStatus = "EXPIRED"
)

// ParseProposalTransition accepts only the statuses a proposal may be moved to
// after creation (case-insensitive). DRAFT is not a valid target.
func ParseProposalTransition(s string) (ProposalStatus, bool) {
	st := ProposalStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case ProposalSent, ProposalAccepted, ProposalRejected, ProposalExpired:
		return st, true
	}
	return "", false
}

type Proposal struct {
	ID          string         `json:"id" gorm:"primaryKey"`
	DealID      string         `json:"dealId"`
	Title       string         `json:"title"`
	Status      ProposalStatus `json:"status"`
	AmountCents int64          `json:"amountCents"`
	IssueDate   time.Time      `json:"issueDate"`
	ValidUntil  *time.Time     `json:"validUntil"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (Proposal) TableName() string { return "proposals" }

// ProposalRow is a proposal listed with the title of its deal.
type ProposalRow struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Status     ProposalStatus `json:"status"`
	IssueDate  time.Time      `json:"issueDate"`
	ValidUntil *time.Time     `json:"validUntil"`
	DealTitle  string         `json:"dealTitle"`
}

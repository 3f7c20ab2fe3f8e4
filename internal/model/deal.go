package model

import (
	"regexp"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type DealStage string

const (
	StageNew               DealStage = "NEW"
	StageAnalysisDiscovery DealStage = "ANALYSIS_DISCOVERY"
	StageProposalSent      DealStage = "PROPOSAL_SENT"
	StageQualified         DealStage = "QUALIFIED"
	StageReview            DealStage = "REVIEW"
	StageNegotiation       DealStage = "NEGOTIATION"
	StageClosedWon         DealStage = "CLOSED_WON"
	StageClosedLost        DealStage = "CLOSED_LOST"
)

var dealStages = map[DealStage]bool{
	StageNew: true, StageAnalysisDiscovery: true, StageProposalSent: true, StageQualified: true,
	StageReview: true, StageNegotiation: true, StageClosedWon: true, StageClosedLost: true,
}

// ParseDealStage normalises free text and falls back to NEW.
func ParseDealStage(s string) DealStage {
	st := DealStage(enumKey(s))
	if dealStages[st] {
		return st
	}
	return StageNew
}

type LossReason string

const (
	LossPricing          LossReason = "PRICING"
	LossCompetition      LossReason = "COMPETITION"
	LossBudget           LossReason = "BUDGET"
	LossNoDecisionTiming LossReason = "NO_DECISION_TIMING"
	LossPoorFit          LossReason = "POOR_FIT_MISSING_FEATURES"
	LossSalesProcess     LossReason = "SALES_PROCESS"
	LossRelationship     LossReason = "RELATIONSHIP"
)

var lossReasons = map[LossReason]bool{
	LossPricing: true, LossCompetition: true, LossBudget: true, LossNoDecisionTiming: true,
	LossPoorFit: true, LossSalesProcess: true, LossRelationship: true,
}

// ParseLossReason returns nil for blank or unknown reasons.
func ParseLossReason(s string) *LossReason {
	lr := LossReason(enumKey(s))
	if !lossReasons[lr] {
		return nil
	}
	return &lr
}

type Deal struct {
	ID             string                      `json:"id" gorm:"primaryKey"`
	ClientID       string                      `json:"clientId"`
	LeadID         *string                     `json:"leadId"`
	Title          string                      `json:"title"`
	ValueCents     int64                       `json:"value"`
	Stage          DealStage                   `json:"stage"`
	Probability    *int                        `json:"probability"`
	DecisionMakers datatypes.JSONSlice[string] `json:"decisionMakers"`
	LossReason     *LossReason                 `json:"lossReason"`
	LossNotes      *string                     `json:"lossNotes"`
	ClosedAt       *time.Time                  `json:"closedAt"`
	CreatedAt      time.Time                   `json:"createdAt"`
	UpdatedAt      time.Time                   `json:"updatedAt"`
}

func (Deal) TableName() string { return "deals" }

var listSplit = regexp.MustCompile(`[,\s;]+`)

// SplitList splits on commas, whitespace or semicolons, dropping blanks.
func SplitList(s string) []string {
	out := []string{}
	for _, part := range listSplit.Split(s, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func enumKey(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(strings.TrimSpace(s))), "_")
}

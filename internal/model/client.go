package model

import (
	"regexp"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type Client struct {
	ID                string                      `json:"id" gorm:"primaryKey"`
	AccountNumber     string                      `json:"accountNumber"`
	Name              string                      `json:"name"`
	CompanyName       *string                     `json:"companyName"`
	Address1          *string                     `json:"address1"`
	Address2          *string                     `json:"address2"`
	City              *string                     `json:"city"`
	State             *string                     `json:"state"`
	Zip               *string                     `json:"zip"`
	WorkPhone1        *string                     `json:"workPhone1"`
	WorkPhone2        *string                     `json:"workPhone2"`
	Cell              *string                     `json:"cell"`
	Fax               *string                     `json:"fax"`
	Emails            datatypes.JSONSlice[string] `json:"emails"`
	PreferredContact  *string                     `json:"preferredContact"`
	PrimaryConsultant *string                     `json:"primaryConsultant"`
	Alert             *string                     `json:"alert"`
	Notes             *string                     `json:"notes"`
	BillAddress1      *string                     `json:"bill_address1" gorm:"column:bill_address1"`
	BillAddress2      *string                     `json:"bill_address2" gorm:"column:bill_address2"`
	BillCity          *string                     `json:"bill_city"`
	BillState         *string                     `json:"bill_state"`
	BillZip           *string                     `json:"bill_zip"`
	BalanceCents      int64                       `json:"balanceCents"`
	LastApptAt        *time.Time                  `json:"lastApptAt"`
	CreatedAt         time.Time                   `json:"createdAt"`
	UpdatedAt         time.Time                   `json:"updatedAt"`
}

func (Client) TableName() string { return "clients" }

// PrimaryPhone returns the first non-empty phone in display order.
func (c Client) PrimaryPhone() string {
	for _, p := range []*string{c.WorkPhone1, c.WorkPhone2, c.Cell} {
		if p != nil && *p != "" {
			return *p
		}
	}
	return ""
}

// ClientSearchRow is one result of a client search.
type ClientSearchRow struct {
	ID       string  `json:"id"`
	Name     *string `json:"name"`
	Address1 string  `json:"address1"`
	City     string  `json:"city"`
	State    string  `json:"state"`
	Phone    string  `json:"phone"`
	LastAppt *string `json:"lastAppt"`
}

var emailSplit = regexp.MustCompile(`[,\s;]+`)

// ParseEmails splits a free-form list on commas, whitespace or semicolons,
// lowercasing and dropping blanks.
func ParseEmails(s string) []string {
	out := []string{}
	for _, e := range emailSplit.Split(s, -1) {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// NormalizeEmails lowercases and trims a list, dropping blanks.
func NormalizeEmails(in []string) []string {
	out := []string{}
	for _, e := range in {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			out = append(out, e)
		}
	}
	return out
}

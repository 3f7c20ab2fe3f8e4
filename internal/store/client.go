package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dukerupert/officecrm/internal/model"
	"github.com/dukerupert/officecrm/internal/schedule"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const searchLimit = 50

type ClientStore struct {
	db          *gorm.DB
	nextAccount func(tx *gorm.DB) (string, error)
}

func NewClientStore(db *gorm.DB) *ClientStore {
	return &ClientStore{db: db, nextAccount: nextAccountNumber}
}

// Create inserts a client, assigning the next account number when none is set.
// A generated number that loses a race to a concurrent insert is drawn again once.
func (s *ClientStore) Create(ctx context.Context, c *model.Client) error {
	if c.ID == "" {
		c.ID = newID()
	}
	c.Emails = model.NormalizeEmails(c.Emails)

	generated := c.AccountNumber == ""
	err := s.create(ctx, c)
	if generated && isAccountNumberConflict(err) {
		c.AccountNumber = ""
		err = s.create(ctx, c)
	}
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (s *ClientStore) create(ctx context.Context, c *model.Client) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if c.AccountNumber == "" {
			n, err := s.nextAccount(tx)
			if err != nil {
				return err
			}
			c.AccountNumber = n
		}
		return tx.Create(c).Error
	})
}

// nextAccountNumber continues the numeric account sequence starting at 10001.
func nextAccountNumber(tx *gorm.DB) (string, error) {
	var count int64
	if err := tx.Model(&model.Client{}).Count(&count).Error; err != nil {
		return "", err
	}
	for n := 10001 + count; ; n++ {
		candidate := fmt.Sprintf("%d", n)
		var exists int64
		if err := tx.Model(&model.Client{}).Where("account_number = ?", candidate).Count(&exists).Error; err != nil {
			return "", err
		}
		if exists == 0 {
			return candidate, nil
		}
	}
}

func (s *ClientStore) GetByID(ctx context.Context, id string) (*model.Client, error) {
	var c model.Client
	err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}

// Update writes the editable contact and billing fields.
func (s *ClientStore) Update(ctx context.Context, c *model.Client) error {
	res := s.db.WithContext(ctx).
		Model(&model.Client{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{
			"name":               c.Name,
			"company_name":       c.CompanyName,
			"address1":           c.Address1,
			"address2":           c.Address2,
			"city":               c.City,
			"state":              c.State,
			"zip":                c.Zip,
			"work_phone1":        c.WorkPhone1,
			"work_phone2":        c.WorkPhone2,
			"cell":               c.Cell,
			"fax":                c.Fax,
			"emails":             datatypes.JSONSlice[string](model.NormalizeEmails(c.Emails)),
			"preferred_contact":  c.PreferredContact,
			"primary_consultant": c.PrimaryConsultant,
			"alert":              c.Alert,
			"notes":              c.Notes,
			"bill_address1":      c.BillAddress1,
			"bill_address2":      c.BillAddress2,
			"bill_city":          c.BillCity,
			"bill_state":         c.BillState,
			"bill_zip":           c.BillZip,
		})
	if res.Error != nil {
		return fmt.Errorf("update client: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ClientStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&model.Client{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}

type SearchCriteria string

const (
	SearchPhone    SearchCriteria = "phone"
	SearchEmail    SearchCriteria = "email"
	SearchAddress  SearchCriteria = "address"
	SearchWildcard SearchCriteria = "wildcard"
)

// ParseSearchCriteria falls back to wildcard for unknown values.
func ParseSearchCriteria(s string) SearchCriteria {
	switch c := SearchCriteria(strings.ToLower(strings.TrimSpace(s))); c {
	case SearchPhone, SearchEmail, SearchAddress:
		return c
	}
	return SearchWildcard
}

var nonDigits = regexp.MustCompile(`\D+`)

// Search finds up to 50 clients ordered by company name. Text matches are
// case-insensitive substrings; phone matches compare the digits of the query;
// email matches require an exact address.
func (s *ClientStore) Search(ctx context.Context, criteria SearchCriteria, query string) ([]model.ClientSearchRow, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []model.ClientSearchRow{}, nil
	}
	digits := nonDigits.ReplaceAllString(q, "")
	like := "%" + escapeLike(q) + "%"

	var conds []string
	var args []any
	addLike := func(cols ...string) {
		for _, c := range cols {
			conds = append(conds, "LOWER("+c+") LIKE ? ESCAPE '\\'")
			args = append(args, like)
		}
	}
	addPhone := func() {
		if digits == "" {
			return
		}
		for _, c := range []string{"work_phone1", "work_phone2", "cell", "fax"} {
			conds = append(conds, c+" LIKE ? ESCAPE '\\'")
			args = append(args, "%"+digits+"%")
		}
	}
	addEmail := func() {
		conds = append(conds, s.emailContains())
		args = append(args, q)
	}

	switch criteria {
	case SearchPhone:
		addPhone()
	case SearchEmail:
		addEmail()
	case SearchAddress:
		addLike("address1", "address2", "city", "state", "zip")
	default:
		addLike("company_name", "name", "address1", "address2", "city", "state", "zip")
		addPhone()
		addEmail()
	}
	if len(conds) == 0 {
		return []model.ClientSearchRow{}, nil
	}

	var clients []model.Client
	err := s.db.WithContext(ctx).
		Where(strings.Join(conds, " OR "), args...).
		Order("company_name ASC").
		Limit(searchLimit).
		Find(&clients).Error
	if err != nil {
		return nil, fmt.Errorf("search clients: %w", err)
	}

	out := make([]model.ClientSearchRow, 0, len(clients))
	for _, c := range clients {
		row := model.ClientSearchRow{
			ID:       c.ID,
			Name:     c.CompanyName,
			Address1: deref(c.Address1),
			City:     deref(c.City),
			State:    deref(c.State),
			Phone:    c.PrimaryPhone(),
		}
		if c.LastApptAt != nil {
			last := c.LastApptAt.UTC().Format(schedule.DateLayout)
			row.LastAppt = &last
		}
		out = append(out, row)
	}
	return out, nil
}

// emailContains is an exact element match against the JSON emails column.
func (s *ClientStore) emailContains() string {
	if dialect(s.db) == "postgres" {
		return "emails @> jsonb_build_array(?::text)"
	}
	return "EXISTS (SELECT 1 FROM json_each(clients.emails) WHERE json_each.value = ?)"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern using ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

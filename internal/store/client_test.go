package store

import (
	"context"
	"errors"
	"testing"

	"github.com/dukerupert/officecrm/internal/model"
	"gorm.io/gorm"
)

func TestClientCreateAssignsAccountNumber(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	s := NewClientStore(db)

	a := &model.Client{Name: "Acme", Emails: []string{" Ops@Acme.com ", ""}}
	if err := s.Create(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}
	b := &model.Client{Name: "Beta"}
	if err := s.Create(ctx, b); err != nil {
		t.Fatalf("create: %v", err)
	}

	if a.AccountNumber != "10001" || b.AccountNumber != "10002" {
		t.Errorf("account numbers = %q,%q, want 10001,10002", a.AccountNumber, b.AccountNumber)
	}

	got, err := s.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Emails) != 1 || got.Emails[0] != "ops@acme.com" {
		t.Errorf("emails = %v, want [ops@acme.com]", got.Emails)
	}
}

func TestClientCreateRetriesAccountNumberConflict(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	s := NewClientStore(db)

	first := mustClient(t, db, "Acme")

	calls := 0
	s.nextAccount = func(tx *gorm.DB) (string, error) {
		calls++
		if calls == 1 {
			return first.AccountNumber, nil
		}
		return nextAccountNumber(tx)
	}

	c := &model.Client{Name: "Beta"}
	if err := s.Create(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if calls != 2 {
		t.Errorf("account number drawn %d times, want 2", calls)
	}
	if c.AccountNumber != "10002" {
		t.Errorf("account number = %q, want 10002", c.AccountNumber)
	}
}

func TestClientCreateExplicitAccountNumberConflict(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	s := NewClientStore(db)

	first := mustClient(t, db, "Acme")
	err := s.Create(ctx, &model.Client{Name: "Beta", AccountNumber: first.AccountNumber})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if !isAccountNumberConflict(err) {
		t.Errorf("err = %v, want account number conflict", err)
	}
}

func TestClientUpdate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	s := NewClientStore(db)

	c := mustClient(t, db, "Acme")
	c.City = strPtr("Springfield")
	c.BillZip = strPtr("12345")
	c.Emails = []string{"A@B.COM"}
	if err := s.Update(ctx, c); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := s.GetByID(ctx, c.ID)
	if got.City == nil || *got.City != "Springfield" {
		t.Errorf("city = %v, want Springfield", got.City)
	}
	if got.BillZip == nil || *got.BillZip != "12345" {
		t.Errorf("bill_zip = %v, want 12345", got.BillZip)
	}
	if len(got.Emails) != 1 || got.Emails[0] != "a@b.com" {
		t.Errorf("emails = %v", got.Emails)
	}

	if err := s.Update(ctx, &model.Client{ID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing = %v, want ErrNotFound", err)
	}
}

func TestClientSearch(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	s := NewClientStore(db)

	clients := []*model.Client{
		{Name: "Zulu", CompanyName: strPtr("Zulu Corp"), Address1: strPtr("1 Main St"), City: strPtr("Boston"), WorkPhone1: strPtr("6175550100"), Emails: []string{"zulu@example.com"}},
		{Name: "Alpha", CompanyName: strPtr("Alpha LLC"), Address1: strPtr("9 Elm Ave"), City: strPtr("Denver"), Cell: strPtr("3035550199"), Emails: []string{"info@alpha.io"}},
	}
	for _, c := range clients {
		if err := s.Create(ctx, c); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	tests := []struct {
		name     string
		criteria SearchCriteria
		query    string
		want     []string
	}{
		{"empty query", SearchWildcard, "  ", nil},
		{"wildcard company", SearchWildcard, "alpha", []string{"Alpha LLC"}},
		{"wildcard ordered", SearchWildcard, "a", []string{"Alpha LLC", "Zulu Corp"}},
		{"phone digits", SearchPhone, "(617) 555-0100", []string{"Zulu Corp"}},
		{"phone without digits", SearchPhone, "abc", nil},
		{"email exact", SearchEmail, "INFO@alpha.io", []string{"Alpha LLC"}},
		{"email partial does not match", SearchEmail, "alpha", nil},
		{"address city", SearchAddress, "BOSTON", []string{"Zulu Corp"}},
		{"wildcard email", SearchWildcard, "zulu@example.com", []string{"Zulu Corp"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := s.Search(ctx, tt.criteria, tt.query)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if rows == nil {
				t.Fatal("rows should be non-nil")
			}
			if len(rows) != len(tt.want) {
				t.Fatalf("len = %d, want %d (%v)", len(rows), len(tt.want), rows)
			}
			for i, w := range tt.want {
				if rows[i].Name == nil || *rows[i].Name != w {
					t.Errorf("rows[%d].name = %v, want %q", i, rows[i].Name, w)
				}
			}
		})
	}

	for _, q := range []string{"_", "%", `\`} {
		rows, err := s.Search(ctx, SearchWildcard, q)
		if err != nil {
			t.Fatalf("search %q: %v", q, err)
		}
		if len(rows) != 0 {
			t.Errorf("search %q matched %d clients, want 0", q, len(rows))
		}
	}

	rows, _ := s.Search(ctx, SearchPhone, "303")
	if len(rows) != 1 || rows[0].Phone != "3035550199" || rows[0].City != "Denver" {
		t.Errorf("row = %+v", rows)
	}
}

func TestParseSearchCriteria(t *testing.T) {
	if got := ParseSearchCriteria("PHONE"); got != SearchPhone {
		t.Errorf("PHONE = %q", got)
	}
	if got := ParseSearchCriteria("unknown"); got != SearchWildcard {
		t.Errorf("unknown = %q, want wildcard", got)
	}
}

func TestClientSearchLiteralWildcards(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	s := NewClientStore(db)

	mustClient(t, db, "100% Fitness")
	mustClient(t, db, "Snake_Case Ltd")
	mustClient(t, db, "Plain Co")

	tests := []struct {
		query string
		want  string
	}{
		{"0%", "100% Fitness"},
		{"e_c", "Snake_Case Ltd"},
	}
	for _, tt := range tests {
		rows, err := s.Search(ctx, SearchWildcard, tt.query)
		if err != nil {
			t.Fatalf("search %q: %v", tt.query, err)
		}
		if len(rows) != 1 || rows[0].Name == nil || *rows[0].Name != tt.want {
			t.Errorf("search %q = %+v, want [%s]", tt.query, rows, tt.want)
		}
	}
}

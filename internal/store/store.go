package store

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrNotFound is returned by mutations that target a row that does not exist.
var ErrNotFound = errors.New("not found")

func newID() string {
	return uuid.NewString()
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isAccountNumberConflict reports whether err is a unique violation on
// clients.account_number, for either driver.
func isAccountNumberConflict(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "account_number")
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed: clients.account_number")
}

// dialect reports the driver name gorm was opened with ("sqlite" or "postgres").
func dialect(db *gorm.DB) string {
	return db.Dialector.Name()
}

package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestSQLStateHelpers(t *testing.T) {
	fk := fmt.Errorf("insert topic: %w", &pgconn.PgError{Code: "23503"})
	uq := &pgconn.PgError{Code: "23505"}

	if !IsForeignKeyViolation(fk) {
		t.Error("IsForeignKeyViolation(wrapped 23503) = false")
	}
	if IsForeignKeyViolation(uq) {
		t.Error("IsForeignKeyViolation(23505) = true")
	}
	if !IsUniqueViolation(uq) {
		t.Error("IsUniqueViolation(23505) = false")
	}
	if IsUniqueViolation(errors.New("plain")) || IsUniqueViolation(nil) {
		t.Error("non-pg errors must not match")
	}
}

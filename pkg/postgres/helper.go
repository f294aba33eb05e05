package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

// IsForeignKeyViolation проверяет, является ли переданная ошибка нарушением внешнего ключа PostgreSQL (SQLSTATE 23503).
//
// Эта функция безопасно работает с обернутыми ошибками благодаря errors.As.
func IsForeignKeyViolation(err error) bool {
	return hasSQLState(err, foreignKeyViolation)
}

// IsUniqueViolation reports SQLSTATE 23505.
func IsUniqueViolation(err error) bool {
	return hasSQLState(err, uniqueViolation)
}

func hasSQLState(err error, code string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == code
	}

	return false
}

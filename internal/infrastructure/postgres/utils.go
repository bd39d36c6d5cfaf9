package postgres

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// isUniqueViolation verifica si un error es una violación de constraint único
// (23505 en PostgreSQL, "UNIQUE constraint failed" en SQLite).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "UNIQUE constraint failed")
}

// validID los IDs mal formados se tratan como inexistentes sin consultar la base.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// first ejecuta q.First y devuelve (nil, nil) si no hay fila.
func first[T any](q *gorm.DB) (*T, error) {
	var rec T
	err := q.First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

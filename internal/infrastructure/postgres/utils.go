package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/clientes-admin/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// transportErr marca como fallo de transporte un error de la base, con la operación como contexto.
func transportErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrTransport, err)
}

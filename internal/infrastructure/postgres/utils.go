package postgres

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE usados para mapear errores a errores de dominio.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNumericOutOfRange   = "22003"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// isForeignKeyViolation verifica si un error es una violación de clave foránea (23503).
func isForeignKeyViolation(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

// isInvalidValue reporta si la base rechazó un valor por un CHECK o por desbordar el tipo numérico.
func isInvalidValue(err error) bool {
	return hasCode(err, codeCheckViolation) || hasCode(err, codeNumericOutOfRange)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}

// validID evita enviar a PostgreSQL ids que la columna UUID rechazaría con error de sintaxis.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// likePattern arma un patrón de subcadena para ILIKE escapando los comodines del término.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

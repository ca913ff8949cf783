package entity

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Roles válidos para User.
const (
	RoleSeller = "seller"
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// User representa una cuenta del marketplace. El rol no cambia después del registro.
type User struct {
	ID           string
	Email        string // siempre normalizado (minúsculas, sin espacios)
	PasswordHash string // bcrypt hash, nunca se expone
	Name         string
	Role         string // seller, admin, client
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsSeller indica si el usuario puede publicar productos.
func (u *User) IsSeller() bool { return u != nil && u.Role == RoleSeller }

// IsAdmin indica si el usuario tiene alcance de búsqueda ampliado.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// ValidRole reporta si role pertenece al conjunto cerrado de roles.
func ValidRole(role string) bool {
	switch role {
	case RoleSeller, RoleAdmin, RoleClient:
		return true
	}
	return false
}

// NormalizeEmail recorta y pasa a minúsculas; la unicidad del email es case-insensitive.
func NormalizeEmail(email string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(email))
}

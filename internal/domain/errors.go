package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Los genéricos definen la categoría; los específicos la envuelven para que
// errors.Is(err, ErrForbidden) funcione sin perder el mensaje concreto.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

var (
	ErrUserNotFound       = fmt.Errorf("%w: usuario no encontrado", ErrNotFound)
	ErrProductNotFound    = fmt.Errorf("%w: producto no encontrado", ErrNotFound)
	ErrSellerNotFound     = fmt.Errorf("%w: vendedor no encontrado", ErrNotFound)
	ErrEmailAlreadyExists = fmt.Errorf("%w: el email ya está registrado", ErrConflict)
	ErrSKUAlreadyExists   = fmt.Errorf("%w: el SKU ya existe", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: credenciales inválidas", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: token inválido o expirado", ErrUnauthorized)
	ErrSellerRoleRequired = fmt.Errorf("%w: solo los vendedores pueden gestionar productos", ErrForbidden)
	ErrNotProductOwner    = fmt.Errorf("%w: solo puedes modificar tus propios productos", ErrForbidden)
	ErrAuthRequired       = fmt.Errorf("%w: se requiere un usuario autenticado", ErrForbidden)
)

// Kind devuelve la categoría estable de un error de dominio ("" si no es de dominio).
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrInvalidInput):
		return "VALIDATION"
	default:
		return ""
	}
}

// Package policy decide qué puede hacer un actor sobre los productos del catálogo.
// Es una función pura: no consulta almacenamiento ni guarda estado.
package policy

import (
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

// Operation operación solicitada sobre productos.
type Operation int

const (
	Create Operation = iota + 1
	Read
	ReadMany
	Update
	Delete
)

func (o Operation) String() string {
	switch o {
	case Create:
		return "create"
	case Read:
		return "read"
	case ReadMany:
		return "read_many"
	case Update:
		return "update"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// Scope alcance implícito que el motor impone a un listado.
type Scope struct {
	// SellerID restringe el listado a los productos de ese vendedor.
	SellerID string
	// SellerSearch amplía la búsqueda al nombre y email del vendedor (admin).
	SellerSearch bool
}

// Authorize aplica la tabla de decisión. actor y resource pueden ser nil.
// Para Update/Delete la existencia se evalúa antes que el rol y la propiedad,
// así quien sondea un id inexistente recibe NotFound y no Forbidden.
func Authorize(actor *entity.User, op Operation, resource *entity.Product) (Scope, error) {
	switch op {
	case Create:
		if actor == nil {
			return Scope{}, domain.ErrAuthRequired
		}
		if !actor.IsSeller() {
			return Scope{}, domain.ErrSellerRoleRequired
		}
		return Scope{}, nil

	case Read:
		return Scope{}, nil

	case ReadMany:
		switch {
		case actor.IsSeller():
			return Scope{SellerID: actor.ID}, nil
		case actor.IsAdmin():
			return Scope{SellerSearch: true}, nil
		default:
			return Scope{}, nil
		}

	case Update, Delete:
		if resource == nil {
			return Scope{}, domain.ErrProductNotFound
		}
		if actor == nil {
			return Scope{}, domain.ErrAuthRequired
		}
		if !actor.IsSeller() {
			return Scope{}, domain.ErrSellerRoleRequired
		}
		if !resource.OwnedBy(actor) {
			return Scope{}, domain.ErrNotProductOwner
		}
		return Scope{}, nil
	}
	return Scope{}, domain.ErrForbidden
}

// Clauses traduce el alcance y el término de búsqueda a cláusulas conjuntivas.
// La búsqueda del admin es una sola disyunción (producto o vendedor) unida por AND al resto.
func (s Scope) Clauses(search string) []repository.Clause {
	var out []repository.Clause
	if search != "" {
		if s.SellerSearch {
			out = append(out, repository.SellerSearchClause(search))
		} else {
			out = append(out, repository.SearchClause(search))
		}
	}
	if s.SellerID != "" {
		out = append(out, repository.SellerClause(s.SellerID))
	}
	return out
}

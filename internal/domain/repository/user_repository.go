package repository

import (
	"context"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// La unicidad del email la garantiza el almacenamiento: Create/Update devuelven domain.ErrEmailAlreadyExists.
// Los Get devuelven (nil, nil) cuando no hay registro.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}

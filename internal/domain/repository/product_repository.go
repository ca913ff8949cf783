package repository

import (
	"context"

	"github.com/jhoicas/marketplace-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// La unicidad del SKU la garantiza el almacenamiento: Create/Update devuelven domain.ErrSKUAlreadyExists.
// GetByID y GetBySKU devuelven (nil, nil) cuando no hay registro y cargan Seller.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// Find aplica las cláusulas, ordena y pagina; total es el conteo previo a la paginación.
	Find(ctx context.Context, q ProductQuery) (items []*entity.Product, total int, err error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
}

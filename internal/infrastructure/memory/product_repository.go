package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

// ProductRepository implementación en memoria de repository.ProductRepository.
type ProductRepository struct {
	s *Store
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

// Create inserta el producto. El vendedor debe existir (equivalente a la FK).
func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[p.SellerID]; !ok {
		return domain.ErrSellerNotFound
	}
	sku := entity.NormalizeSKU(p.SKU)
	if _, taken := r.s.skuIndex[sku]; taken {
		return domain.ErrSKUAlreadyExists
	}
	if _, taken := r.s.products[p.ID]; taken {
		return domain.ErrConflict
	}
	stored := *p
	stored.SKU = sku
	stored.Seller = nil
	r.s.products[p.ID] = stored
	r.s.skuIndex[sku] = p.ID
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return r.s.withSeller(p), nil
}

// GetBySKU busca por SKU sin distinguir mayúsculas.
func (r *ProductRepository) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.skuIndex[entity.NormalizeSKU(sku)]
	if !ok {
		return nil, nil
	}
	return r.s.withSeller(r.s.products[id]), nil
}

// Find filtra, ordena y pagina igual que la consulta SQL.
func (r *ProductRepository) Find(_ context.Context, q repository.ProductQuery) ([]*entity.Product, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		full := r.s.withSeller(p)
		if matchesAll(full, q.Clauses) {
			matched = append(matched, full)
		}
	}
	slices.SortStableFunc(matched, comparator(q.SortBy, q.Order))

	total := len(matched)
	start := min(max(q.Offset, 0), total)
	end := total
	if q.Limit > 0 {
		end = min(start+q.Limit, total)
	}
	return matched[start:end], total, nil
}

// Update persiste nombre, SKU, precio y cantidad. El vendedor no se reasigna.
func (r *ProductRepository) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	newSKU := entity.NormalizeSKU(p.SKU)
	if newSKU != current.SKU {
		if _, taken := r.s.skuIndex[newSKU]; taken {
			return domain.ErrSKUAlreadyExists
		}
		delete(r.s.skuIndex, current.SKU)
		r.s.skuIndex[newSKU] = p.ID
	}
	current.Name = p.Name
	current.SKU = newSKU
	current.Price = p.Price
	current.Quantity = p.Quantity
	current.UpdatedAt = p.UpdatedAt
	r.s.products[p.ID] = current
	return nil
}

// Delete elimina el producto; ErrProductNotFound si no existe.
func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	delete(r.s.products, id)
	delete(r.s.skuIndex, p.SKU)
	return nil
}

func matchesAll(p *entity.Product, clauses []repository.Clause) bool {
	for _, c := range clauses {
		if !matches(p, c) {
			return false
		}
	}
	return true
}

func matches(p *entity.Product, c repository.Clause) bool {
	switch c.Kind {
	case repository.ClauseSearch:
		return containsFold(p.Name, c.Text) || containsFold(p.SKU, c.Text)
	case repository.ClauseSearchWithSeller:
		if containsFold(p.Name, c.Text) || containsFold(p.SKU, c.Text) {
			return true
		}
		return p.Seller != nil && (containsFold(p.Seller.Name, c.Text) || containsFold(p.Seller.Email, c.Text))
	case repository.ClauseMinPrice:
		return p.Price.GreaterThanOrEqual(c.Amount)
	case repository.ClauseMaxPrice:
		return p.Price.LessThanOrEqual(c.Amount)
	case repository.ClauseSeller:
		return p.SellerID == c.SellerID
	}
	return false
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// comparator ordena por el campo pedido y desempata por id para que la paginación sea estable.
func comparator(field repository.SortField, order repository.SortOrder) func(a, b *entity.Product) int {
	return func(a, b *entity.Product) int {
		var c int
		switch field {
		case repository.SortByName:
			c = cmp.Compare(a.Name, b.Name)
		case repository.SortByPrice:
			c = a.Price.Cmp(b.Price)
		case repository.SortByQuantity:
			c = cmp.Compare(a.Quantity, b.Quantity)
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if order == repository.OrderDesc {
			c = -c
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		return c
	}
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// El vendedor se carga siempre junto al producto (sin password_hash).
const productSelect = `
		SELECT p.id, p.name, p.sku, p.price, p.quantity, p.seller_id, p.created_at, p.updated_at,
		       u.id, u.email, u.name, u.role, u.created_at, u.updated_at
		FROM products p
		JOIN users u ON u.id = p.seller_id`

var errProductOutOfRange = fmt.Errorf("%w: precio, SKU o cantidad fuera del rango permitido", domain.ErrInvalidInput)

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, sku, price, quantity, seller_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, entity.NormalizeSKU(product.SKU), product.Price, product.Quantity,
		product.SellerID, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrSKUAlreadyExists
		case isForeignKeyViolation(err):
			return domain.ErrSellerNotFound
		case isInvalidValue(err):
			return errProductOutOfRange
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.scanOne(ctx, productSelect+` WHERE p.id = $1`, id)
}

// GetBySKU obtiene un producto por SKU sin distinguir mayúsculas.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.scanOne(ctx, productSelect+` WHERE upper(p.sku) = $1`, entity.NormalizeSKU(sku))
}

// Find cuenta y pagina los productos que cumplen todas las cláusulas.
func (r *ProductRepo) Find(ctx context.Context, q repository.ProductQuery) ([]*entity.Product, int, error) {
	where, args := buildWhere(q.Clauses)

	var total int
	countQuery := `SELECT COUNT(*) FROM products p JOIN users u ON u.id = p.seller_id ` + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	if total == 0 {
		return []*entity.Product{}, 0, nil
	}

	page, pageArgs := buildPage(q.Limit, q.Offset, args)
	query := productSelect + " " + where + " " + buildOrderBy(q.SortBy, q.Order) + page
	rows, err := r.q.Query(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Product, 0, q.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return list, total, nil
}

// Update persiste nombre, SKU, precio y cantidad. seller_id no se reasigna.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, sku = $3, price = $4, quantity = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Name, entity.NormalizeSKU(product.SKU), product.Price, product.Quantity, product.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrSKUAlreadyExists
		case isInvalidValue(err):
			return errProductOutOfRange
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Delete elimina el producto.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrProductNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepo) scanOne(ctx context.Context, query string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var s entity.User
	err := row.Scan(
		&p.ID, &p.Name, &p.SKU, &p.Price, &p.Quantity, &p.SellerID, &p.CreatedAt, &p.UpdatedAt,
		&s.ID, &s.Email, &s.Name, &s.Role, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Seller = &s
	return &p, nil
}

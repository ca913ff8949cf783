package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/policy"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
	"github.com/jhoicas/marketplace-api/pkg/logger"
)

// Valores por defecto y límites del listado.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ProductUseCase casos de uso del catálogo. Toda decisión de acceso pasa por policy.Authorize.
type ProductUseCase struct {
	products repository.ProductRepository
	users    repository.UserRepository
	log      *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(products repository.ProductRepository, users repository.UserRepository, log *logger.Logger) *ProductUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{products: products, users: users, log: log.Named("products")}
}

// Create publica un producto del actor. El vendedor nunca viene del cliente.
func (uc *ProductUseCase) Create(ctx context.Context, actor *entity.User, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if _, err := policy.Authorize(actor, policy.Create, nil); err != nil {
		uc.deny(actor, policy.Create, "", err)
		return nil, err
	}
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	sku, err := normalizeSKU(in.SKU)
	if err != nil {
		return nil, err
	}
	price, err := normalizePrice(in.Price)
	if err != nil {
		return nil, err
	}
	if !entity.ValidQuantity(in.Quantity) {
		return nil, errInvalidQuantity
	}

	existing, err := uc.products.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrSKUAlreadyExists
	}

	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		Name:      name,
		SKU:       sku,
		Price:     price,
		Quantity:  in.Quantity,
		SellerID:  actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.products.Create(ctx, product); err != nil {
		return nil, err
	}
	product.Seller = actor
	uc.log.Info().Str("product_id", product.ID).Str("sku", sku).Str("seller_id", actor.ID).Msg("producto creado")
	return toProductResponse(product), nil
}

// List lista el catálogo con el alcance que la política impone al actor (puede ser nil).
func (uc *ProductUseCase) List(ctx context.Context, actor *entity.User, in dto.ListProductsQuery) (*dto.ProductListResponse, error) {
	scope, err := policy.Authorize(actor, policy.ReadMany, nil)
	if err != nil {
		return nil, err
	}
	return uc.find(ctx, scope, in)
}

// ListBySeller lista el catálogo público de un vendedor. ErrSellerNotFound si no existe o no es vendedor.
func (uc *ProductUseCase) ListBySeller(ctx context.Context, sellerID string, in dto.ListProductsQuery) (*dto.ProductListResponse, error) {
	seller, err := uc.users.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if !seller.IsSeller() {
		return nil, domain.ErrSellerNotFound
	}
	return uc.find(ctx, policy.Scope{SellerID: seller.ID}, in)
}

func (uc *ProductUseCase) find(ctx context.Context, scope policy.Scope, in dto.ListProductsQuery) (*dto.ProductListResponse, error) {
	q, page, limit, err := BuildProductQuery(scope, in)
	if err != nil {
		return nil, err
	}
	items, total, err := uc.products.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(items))
	for _, p := range items {
		data = append(data, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Data: data,
		Meta: dto.PageMeta{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: (total + limit - 1) / limit,
		},
	}, nil
}

// GetByID obtiene un producto por ID; cualquiera puede consultarlo.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return toProductResponse(product), nil
}

// Update aplica una actualización parcial: existencia, luego política, luego merge.
func (uc *ProductUseCase) Update(ctx context.Context, actor *entity.User, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := policy.Authorize(actor, policy.Update, product); err != nil {
		uc.deny(actor, policy.Update, id, err)
		return nil, err
	}

	if in.Name != nil {
		name, err := normalizeName(*in.Name)
		if err != nil {
			return nil, err
		}
		product.Name = name
	}
	if in.SKU != nil {
		sku, err := normalizeSKU(*in.SKU)
		if err != nil {
			return nil, err
		}
		if sku != product.SKU {
			existing, err := uc.products.GetBySKU(ctx, sku)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != product.ID {
				return nil, domain.ErrSKUAlreadyExists
			}
		}
		product.SKU = sku
	}
	if in.Price != nil {
		price, err := normalizePrice(*in.Price)
		if err != nil {
			return nil, err
		}
		product.Price = price
	}
	if in.Quantity != nil {
		if !entity.ValidQuantity(*in.Quantity) {
			return nil, errInvalidQuantity
		}
		product.Quantity = *in.Quantity
	}
	product.UpdatedAt = time.Now()
	if err := uc.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina el producto si el actor es su vendedor.
func (uc *ProductUseCase) Delete(ctx context.Context, actor *entity.User, id string) error {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := policy.Authorize(actor, policy.Delete, product); err != nil {
		uc.deny(actor, policy.Delete, id, err)
		return err
	}
	if err := uc.products.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("product_id", id).Str("seller_id", actor.ID).Msg("producto eliminado")
	return nil
}

func (uc *ProductUseCase) deny(actor *entity.User, op policy.Operation, productID string, err error) {
	ev := uc.log.Debug().Str("op", op.String()).Str("reason", err.Error())
	if actor != nil {
		ev = ev.Str("user_id", actor.ID)
	}
	if productID != "" {
		ev = ev.Str("product_id", productID)
	}
	ev.Msg("operación denegada")
}

// BuildProductQuery aplica valores por defecto y límites a los parámetros y compone las cláusulas
// con el alcance de la política. Devuelve también la página y el límite efectivos.
func BuildProductQuery(scope policy.Scope, in dto.ListProductsQuery) (repository.ProductQuery, int, int, error) {
	page := in.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := in.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	sortBy, err := parseSortField(in.SortBy)
	if err != nil {
		return repository.ProductQuery{}, 0, 0, err
	}
	order, err := parseSortOrder(in.Order)
	if err != nil {
		return repository.ProductQuery{}, 0, 0, err
	}

	q := repository.ProductQuery{
		Clauses: scope.Clauses(strings.TrimSpace(in.Search)),
		SortBy:  sortBy,
		Order:   order,
		Offset:  pageOffset(page, limit),
		Limit:   limit,
	}
	if in.MinPrice != nil {
		lo, err := priceBound("minPrice", *in.MinPrice)
		if err != nil {
			return repository.ProductQuery{}, 0, 0, err
		}
		q = q.With(repository.MinPriceClause(lo))
	}
	if in.MaxPrice != nil {
		hi, err := priceBound("maxPrice", *in.MaxPrice)
		if err != nil {
			return repository.ProductQuery{}, 0, 0, err
		}
		q = q.With(repository.MaxPriceClause(hi))
	}
	return q, page, limit, nil
}

// pageOffset calcula (page-1)*limit. Si no cabe en int devuelve math.MaxInt,
// que deja la página vacía sin perder el total.
func pageOffset(page, limit int) int {
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// priceBound convierte un límite de precio del query string. NaN e infinitos no son precios.
func priceBound(name string, v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: %s debe ser un número positivo", domain.ErrInvalidInput, name)
	}
	return decimal.NewFromFloat(v), nil
}

func parseSortField(s string) (repository.SortField, error) {
	switch s {
	case "", "createdAt":
		return repository.SortByCreatedAt, nil
	case "name":
		return repository.SortByName, nil
	case "price":
		return repository.SortByPrice, nil
	case "stock", "quantity":
		return repository.SortByQuantity, nil
	}
	return "", fmt.Errorf("%w: sortBy %q no soportado", domain.ErrInvalidInput, s)
}

func parseSortOrder(s string) (repository.SortOrder, error) {
	switch strings.ToUpper(s) {
	case "", "DESC":
		return repository.OrderDesc, nil
	case "ASC":
		return repository.OrderAsc, nil
	}
	return "", fmt.Errorf("%w: order %q no soportado", domain.ErrInvalidInput, s)
}

var errInvalidQuantity = fmt.Errorf("%w: la cantidad debe estar entre 0 y %d", domain.ErrInvalidInput, entity.MaxQuantity)

func normalizePrice(price decimal.Decimal) (decimal.Decimal, error) {
	if !price.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: el precio debe ser positivo", domain.ErrInvalidInput)
	}
	if !entity.ValidPrice(price) {
		return decimal.Decimal{}, fmt.Errorf("%w: el precio admite como máximo %d decimales y no puede superar %s",
			domain.ErrInvalidInput, entity.PriceScale, entity.MaxPrice)
	}
	return price, nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	return name, nil
}

func normalizeSKU(sku string) (string, error) {
	sku = entity.NormalizeSKU(sku)
	if !entity.ValidSKU(sku) {
		return "", fmt.Errorf("%w: SKU inválido %q", domain.ErrInvalidInput, sku)
	}
	return sku, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	out := &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		Price:     p.Price,
		Quantity:  p.Quantity,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Seller != nil {
		out.Seller = &dto.SellerResponse{ID: p.Seller.ID, Name: p.Seller.Name, Email: p.Seller.Email}
	}
	return out
}

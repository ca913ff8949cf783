package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El vendedor es siempre el usuario autenticado.
type CreateProductRequest struct {
	Name     string          `json:"name" validate:"required,min=2,max=255"`
	SKU      string          `json:"sku" validate:"required,min=3,max=100,sku"`
	Price    decimal.Decimal `json:"price" validate:"required,gt=0"`
	Quantity int             `json:"quantity" validate:"min=0"`
}

// UpdateProductRequest actualización parcial: los campos nil no cambian.
type UpdateProductRequest struct {
	Name     *string          `json:"name" validate:"omitempty,min=2,max=255"`
	SKU      *string          `json:"sku" validate:"omitempty,min=3,max=100,sku"`
	Price    *decimal.Decimal `json:"price" validate:"omitempty,gt=0"`
	Quantity *int             `json:"quantity" validate:"omitempty,min=0"`
}

// ListProductsQuery parámetros de listado. Los ceros se sustituyen por los valores por defecto.
type ListProductsQuery struct {
	Page     int      `query:"page" validate:"omitempty,min=1"`
	Limit    int      `query:"limit" validate:"omitempty,min=1,max=100"`
	Search   string   `query:"search" validate:"omitempty,max=255"`
	MinPrice *float64 `query:"minPrice" validate:"omitempty,gt=0"`
	MaxPrice *float64 `query:"maxPrice" validate:"omitempty,gt=0"`
	SortBy   string   `query:"sortBy" validate:"omitempty,oneof=name price stock quantity createdAt"`
	Order    string   `query:"order" validate:"omitempty,oneof=ASC DESC"`
	// IsActive se acepta por compatibilidad; los productos no tienen estado activo.
	IsActive *bool `query:"isActive"`
}

// SellerResponse datos públicos del vendedor de un producto.
type SellerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Seller    *SellerResponse `json:"seller,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ProductListResponse página de productos con metadatos.
type ProductListResponse struct {
	Data []ProductResponse `json:"data"`
	Meta PageMeta          `json:"meta"`
}

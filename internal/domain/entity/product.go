package entity

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	SKUMinLength = 3
	SKUMaxLength = 100
)

// Límites de las columnas price NUMERIC(10,2) y quantity INTEGER.
const (
	PriceScale  = 2
	MaxQuantity = math.MaxInt32
)

var (
	skuPattern = regexp.MustCompile(`^[A-Z0-9_-]+$`)
	// MaxPrice mayor precio representable con 8 enteros y 2 decimales.
	MaxPrice = decimal.New(9999999999, -PriceScale)
)

// Product representa un producto publicado por un vendedor.
// SellerID se fija al crear y no se reasigna; Seller trae los datos públicos del dueño cuando el repo los carga.
type Product struct {
	ID        string
	Name      string
	SKU       string          // único globalmente, en mayúsculas
	Price     decimal.Decimal // precio de venta, siempre > 0
	Quantity  int             // unidades disponibles, >= 0
	SellerID  string
	Seller    *User
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy indica si el producto pertenece al usuario.
func (p *Product) OwnedBy(u *User) bool {
	return p != nil && u != nil && p.SellerID == u.ID
}

// NormalizeSKU recorta y pasa a mayúsculas. Es idempotente.
func NormalizeSKU(sku string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(sku))
}

// ValidSKU valida un SKU ya normalizado: [A-Z0-9-_], entre 3 y 100 caracteres.
func ValidSKU(sku string) bool {
	if len(sku) < SKUMinLength || len(sku) > SKUMaxLength {
		return false
	}
	return skuPattern.MatchString(sku)
}

// ValidPrice exige precio positivo, como mucho 2 decimales y no mayor que MaxPrice.
func ValidPrice(price decimal.Decimal) bool {
	return price.IsPositive() &&
		price.Equal(price.Truncate(PriceScale)) &&
		price.LessThanOrEqual(MaxPrice)
}

// ValidQuantity exige cantidad no negativa y representable en la columna.
func ValidQuantity(q int) bool {
	return q >= 0 && q <= MaxQuantity
}

package repository

import "github.com/shopspring/decimal"

// ClauseKind identifica el predicado de una cláusula de filtrado.
type ClauseKind int

const (
	// ClauseSearch: nombre o SKU contienen Text (sin distinguir mayúsculas).
	ClauseSearch ClauseKind = iota + 1
	// ClauseSearchWithSeller: como ClauseSearch, más nombre o email del vendedor.
	ClauseSearchWithSeller
	// ClauseMinPrice: price >= Amount.
	ClauseMinPrice
	// ClauseMaxPrice: price <= Amount.
	ClauseMaxPrice
	// ClauseSeller: seller_id = SellerID.
	ClauseSeller
)

// Clause es un predicado conjuntivo. Solo se usa el campo que corresponde a Kind.
type Clause struct {
	Kind     ClauseKind
	Text     string
	Amount   decimal.Decimal
	SellerID string
}

func SearchClause(term string) Clause { return Clause{Kind: ClauseSearch, Text: term} }

func SellerSearchClause(term string) Clause {
	return Clause{Kind: ClauseSearchWithSeller, Text: term}
}

func MinPriceClause(min decimal.Decimal) Clause { return Clause{Kind: ClauseMinPrice, Amount: min} }

func MaxPriceClause(max decimal.Decimal) Clause { return Clause{Kind: ClauseMaxPrice, Amount: max} }

func SellerClause(sellerID string) Clause { return Clause{Kind: ClauseSeller, SellerID: sellerID} }

// SortField columnas ordenables del catálogo.
type SortField string

const (
	SortByName      SortField = "name"
	SortByPrice     SortField = "price"
	SortByQuantity  SortField = "quantity"
	SortByCreatedAt SortField = "createdAt"
)

// SortOrder dirección del orden.
type SortOrder string

const (
	OrderAsc  SortOrder = "ASC"
	OrderDesc SortOrder = "DESC"
)

// ProductQuery consulta de catálogo: conjunción de Clauses, orden y ventana de paginación.
type ProductQuery struct {
	Clauses []Clause
	SortBy  SortField
	Order   SortOrder
	Offset  int
	Limit   int
}

// With devuelve una copia de la consulta con la cláusula añadida.
func (q ProductQuery) With(c Clause) ProductQuery {
	clauses := make([]Clause, 0, len(q.Clauses)+1)
	clauses = append(clauses, q.Clauses...)
	q.Clauses = append(clauses, c)
	return q
}

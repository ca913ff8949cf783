package postgres

import (
	"fmt"
	"strings"

	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

// Columnas ordenables; el campo de orden nunca se interpola desde la entrada.
var sortColumns = map[repository.SortField]string{
	repository.SortByName:      "p.name",
	repository.SortByPrice:     "p.price",
	repository.SortByQuantity:  "p.quantity",
	repository.SortByCreatedAt: "p.created_at",
}

// whereBuilder acumula predicados y argumentos posicionales ($1, $2, ...).
type whereBuilder struct {
	parts []string
	args  []any
}

func (b *whereBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *whereBuilder) add(c repository.Clause) {
	switch c.Kind {
	case repository.ClauseSearch:
		ph := b.arg(likePattern(c.Text))
		b.parts = append(b.parts, fmt.Sprintf("(p.name ILIKE %[1]s OR p.sku ILIKE %[1]s)", ph))
	case repository.ClauseSearchWithSeller:
		ph := b.arg(likePattern(c.Text))
		b.parts = append(b.parts, fmt.Sprintf(
			"(p.name ILIKE %[1]s OR p.sku ILIKE %[1]s OR u.name ILIKE %[1]s OR u.email ILIKE %[1]s)", ph))
	case repository.ClauseMinPrice:
		b.parts = append(b.parts, "p.price >= "+b.arg(c.Amount))
	case repository.ClauseMaxPrice:
		b.parts = append(b.parts, "p.price <= "+b.arg(c.Amount))
	case repository.ClauseSeller:
		b.parts = append(b.parts, "p.seller_id = "+b.arg(c.SellerID))
	}
}

// buildWhere traduce las cláusulas a una conjunción SQL. Sin cláusulas devuelve "".
func buildWhere(clauses []repository.Clause) (string, []any) {
	b := &whereBuilder{}
	for _, c := range clauses {
		b.add(c)
	}
	if len(b.parts) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(b.parts, " AND "), b.args
}

// buildOrderBy desempata por id para que las páginas sean estables.
func buildOrderBy(field repository.SortField, order repository.SortOrder) string {
	col, ok := sortColumns[field]
	if !ok {
		col = sortColumns[repository.SortByCreatedAt]
	}
	dir := "DESC"
	if order == repository.OrderAsc {
		dir = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s, p.id ASC", col, dir)
}

// buildPage agrega LIMIT/OFFSET como argumentos posicionales a continuación de args.
func buildPage(limit, offset int, args []any) (string, []any) {
	var sb strings.Builder
	if limit > 0 {
		args = append(args, limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}
	return sb.String(), args
}

package usecase_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/application/usecase"
	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/policy"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
	"github.com/jhoicas/marketplace-api/internal/infrastructure/memory"
	"github.com/jhoicas/marketplace-api/pkg/logger"
)

type fixture struct {
	store  *memory.Store
	uc     *usecase.ProductUseCase
	seller *entity.User
	other  *entity.User
	admin  *entity.User
	client *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		store:  store,
		uc:     usecase.NewProductUseCase(store.Products(), store.Users(), logger.Nop()),
		seller: &entity.User{ID: "seller-a", Email: "a@shop.com", Name: "Seller A", Role: entity.RoleSeller},
		other:  &entity.User{ID: "seller-b", Email: "b@shop.com", Name: "Seller B", Role: entity.RoleSeller},
		admin:  &entity.User{ID: "admin", Email: "root@shop.com", Name: "Root", Role: entity.RoleAdmin},
		client: &entity.User{ID: "client", Email: "c@mail.com", Name: "Cliente", Role: entity.RoleClient},
	}
	for _, u := range []*entity.User{f.seller, f.other, f.admin, f.client} {
		require.NoError(t, store.Users().Create(context.Background(), u))
	}
	return f
}

func (f *fixture) create(t *testing.T, actor *entity.User, sku, name, price string, qty int) *dto.ProductResponse {
	t.Helper()
	out, err := f.uc.Create(context.Background(), actor, dto.CreateProductRequest{
		Name: name, SKU: sku, Price: decimal.RequireFromString(price), Quantity: qty,
	})
	require.NoError(t, err)
	return out
}

func countProducts(t *testing.T, s *memory.Store) int {
	t.Helper()
	_, total, err := s.Products().Find(context.Background(), repository.ProductQuery{})
	require.NoError(t, err)
	return total
}

func TestCreate_NormalizaSKUYAsignaVendedor(t *testing.T) {
	f := newFixture(t)
	out := f.create(t, f.seller, " abc-123 ", "  Lamp ", "19.99", 0)

	assert.Equal(t, "ABC-123", out.SKU)
	assert.Equal(t, "Lamp", out.Name)
	require.NotNil(t, out.Seller)
	assert.Equal(t, f.seller.ID, out.Seller.ID)

	got, err := f.uc.GetByID(context.Background(), out.ID)
	require.NoError(t, err)
	assert.Equal(t, "ABC-123", got.SKU)
	assert.True(t, decimal.RequireFromString("19.99").Equal(got.Price))
}

func TestCreate_SoloVendedores(t *testing.T) {
	f := newFixture(t)
	in := dto.CreateProductRequest{Name: "Lamp", SKU: "LAMP-1", Price: decimal.NewFromInt(5)}

	for _, actor := range []*entity.User{nil, f.client, f.admin} {
		_, err := f.uc.Create(context.Background(), actor, in)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	}
	assert.Equal(t, 0, countProducts(t, f.store), "no se persiste nada")
}

func TestCreate_SKUDuplicadoSinDistinguirMayusculas(t *testing.T) {
	f := newFixture(t)
	f.create(t, f.seller, "ABC-123", "Lamp", "10", 1)

	_, err := f.uc.Create(context.Background(), f.other, dto.CreateProductRequest{
		Name: "Other", SKU: "abc-123", Price: decimal.NewFromInt(3),
	})
	assert.ErrorIs(t, err, domain.ErrSKUAlreadyExists)
	assert.Equal(t, 1, countProducts(t, f.store))
}

func TestCreate_EntradaInvalida(t *testing.T) {
	f := newFixture(t)
	cases := []dto.CreateProductRequest{
		{Name: "Lamp", SKU: "AB", Price: decimal.NewFromInt(1)},
		{Name: "Lamp", SKU: "AB C", Price: decimal.NewFromInt(1)},
		{Name: "Lamp", SKU: "ABC", Price: decimal.Zero},
		{Name: "Lamp", SKU: "ABC", Price: decimal.NewFromInt(1), Quantity: -1},
		{Name: "   ", SKU: "ABC", Price: decimal.NewFromInt(1)},
	}
	for i, in := range cases {
		_, err := f.uc.Create(context.Background(), f.seller, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "caso %d", i)
	}
}

func TestGetByID_NoExiste(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestList_Paginacion(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 23; i++ {
		f.create(t, f.seller, fmt.Sprintf("SKU-%02d", i), fmt.Sprintf("Item %02d", i), "10", i)
	}

	out, err := f.uc.List(context.Background(), nil, dto.ListProductsQuery{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, out.Data, 3)
	assert.Equal(t, dto.PageMeta{Total: 23, Page: 3, Limit: 10, TotalPages: 3}, out.Meta)

	def, err := f.uc.List(context.Background(), nil, dto.ListProductsQuery{})
	require.NoError(t, err)
	assert.Len(t, def.Data, 10)
	assert.Equal(t, 1, def.Meta.Page)
	assert.Equal(t, 10, def.Meta.Limit)
}

func TestList_RangoDePrecio(t *testing.T) {
	f := newFixture(t)
	prices := []string{"5", "9.99", "10", "15.50", "20", "20.01", "100"}
	for i, p := range prices {
		f.create(t, f.seller, fmt.Sprintf("P-%d", i), "Item", p, 1)
	}
	lo, hi := 10.0, 20.0
	out, err := f.uc.List(context.Background(), nil, dto.ListProductsQuery{MinPrice: &lo, MaxPrice: &hi, Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Meta.Total)
	for _, p := range out.Data {
		assert.True(t, p.Price.GreaterThanOrEqual(decimal.NewFromInt(10)), p.Price.String())
		assert.True(t, p.Price.LessThanOrEqual(decimal.NewFromInt(20)), p.Price.String())
	}
}

func TestList_AlcancePorRol(t *testing.T) {
	f := newFixture(t)
	f.create(t, f.seller, "A-LAMP", "Lamp", "10", 1)
	f.create(t, f.seller, "A-DESK", "Desk", "50", 1)
	f.create(t, f.other, "B-LAMP", "Lamp", "12", 1)
	ctx := context.Background()

	own, err := f.uc.List(ctx, f.seller, dto.ListProductsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, own.Meta.Total, "el vendedor solo ve lo suyo")

	anon, err := f.uc.List(ctx, nil, dto.ListProductsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, anon.Meta.Total)

	cli, err := f.uc.List(ctx, f.client, dto.ListProductsQuery{Search: "lamp"})
	require.NoError(t, err)
	assert.Equal(t, 2, cli.Meta.Total)

	bySellerName, err := f.uc.List(ctx, f.client, dto.ListProductsQuery{Search: "Seller B"})
	require.NoError(t, err)
	assert.Equal(t, 0, bySellerName.Meta.Total, "solo el admin busca por vendedor")

	adm, err := f.uc.List(ctx, f.admin, dto.ListProductsQuery{Search: "b@shop"})
	require.NoError(t, err)
	assert.Equal(t, 1, adm.Meta.Total)

	admPrice, err := f.uc.List(ctx, f.admin, dto.ListProductsQuery{Search: "seller a", MaxPrice: ptr(20.0)})
	require.NoError(t, err)
	assert.Equal(t, 1, admPrice.Meta.Total, "la búsqueda del admin se combina con AND")
}

func TestList_OrdenYAliasStock(t *testing.T) {
	f := newFixture(t)
	f.create(t, f.seller, "Q-3", "Charlie", "30", 3)
	f.create(t, f.seller, "Q-1", "Alpha", "10", 1)
	f.create(t, f.seller, "Q-2", "Bravo", "20", 2)
	ctx := context.Background()

	out, err := f.uc.List(ctx, nil, dto.ListProductsQuery{SortBy: "stock", Order: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Q-1", "Q-2", "Q-3"}, skus(out))

	out, err = f.uc.List(ctx, nil, dto.ListProductsQuery{SortBy: "name", Order: "DESC"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Q-3", "Q-2", "Q-1"}, skus(out))

	_, err = f.uc.List(ctx, nil, dto.ListProductsQuery{SortBy: "password"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListBySeller(t *testing.T) {
	f := newFixture(t)
	f.create(t, f.seller, "A-1", "Lamp", "10", 1)
	f.create(t, f.other, "B-1", "Lamp", "10", 1)
	ctx := context.Background()

	out, err := f.uc.ListBySeller(ctx, f.other.ID, dto.ListProductsQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"B-1"}, skus(out))

	_, err = f.uc.ListBySeller(ctx, "ghost", dto.ListProductsQuery{})
	assert.ErrorIs(t, err, domain.ErrSellerNotFound)
	_, err = f.uc.ListBySeller(ctx, f.client.ID, dto.ListProductsQuery{})
	assert.ErrorIs(t, err, domain.ErrSellerNotFound)
}

func TestUpdate_PropietarioYMerge(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, f.seller, "A-1", "Lamp", "10", 1)
	ctx := context.Background()

	_, err := f.uc.Update(ctx, f.other, p.ID, dto.UpdateProductRequest{Quantity: ptr(99)})
	assert.ErrorIs(t, err, domain.ErrNotProductOwner)
	unchanged, err := f.uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, unchanged.Quantity)

	out, err := f.uc.Update(ctx, f.seller, p.ID, dto.UpdateProductRequest{Quantity: ptr(5)})
	require.NoError(t, err)
	assert.Equal(t, 5, out.Quantity)
	assert.Equal(t, "Lamp", out.Name, "los campos omitidos no cambian")
	assert.Equal(t, "A-1", out.SKU)
	assert.True(t, decimal.NewFromInt(10).Equal(out.Price))
}

func TestUpdate_PrecioSoloPorElDueno(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, f.seller, "A-1", "Lamp", "10", 1)
	ctx := context.Background()

	_, err := f.uc.Update(ctx, f.other, p.ID, dto.UpdateProductRequest{Price: ptr(decimal.NewFromInt(5))})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := f.uc.Update(ctx, f.seller, p.ID, dto.UpdateProductRequest{Price: ptr(decimal.NewFromInt(5))})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5).Equal(out.Price), "precio devuelto: %s", out.Price)
	stored, err := f.uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5).Equal(stored.Price))
}

func TestUpdate_PrecioInvalido(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, f.seller, "A-1", "Lamp", "10", 1)
	ctx := context.Background()

	for _, price := range []string{"0", "-3", "1.005", "100000000"} {
		_, err := f.uc.Update(ctx, f.seller, p.ID, dto.UpdateProductRequest{Price: ptr(decimal.RequireFromString(price))})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, price)
	}
	_, err := f.uc.Update(ctx, f.seller, p.ID, dto.UpdateProductRequest{Quantity: ptr(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	stored, err := f.uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(stored.Price), "el producto no cambia")
}

func TestCreate_PrecioFueraDeNumeric(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, price := range []string{"0.001", "1.005", "1e9"} {
		_, err := f.uc.Create(ctx, f.seller, dto.CreateProductRequest{
			Name: "Lamp", SKU: "P-1", Price: decimal.RequireFromString(price),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, price)
	}
	assert.Zero(t, countProducts(t, f.store))

	out := f.create(t, f.seller, "P-2", "Lamp", "99999999.99", 0)
	assert.Equal(t, "99999999.99", out.Price.String())
}

func TestList_PaginaFueraDeRango(t *testing.T) {
	f := newFixture(t)
	f.create(t, f.seller, "A-1", "Lamp", "10", 1)
	f.create(t, f.seller, "A-2", "Desk", "20", 1)

	out, err := f.uc.List(context.Background(), nil, dto.ListProductsQuery{Page: 1<<62 + 1, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, out.Data)
	assert.Equal(t, dto.PageMeta{Total: 2, Page: 1<<62 + 1, Limit: 2, TotalPages: 1}, out.Meta)
}

func TestUpdate_ExistenciaAntesQuePropiedad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Update(ctx, f.other, "nope", dto.UpdateProductRequest{})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	_, err = f.uc.Update(ctx, nil, "nope", dto.UpdateProductRequest{})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestUpdate_SKU(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, f.seller, "A-1", "Lamp", "10", 1)
	f.create(t, f.seller, "A-2", "Desk", "10", 1)
	ctx := context.Background()

	_, err := f.uc.Update(ctx, f.seller, a.ID, dto.UpdateProductRequest{SKU: ptr("a-2")})
	assert.ErrorIs(t, err, domain.ErrSKUAlreadyExists)

	same, err := f.uc.Update(ctx, f.seller, a.ID, dto.UpdateProductRequest{SKU: ptr("a-1")})
	require.NoError(t, err)
	assert.Equal(t, "A-1", same.SKU)

	out, err := f.uc.Update(ctx, f.seller, a.ID, dto.UpdateProductRequest{SKU: ptr("new_sku")})
	require.NoError(t, err)
	assert.Equal(t, "NEW_SKU", out.SKU)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, f.seller, "A-1", "Lamp", "10", 1)
	ctx := context.Background()

	assert.ErrorIs(t, f.uc.Delete(ctx, f.client, p.ID), domain.ErrSellerRoleRequired)
	assert.ErrorIs(t, f.uc.Delete(ctx, f.other, p.ID), domain.ErrNotProductOwner)
	assert.ErrorIs(t, f.uc.Delete(ctx, nil, p.ID), domain.ErrForbidden)
	require.NoError(t, f.uc.Delete(ctx, f.seller, p.ID))

	_, err := f.uc.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.ErrorIs(t, f.uc.Delete(ctx, f.seller, p.ID), domain.ErrProductNotFound)
}

func TestBuildProductQuery(t *testing.T) {
	q, page, limit, err := usecase.BuildProductQuery(policy.Scope{SellerID: "s1"}, dto.ListProductsQuery{
		Page: 2, Limit: 500, Search: "  lamp ", MinPrice: ptr(1.5),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page)
	assert.Equal(t, usecase.MaxLimit, limit)
	assert.Equal(t, 100, q.Offset)
	assert.Equal(t, repository.SortByCreatedAt, q.SortBy)
	assert.Equal(t, repository.OrderDesc, q.Order)
	require.Len(t, q.Clauses, 3)
	assert.Equal(t, repository.SearchClause("lamp"), q.Clauses[0])
	assert.Equal(t, repository.SellerClause("s1"), q.Clauses[1])
	assert.Equal(t, repository.ClauseMinPrice, q.Clauses[2].Kind)
	assert.True(t, decimal.RequireFromString("1.5").Equal(q.Clauses[2].Amount))

	_, _, _, err = usecase.BuildProductQuery(policy.Scope{}, dto.ListProductsQuery{MaxPrice: ptr(-1.0)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, _, _, err = usecase.BuildProductQuery(policy.Scope{}, dto.ListProductsQuery{Order: "sideways"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	for _, bad := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		assert.NotPanics(t, func() {
			_, _, _, err = usecase.BuildProductQuery(policy.Scope{}, dto.ListProductsQuery{MaxPrice: ptr(bad)})
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, _, _, err = usecase.BuildProductQuery(policy.Scope{}, dto.ListProductsQuery{MinPrice: ptr(bad)})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}

	q, _, _, err = usecase.BuildProductQuery(policy.Scope{}, dto.ListProductsQuery{Page: math.MaxInt, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, q.Offset, "el offset no desborda")
}

func skus(out *dto.ProductListResponse) []string {
	res := make([]string, 0, len(out.Data))
	for _, p := range out.Data {
		res = append(res, p.SKU)
	}
	return res
}

func ptr[T any](v T) *T { return &v }

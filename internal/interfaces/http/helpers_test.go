package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/marketplace-api/internal/application/auth"
	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/application/usecase"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/marketplace-api/internal/interfaces/http"
	"github.com/jhoicas/marketplace-api/pkg/hasher"
	"github.com/jhoicas/marketplace-api/pkg/jwt"
	"github.com/jhoicas/marketplace-api/pkg/logger"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "marketplace-test"
	testExpMin    = 60
)

// testEnv API completa sobre el almacenamiento en memoria.
type testEnv struct {
	app    *fiber.App
	store  *memory.Store
	authUC *auth.AuthUseCase
	tokens *jwt.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	tokens := jwt.NewManager(testJWTSecret, testIssuer, testExpMin)
	log := logger.Nop()
	authUC := auth.NewAuthUseCase(store.Users(), hasher.NewBcrypt(bcrypt.MinCost), tokens, log)

	app := apphttp.NewApp("marketplace-test", log)
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    authUC,
		ProductUC: usecase.NewProductUseCase(store.Products(), store.Users(), log),
		UserUC:    usecase.NewUserUseCase(store.Users()),
		AppName:   "marketplace-test",
	})
	return &testEnv{app: app, store: store, authUC: authUC, tokens: tokens}
}

// register crea un usuario vía API y devuelve el header Authorization listo para usar.
func (e *testEnv) register(t *testing.T, email, role string) (string, dto.UserResponse) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: email, Password: "secret123", Name: "Usuario " + role, Role: role,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var out dto.RegisterResponse
	decode(t, resp, &out)
	return "Bearer " + out.AccessToken, out.User
}

// adminToken crea un admin directamente en el almacenamiento (no hay registro de admins).
func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	admin := &entity.User{ID: "admin-1", Email: "root@shop.com", Name: "Root", Role: entity.RoleAdmin}
	require.NoError(t, e.store.Users().Create(context.Background(), admin))
	tok, err := e.tokens.Issue(jwt.Identity{UserID: admin.ID, Email: admin.Email, Name: admin.Name})
	require.NoError(t, err)
	return "Bearer " + tok
}

func (e *testEnv) do(t *testing.T, method, path, authHeader string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var e dto.ErrorResponse
	decode(t, resp, &e)
	return e.Code
}

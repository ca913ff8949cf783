// seed crea la cuenta de administrador inicial (los admins no pueden registrarse por la API)
// y, opcionalmente, un vendedor con productos de demostración.
//
// Uso: go run ./cmd/seed [-demo]
// Requiere SEED_ADMIN_EMAIL y SEED_ADMIN_PASSWORD. Es idempotente: si el email ya existe con el mismo rol no hace nada;
// si existe con otro rol falla en lugar de aceptarlo en silencio.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
	"github.com/jhoicas/marketplace-api/internal/infrastructure/postgres"
	"github.com/jhoicas/marketplace-api/pkg/config"
	"github.com/jhoicas/marketplace-api/pkg/hasher"
	"github.com/jhoicas/marketplace-api/pkg/logger"
)

type demoProduct struct {
	sku, name, price string
	quantity         int
}

var demoCatalog = []demoProduct{
	{"DEMO-LAMP-01", "Lámpara de escritorio", "39.90", 12},
	{"DEMO-CHAIR-01", "Silla ergonómica", "249.00", 4},
	{"DEMO-BOOK-01", "Cuaderno A5", "4.50", 150},
}

func main() {
	demo := flag.Bool("demo", false, "crear además un vendedor demo con productos")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	if cfg.Seed.AdminEmail == "" || cfg.Seed.AdminPassword == "" {
		log.Fatal().Msg("SEED_ADMIN_EMAIL y SEED_ADMIN_PASSWORD son requeridos")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := postgres.RunMigrations(cfg.DB.ConnectionString(), log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	h := hasher.NewBcrypt(cfg.Auth.BcryptCost)
	err = postgres.NewTxRunner(pool).Run(ctx, func(users repository.UserRepository, products repository.ProductRepository) error {
		if _, err := ensureUser(ctx, users, h, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, cfg.Seed.AdminName, entity.RoleAdmin); err != nil {
			return err
		}
		if !*demo {
			return nil
		}
		seller, err := ensureUser(ctx, users, h, "demo.seller@example.com", cfg.Seed.AdminPassword, "Vendedor Demo", entity.RoleSeller)
		if err != nil {
			return err
		}
		return seedCatalog(ctx, products, seller)
	})
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().Str("admin", entity.NormalizeEmail(cfg.Seed.AdminEmail)).Bool("demo", *demo).Msg("seed completado")
}

// ensureUser devuelve el usuario existente o lo crea con el rol indicado.
// Un usuario existente con otro rol es un error: el seed no promueve ni degrada cuentas.
func ensureUser(ctx context.Context, users repository.UserRepository, h *hasher.Bcrypt, email, password, name, role string) (*entity.User, error) {
	email = entity.NormalizeEmail(email)
	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Role != role {
			return nil, fmt.Errorf("el usuario %s ya existe con rol %q, se esperaba %q", email, existing.Role, role)
		}
		return existing, nil
	}
	hash, err := h.Hash(password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	u := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("crear %s: %w", role, err)
	}
	return u, nil
}

func seedCatalog(ctx context.Context, products repository.ProductRepository, seller *entity.User) error {
	now := time.Now()
	for _, d := range demoCatalog {
		p := &entity.Product{
			ID:        uuid.New().String(),
			Name:      d.name,
			SKU:       d.sku,
			Price:     decimal.RequireFromString(d.price),
			Quantity:  d.quantity,
			SellerID:  seller.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := products.Create(ctx, p); err != nil && !errors.Is(err, domain.ErrSKUAlreadyExists) {
			return fmt.Errorf("crear producto %s: %w", d.sku, err)
		}
	}
	return nil
}

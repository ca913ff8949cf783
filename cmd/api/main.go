package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	"github.com/jhoicas/marketplace-api/internal/application/auth"
	"github.com/jhoicas/marketplace-api/internal/application/usecase"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
	"github.com/jhoicas/marketplace-api/internal/infrastructure/memory"
	"github.com/jhoicas/marketplace-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/marketplace-api/internal/interfaces/http"
	"github.com/jhoicas/marketplace-api/pkg/config"
	"github.com/jhoicas/marketplace-api/pkg/hasher"
	"github.com/jhoicas/marketplace-api/pkg/jwt"
	"github.com/jhoicas/marketplace-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	var (
		userRepo    repository.UserRepository
		productRepo repository.ProductRepository
		health      httpRouter.HealthChecker
	)
	switch cfg.App.Storage {
	case config.StorageMemory:
		store := memory.NewStore()
		userRepo, productRepo = store.Users(), store.Products()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		if cfg.DB.AutoMigrate {
			if err := postgres.RunMigrations(cfg.DB.ConnectionString(), log); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		userRepo = postgres.NewUserRepository(pool)
		productRepo = postgres.NewProductRepository(pool)
		health = pool
	}

	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	passwords := hasher.NewBcrypt(cfg.Auth.BcryptCost)
	log.Info().Int("bcrypt_cost", passwords.Cost()).Int("jwt_exp_min", cfg.JWT.Expiration).Msg("credenciales configuradas")
	authUC := auth.NewAuthUseCase(userRepo, passwords, tokens, log)
	productUC := usecase.NewProductUseCase(productRepo, userRepo, log)
	userUC := usecase.NewUserUseCase(userRepo)

	app := httpRouter.NewApp(cfg.App.Name, log)

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.Swagger.FilePath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Swagger.FilePath,
			Path:     "docs",
			Title:    "Marketplace API",
		}))
	} else {
		log.Warn().Str("file", cfg.Swagger.FilePath).Msg("documento OpenAPI no encontrado, /docs deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		ProductUC: productUC,
		UserUC:    userUC,
		Health:    health,
		AppName:   cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

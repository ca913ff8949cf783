package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/marketplace-api/internal/application/auth"
	"github.com/jhoicas/marketplace-api/internal/application/usecase"
	"github.com/jhoicas/marketplace-api/pkg/logger"
)

// HealthChecker verifica el almacenamiento (lo implementa *pgxpool.Pool).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	ProductUC *usecase.ProductUseCase
	UserUC    *usecase.UserUseCase
	Health    HealthChecker // nil con almacenamiento en memoria
	AppName   string
}

// NewApp crea la aplicación Fiber con el manejador de errores y los middlewares comunes.
func NewApp(appName string, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ErrorHandler: ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New())
	if log != nil {
		app.Use(RequestLogger(log.Named("http")))
	}
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	v := NewValidator()

	app.Get("/health", healthHandler(deps.Health, deps.AppName))

	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.AuthUC)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, v)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Perfil (protegido)
	users := api.Group("/users", requireAuth)
	userHandler := NewUserHandler(deps.UserUC, v)
	users.Get("/me", userHandler.Me)
	users.Patch("/me", userHandler.UpdateMe)

	// Products: lectura pública (el listado identifica al usuario si hay token), escritura protegida
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, v)
	products.Get("/", OptionalAuth(deps.AuthUC), productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", requireAuth, productHandler.Create)
	products.Put("/:id", requireAuth, productHandler.Update)
	products.Delete("/:id", requireAuth, productHandler.Delete)

	// Catálogo público por vendedor
	api.Get("/sellers/:id/products", productHandler.ListBySeller)
}

func healthHandler(hc HealthChecker, service string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if hc != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := hc.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "service": service})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": service})
	}
}

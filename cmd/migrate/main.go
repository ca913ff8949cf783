// migrate aplica o revierte las migraciones embebidas del esquema.
//
// Uso: go run ./cmd/migrate <up|down [N]|reset|version|force V>
// La conexión se toma de DATABASE_URL o de DB_HOST, DB_PORT, etc.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"

	"github.com/jhoicas/marketplace-api/internal/infrastructure/postgres"
	"github.com/jhoicas/marketplace-api/pkg/config"
	"github.com/jhoicas/marketplace-api/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	dbURL := cfg.DB.ConnectionString()

	if os.Args[1] == "reset" {
		if err := postgres.RollbackAll(dbURL, log); err != nil {
			log.Fatal().Err(err).Msg("reset")
		}
		log.Info().Msg("migraciones revertidas")
		return
	}

	m, err := postgres.NewMigrator(dbURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migraciones")
	}
	defer m.Close()

	switch os.Args[1] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("up")
		}
		log.Info().Msg("migraciones aplicadas")

	case "down":
		steps := 1
		if len(os.Args) > 2 {
			n, err := strconv.Atoi(os.Args[2])
			if err != nil || n < 1 {
				log.Fatal().Str("arg", os.Args[2]).Msg("down: número de pasos inválido")
			}
			steps = n
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("down")
		}
		log.Info().Int("steps", steps).Msg("migraciones revertidas")

	case "version":
		v, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			log.Fatal().Err(err).Msg("version")
		}
		fmt.Printf("version: %d  dirty: %v\n", v, dirty)

	case "force":
		if len(os.Args) < 3 {
			log.Fatal().Msg("force: falta la versión")
		}
		v, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatal().Str("arg", os.Args[2]).Msg("force: versión inválida")
		}
		if err := m.Force(v); err != nil {
			log.Fatal().Err(err).Msg("force")
		}
		log.Info().Int("version", v).Msg("versión forzada")

	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Uso: migrate <comando> [args]

Comandos:
  up           Aplica todas las migraciones pendientes
  down [N]     Revierte N migraciones (por defecto 1)
  reset        Revierte todas las migraciones
  version      Muestra la versión actual
  force <V>    Fija la versión (limpia el estado dirty)`)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/jhoicas/obras-api/internal/infrastructure/postgres"
	"github.com/jhoicas/obras-api/pkg/config"
	"github.com/jhoicas/obras-api/pkg/logger"
	"github.com/jhoicas/obras-api/pkg/migrate"
)

func main() {
	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "comando: up|down|status|version|redo|reset|to")
	version := flag.String("version", "", "versión destino para -cmd=to")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	switch *cmd {
	case "to":
		if *version == "" {
			fmt.Fprintln(os.Stderr, "falta -version para -cmd=to")
			os.Exit(1)
		}
		err = migrate.MigrateToVersion(ctx, db, *version)
	case "up", "down", "status", "version", "redo", "reset":
		err = migrate.Run(ctx, db, *cmd)
	default:
		fmt.Fprintln(os.Stderr, "valor de -cmd desconocido:", *cmd)
		os.Exit(1)
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", *cmd).Msg("migración fallida")
	}
	log.Info().Str("cmd", *cmd).Msg("migración completada")
}

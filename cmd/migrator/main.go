package main

import (
	"context"
	"flag"
	"log"

	"github.com/Houeta/employee-api/internal/config"
	"github.com/Houeta/employee-api/internal/repository"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
)

func main() {
	migrationsDir := flag.String("dir", "migrations", "directory with goose SQL migrations")
	command := flag.String("command", "up", "goose command: up, down, status")
	flag.Parse()

	cfg := config.MustLoad()
	if cfg.Storage != config.StoragePostgres {
		log.Fatalf("Migrations are only managed for postgres storage, got %q", cfg.Storage)
	}

	dbpool, dbErr := repository.NewDatabase(context.Background(), cfg.Postgres)
	if dbErr != nil {
		log.Fatalf("Failed to connect to DB: %v", dbErr)
	}
	defer dbpool.Close()

	dtb := stdlib.OpenDBFromPool(dbpool)
	defer dtb.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal(err)
	}

	if migrationErr := goose.Run(*command, dtb, *migrationsDir); migrationErr != nil {
		log.Fatal(migrationErr)
	}

	log.Printf("✅ Migration command %q applied successfully", *command)
}

package main

// Run database migrations:
//   go run ./cmd/migrate            # apply pending migrations
//   go run ./cmd/migrate -down      # revert the latest migration
//   go run ./cmd/migrate -status    # print the applied version

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"groundwater-backend/internal/shared/config"
	"groundwater-backend/internal/shared/storage/db"
)

func main() {
	down := flag.Bool("down", false, "revert the most recent migration")
	status := flag.Bool("status", false, "print the applied schema version and exit")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	switch {
	case *status:
		version, err := db.SchemaVersion(ctx, sqlDB)
		if err != nil {
			log.Printf("failed to read schema version: %v", err)
			os.Exit(1)
		}
		names, _ := db.MigrationNames()
		fmt.Printf("schema version %d (%d migrations embedded)\n", version, len(names))
	case *down:
		if err := db.RollbackLast(ctx, sqlDB); err != nil {
			log.Printf("failed to roll back: %v", err)
			os.Exit(1)
		}
	default:
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			log.Printf("failed to run migrations: %v", err)
			os.Exit(1)
		}
	}
}

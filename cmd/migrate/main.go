package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"churchdirectory/internal/config"
	"churchdirectory/internal/store"
)

func main() {
	command := flag.String("command", "", "Migration command: up, down, version")
	flag.Parse()

	if *command == "" {
		fmt.Println("Usage: go run cmd/migrate/main.go -command [up|down|version]")
		fmt.Println("Commands:")
		fmt.Println("  up      - Apply all pending migrations")
		fmt.Println("  down    - Rollback all migrations")
		fmt.Println("  version - Show current migration version")
		os.Exit(1)
	}

	cfg := config.NewConfig()
	databaseURL := cfg.Store.Postgres.URL()

	switch *command {
	case "up":
		if err := store.Migrate(databaseURL); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		fmt.Println("Migrations applied")
	case "down":
		if err := store.MigrateDown(databaseURL); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
		fmt.Println("Migrations rolled back")
	case "version":
		version, dirty, err := store.MigrationVersion(databaseURL)
		if err != nil {
			log.Fatalf("Failed to read migration version: %v", err)
		}
		fmt.Printf("Version: %d (dirty: %v)\n", version, dirty)
	default:
		log.Fatalf("Unknown command: %s", *command)
	}
}

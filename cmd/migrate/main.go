package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"arai/internal/config"
	"arai/internal/db"
	"arai/internal/migrations"

	_ "arai/internal/migrations/versions" // Import all migrations
)

func main() {
	var command, envFile string
	flag.StringVar(&command, "command", "up", "Migration command (up, down, status)")
	flag.StringVar(&envFile, "env", ".env", "Environment file to load when present")
	flag.Parse()

	if err := config.LoadDotEnv(envFile); err != nil {
		log.Fatal(err)
	}

	postgresURL := os.Getenv("DATABASE_URL")
	if postgresURL == "" {
		log.Fatal("DATABASE_URL environment variable is empty")
	}

	database, err := db.NewDB(postgresURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		err = errors.Join(err, database.Close())
	}()

	migrator := migrations.NewMigrator(database.Conn(), os.Stdout)

	switch command {
	case "up":
		if err := migrator.Up(); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		fmt.Println("All migrations applied successfully!")
	case "down":
		if err := migrator.Down(); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
	case "status":
		if err := migrator.Status(); err != nil {
			log.Fatalf("Failed to get migration status: %v", err)
		}
	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

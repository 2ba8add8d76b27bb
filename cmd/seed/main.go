package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"arai/internal/config"
	"arai/internal/db"
)

func main() {
	var (
		envFile string
		count   int
		seed    int64
	)
	flag.StringVar(&envFile, "env", ".env", "Environment file to load (.env, .prod.env, etc)")
	flag.IntVar(&count, "count", 50, "Number of fake reports to insert")
	flag.Int64Var(&seed, "seed", 0, "Faker seed, 0 picks a random one")
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
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		err = errors.Join(err, database.Close())
	}()

	seeder := NewSeeder(database, seed)

	fmt.Printf("Seeding %d fake reports\n", count)

	if err := seeder.SeedReports(count); err != nil {
		log.Fatalf("Failed to seed reports: %v", err)
	}

	fmt.Println("Report seeding completed successfully!")
}

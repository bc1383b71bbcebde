package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"chatguard/config"
	"chatguard/pkg/database"
	"chatguard/pkg/logger"
)

const usage = `
chatguard - Database CLI Tool

Usage:
  migrate [command]

Commands:
  up          Create the users, chats and messages tables
  status      Show database connection status and table sizes
  seed        Seed the database with development data

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go seed
`

func main() {
	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	cfg := config.LoadConfig()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	l := logger.New(cfg.LogMode)
	defer l.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := database.Connect(ctx, cfg, l); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	switch command {
	case "up":
		runMigrationsUp(ctx)
	case "status":
		showStatus(ctx)
	case "seed":
		runSeed(ctx)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp(ctx context.Context) {
	log.Println("Running migrations UP...")

	if err := database.InitSchema(ctx, database.Pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully")
}

func showStatus(ctx context.Context) {
	log.Println("Checking database status...")

	if err := database.HealthCheck(ctx); err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Database connection: OK")

	for _, table := range []string{"users", "chats", "messages"} {
		exists, err := database.TableExists(ctx, database.Pool, table)
		if err != nil {
			log.Printf("Error checking table %s: %v", table, err)
			continue
		}
		if !exists {
			log.Printf("Table %-10s does not exist", table)
			continue
		}
		count, err := database.TableCount(ctx, database.Pool, table)
		if err != nil {
			log.Printf("Error counting table %s: %v", table, err)
			continue
		}
		log.Printf("Table %-10s exists (%d rows)", table, count)
	}
}

func runSeed(ctx context.Context) {
	log.Println("Seeding database...")

	if err := database.InitSchema(ctx, database.Pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	res, err := database.Seed(ctx, database.Pool, database.DefaultSeedUsers())
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seed summary:")
	log.Printf("   - Users:    %d", res.Users)
	log.Printf("   - Chats:    %d", res.Chats)
	log.Printf("   - Messages: %d", res.Messages)
}

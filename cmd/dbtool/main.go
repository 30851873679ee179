package main

import (
	"context"
	"log"
	"road-issue-service/internal/adapters/repositories"
	"road-issue-service/internal/config"
	"road-issue-service/internal/platform/db"
	"time"
)

// dbtool prepares a Postgres issue store: schema first, then demo issues.
func main() {
	config.Load()

	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	log.Println("Initializing database schema...")
	if err := repositories.InitPostgresSchema(conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	seedPath := config.Get("SEED_PATH", "data/seeds/issues.json")
	log.Println("Seeding database...")
	n, err := repositories.SeedFromJSON(context.Background(), repositories.NewSQLIssueRepository(conn), seedPath, time.Now())
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Printf("Seeding complete. issues=%d", n)
}

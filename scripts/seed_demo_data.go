package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// Seeds a demo portfolio: two accounts with a few months of history.
// Intended for local development only.
func main() {
	dbURL := flag.String("db", os.Getenv("DATABASE_URL"), "Database connection string")
	flag.Parse()

	if *dbURL == "" {
		log.Fatal("Database URL is required. Use -db flag or DATABASE_URL environment variable")
	}

	db, err := sql.Open("postgres", *dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	fmt.Println("Connected to database successfully")

	brokerID := uuid.NewString()
	fundID := uuid.NewString()

	accounts := []struct {
		id, name, currency string
	}{
		{brokerID, "Demo Broker", "CNY"},
		{fundID, "Demo Fund", "USD"},
	}
	for _, a := range accounts {
		if _, err := db.Exec(
			"INSERT INTO accounts (id, name, currency) VALUES ($1, $2, $3) ON CONFLICT (name) DO NOTHING",
			a.id, a.name, a.currency,
		); err != nil {
			log.Fatalf("Failed to insert account %s: %v", a.name, err)
		}
	}

	events := []struct {
		accountID, kind, amount, balance, date string
	}{
		{brokerID, "deposit", "100000", "100000", "2026-01-01"},
		{brokerID, "market_update", "0", "106000", "2026-02-01"},
		{brokerID, "market_update", "0", "104000", "2026-03-01"},
		{fundID, "deposit", "5000", "5000", "2026-01-15"},
		{fundID, "market_update", "0", "5400", "2026-03-01"},
	}
	for _, e := range events {
		if _, err := db.Exec(
			"INSERT INTO events (id, account_id, kind, amount, resulting_balance, date) VALUES ($1, $2, $3, $4, $5, $6)",
			uuid.NewString(), e.accountID, e.kind, e.amount, e.balance, e.date,
		); err != nil {
			log.Fatalf("Failed to insert event for %s: %v", e.accountID, err)
		}
	}

	fmt.Println("Seeded 2 accounts and 5 events")
}

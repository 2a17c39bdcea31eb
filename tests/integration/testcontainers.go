// Package integration provides test utilities for running integration tests
// with testcontainers. These tests require Docker to be running.
//
// The tests start a single PostgreSQL container for the whole package,
// migrate the schema, and clean up after completion.
package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/quangdo/folio/internal/db"
	"github.com/quangdo/folio/internal/models"
	"github.com/quangdo/folio/internal/repositories"
	"github.com/quangdo/folio/internal/services"
)

// TestContainer holds the PostgreSQL container and connection details
type TestContainer struct {
	Container testcontainers.Container
	Database  *db.DB
	Config    *db.Config
}

var suiteContainer *TestContainer

func setupWithContext(ctx context.Context) (*TestContainer, error) {
	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("folio_test"),
		postgres.WithUsername("folio_user"),
		postgres.WithPassword("folio_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	config := &db.Config{
		Driver:   "postgres",
		Host:     host,
		Port:     port.Port(),
		User:     "folio_user",
		Password: "folio_password",
		Name:     "folio_test",
		SSLMode:  "disable",
	}

	database, err := db.Connect(config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	if err := database.AutoMigrate(&models.Account{}, &models.Event{}, &models.DailySnapshot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return &TestContainer{Container: pgContainer, Database: database, Config: config}, nil
}

// stack bundles the service graph built over the suite database.
type stack struct {
	ledger    services.LedgerService
	rates     services.RateProvider
	returns   services.ReturnService
	snapshots services.SnapshotService
	snapRepo  repositories.SnapshotRepository
}

// newStack truncates all tables and wires fresh services, so tests stay
// independent while sharing one container.
func newStack(t *testing.T) *stack {
	t.Helper()

	database := suiteContainer.Database
	for _, table := range []string{"events", "daily_snapshots", "accounts"} {
		if err := database.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("failed to truncate %s: %v", table, err)
		}
	}
	return buildStack(database)
}

func buildStack(database *db.DB) *stack {
	accountRepo := repositories.NewAccountRepository(database)
	eventRepo := repositories.NewEventRepository(database)
	snapshotRepo := repositories.NewSnapshotRepository(database)

	ledger := services.NewLedgerService(accountRepo, eventRepo, services.LedgerConfig{BackdateGraceDays: -1})
	rates := services.NewStaticRateProvider()
	returns := services.NewReturnService(ledger, accountRepo, rates, services.ReturnConfig{MinAnnualizeDays: 30, ReportCurrency: "CNY"})
	snapshots := services.NewSnapshotService(snapshotRepo, returns, "CNY", zap.NewNop())

	return &stack{
		ledger:    ledger,
		rates:     rates,
		returns:   returns,
		snapshots: snapshots,
		snapRepo:  snapshotRepo,
	}
}

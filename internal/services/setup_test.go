package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quangdo/folio/internal/db"
	"github.com/quangdo/folio/internal/models"
	"github.com/quangdo/folio/internal/repositories"
)

// testStack wires the full service graph over an in-memory sqlite
// database. Each test gets a fresh database.
type testStack struct {
	db        *db.DB
	accounts  repositories.AccountRepository
	events    repositories.EventRepository
	snapshots repositories.SnapshotRepository
	ledger    LedgerService
	rates     *staticRateProvider
	returns   ReturnService
	snapshot  SnapshotService
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	database, err := db.Connect(&db.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, database.AutoMigrate(&models.Account{}, &models.Event{}, &models.DailySnapshot{}))

	accounts := repositories.NewAccountRepository(database)
	events := repositories.NewEventRepository(database)
	snapshots := repositories.NewSnapshotRepository(database)

	ledger := NewLedgerService(accounts, events, LedgerConfig{BackdateGraceDays: -1})
	rates := NewStaticRateProvider()
	returns := NewReturnService(ledger, accounts, rates, ReturnConfig{MinAnnualizeDays: 30, ReportCurrency: "CNY"})
	snapshot := NewSnapshotService(snapshots, returns, "CNY", zap.NewNop())

	return &testStack{
		db:        database,
		accounts:  accounts,
		events:    events,
		snapshots: snapshots,
		ledger:    ledger,
		rates:     rates,
		returns:   returns,
		snapshot:  snapshot,
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// requireClose asserts a decimal equals want within 1e-9, absorbing the
// rounding of non-terminating divisions.
func requireClose(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	diff := got.Sub(dec(want)).Abs()
	require.True(t, diff.LessThan(dec("0.000000001")), "want %s, got %s", want, got)
}

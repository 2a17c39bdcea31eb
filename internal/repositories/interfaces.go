package repositories

import (
	"context"
	"time"

	"github.com/quangdo/folio/internal/models"
)

// AccountRepository defines data access for accounts
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByName(ctx context.Context, name string) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
}

// EventRepository defines data access for the append-only event store.
// There are no update or delete methods by contract: the ledger's
// replay-based projection relies on recorded events never mutating.
type EventRepository interface {
	Append(ctx context.Context, event *models.Event) error
	ListByAccount(ctx context.Context, accountID string) ([]*models.Event, error)
	ListByAccountUpTo(ctx context.Context, accountID string, cutoff time.Time) ([]*models.Event, error)
	LatestByAccount(ctx context.Context, accountID string) (*models.Event, error)
}

// SnapshotRepository defines data access for the daily snapshot history.
// Snapshots are insert-once; Insert reports whether a row was written.
type SnapshotRepository interface {
	Insert(ctx context.Context, snapshot *models.DailySnapshot) (bool, error)
	GetByDate(ctx context.Context, date time.Time) (*models.DailySnapshot, error)
	ListRange(ctx context.Context, from, to time.Time) ([]*models.DailySnapshot, error)
}

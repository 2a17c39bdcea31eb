package services

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quangdo/folio/internal/apperrors"
	"github.com/quangdo/folio/internal/models"
	"github.com/quangdo/folio/internal/repositories"
)

// LedgerConfig holds ledger validation settings
type LedgerConfig struct {
	// BackdateGraceDays limits how far before the account's latest event
	// a new event may be dated. Negative means unlimited backdating.
	BackdateGraceDays int
}

// NewLedgerConfig creates a ledger configuration from environment variables
func NewLedgerConfig() LedgerConfig {
	grace := -1
	if v := os.Getenv("LEDGER_BACKDATE_GRACE_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			grace = n
		}
	}
	return LedgerConfig{BackdateGraceDays: grace}
}

type ledgerService struct {
	accounts repositories.AccountRepository
	events   repositories.EventRepository
	config   LedgerConfig

	// Per-account write locks. Appends to one account are serialized so
	// a concurrent reader never observes a half-applied event; different
	// accounts stay fully independent.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLedgerService creates a new ledger service
func NewLedgerService(accounts repositories.AccountRepository, events repositories.EventRepository, config LedgerConfig) LedgerService {
	return &ledgerService{
		accounts: accounts,
		events:   events,
		config:   config,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *ledgerService) accountLock(accountID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[accountID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[accountID] = lock
	}
	return lock
}

// CreateAccount registers a new account. A non-zero initial balance is
// recorded as an initial deposit event dated at creation, mirroring how
// the account was funded.
func (s *ledgerService) CreateAccount(ctx context.Context, name, currency string, initialBalance decimal.Decimal, date time.Time) (*models.Account, error) {
	account := &models.Account{
		Name:     name,
		Currency: currency,
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}
	if initialBalance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance must be >= 0", apperrors.ErrInvalidAmount)
	}
	account.ID = newID()
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	if !initialBalance.IsZero() {
		if _, err := s.PostEvent(ctx, account.ID, models.EventDeposit, initialBalance, initialBalance, date, nil); err != nil {
			return nil, fmt.Errorf("failed to record initial deposit: %w", err)
		}
	}
	return account, nil
}

func (s *ledgerService) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

func (s *ledgerService) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	return s.accounts.List(ctx)
}

// PostEvent validates and appends one event. All checks happen before
// any write; failures are reported synchronously with nothing applied.
func (s *ledgerService) PostEvent(ctx context.Context, accountID, kind string, amount, resultingBalance decimal.Decimal, date time.Time, note *string) (*models.Event, error) {
	event := &models.Event{
		AccountID:        accountID,
		Kind:             kind,
		Amount:           amount,
		ResultingBalance: resultingBalance,
		Date:             models.Day(date),
		Note:             note,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, err
	}

	lock := s.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	latest, err := s.events.LatestByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if latest != nil && s.config.BackdateGraceDays >= 0 {
		earliest := latest.Date.AddDate(0, 0, -s.config.BackdateGraceDays)
		if event.Date.Before(earliest) {
			return nil, fmt.Errorf("%w: %s is more than %d days before %s",
				apperrors.ErrBackdatedTooFar,
				event.Date.Format("2006-01-02"),
				s.config.BackdateGraceDays,
				latest.Date.Format("2006-01-02"))
		}
	}

	if err := s.events.Append(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *ledgerService) ListEvents(ctx context.Context, accountID string) ([]*models.Event, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.events.ListByAccount(ctx, accountID)
}

// CurrentBalance returns the resulting balance of the account's most
// recent event, or zero when no events exist.
func (s *ledgerService) CurrentBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return decimal.Zero, err
	}
	latest, err := s.events.LatestByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if latest == nil {
		return decimal.Zero, nil
	}
	return latest.ResultingBalance, nil
}

// BalanceAsOf returns the resulting balance of the latest event dated at
// or before the given date, or zero when none exists.
func (s *ledgerService) BalanceAsOf(ctx context.Context, accountID string, date time.Time) (decimal.Decimal, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return decimal.Zero, err
	}
	events, err := s.events.ListByAccountUpTo(ctx, accountID, date)
	if err != nil {
		return decimal.Zero, err
	}
	if len(events) == 0 {
		return decimal.Zero, nil
	}
	return events[len(events)-1].ResultingBalance, nil
}

func (s *ledgerService) NetContributedCapital(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return decimal.Zero, err
	}
	events, err := s.events.ListByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return sumFlows(events), nil
}

func (s *ledgerService) NetContributedCapitalUpTo(ctx context.Context, accountID string, cutoff time.Time) (decimal.Decimal, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return decimal.Zero, err
	}
	events, err := s.events.ListByAccountUpTo(ctx, accountID, cutoff)
	if err != nil {
		return decimal.Zero, err
	}
	return sumFlows(events), nil
}

// Timeline rebuilds the balance timeline by replaying the account's
// events. It is a projection, recomputed on every read, so it can never
// drift from the event store.
func (s *ledgerService) Timeline(ctx context.Context, accountID string) ([]models.TimelinePoint, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	events, err := s.events.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return buildTimeline(events), nil
}

func (s *ledgerService) TimelineUpTo(ctx context.Context, accountID string, cutoff time.Time) ([]models.TimelinePoint, error) {
	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		return nil, err
	}
	events, err := s.events.ListByAccountUpTo(ctx, accountID, cutoff)
	if err != nil {
		return nil, err
	}
	return buildTimeline(events), nil
}

func buildTimeline(events []*models.Event) []models.TimelinePoint {
	points := make([]models.TimelinePoint, 0, len(events))
	for _, e := range events {
		points = append(points, models.TimelinePoint{
			Date:    e.Date,
			Seq:     e.Seq,
			Balance: e.ResultingBalance,
			Flow:    e.Flow(),
		})
	}
	return points
}

func sumFlows(events []*models.Event) decimal.Decimal {
	total := decimal.Zero
	for _, e := range events {
		total = total.Add(e.Flow())
	}
	return total
}

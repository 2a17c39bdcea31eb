package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/quangdo/folio/internal/models"
	"github.com/quangdo/folio/internal/repositories"
)

type snapshotService struct {
	snapshots repositories.SnapshotRepository
	returns   ReturnService
	currency  string
	logger    *zap.Logger

	mu sync.Mutex
}

// NewSnapshotService creates a new daily snapshot service
func NewSnapshotService(snapshots repositories.SnapshotRepository, returns ReturnService, currency string, logger *zap.Logger) SnapshotService {
	return &snapshotService{
		snapshots: snapshots,
		returns:   returns,
		currency:  currency,
		logger:    logger,
	}
}

// RunDaily captures today's aggregate snapshot. The first run of a
// calendar day wins; later runs and concurrent invocations are no-ops,
// so a snapshot is never rewritten once taken.
func (s *snapshotService) RunDaily(ctx context.Context, today time.Time) error {
	day := models.Day(today)

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.snapshots.GetByDate(ctx, day)
	if err != nil {
		return err
	}
	if existing != nil {
		s.logger.Debug("snapshot already exists", zap.String("date", day.Format("2006-01-02")))
		return nil
	}

	summary, err := s.returns.ComputeSummary(ctx, models.SinceInception(day))
	if err != nil {
		return fmt.Errorf("failed to compute summary for snapshot: %w", err)
	}

	snapshot := &models.DailySnapshot{
		Date:        day,
		TotalAssets: summary.TotalAssets,
		TotalProfit: summary.CumulativeProfit,
		ReturnRate:  summary.TimeWeightedReturn,
		Currency:    s.currency,
	}
	if err := snapshot.Validate(); err != nil {
		return err
	}

	inserted, err := s.snapshots.Insert(ctx, snapshot)
	if err != nil {
		return err
	}
	if inserted {
		s.logger.Info("daily snapshot recorded",
			zap.String("date", day.Format("2006-01-02")),
			zap.String("total_assets", snapshot.TotalAssets.String()),
			zap.String("total_profit", snapshot.TotalProfit.String()))
	}
	return nil
}

// History returns snapshots in [from, to] ordered by date ascending.
// Zero bounds are open.
func (s *snapshotService) History(ctx context.Context, from, to time.Time) ([]*models.DailySnapshot, error) {
	return s.snapshots.ListRange(ctx, from, to)
}

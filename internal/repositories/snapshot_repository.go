package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quangdo/folio/internal/db"
	"github.com/quangdo/folio/internal/models"
)

type snapshotRepository struct {
	db *db.DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(database *db.DB) SnapshotRepository {
	return &snapshotRepository{db: database}
}

// Insert writes the snapshot unless one already exists for its date.
// The unique constraint on date makes the no-op check atomic under
// concurrent scheduler invocations.
func (r *snapshotRepository) Insert(ctx context.Context, snapshot *models.DailySnapshot) (bool, error) {
	if snapshot.ID == "" {
		snapshot.ID = uuid.NewString()
	}
	snapshot.Date = models.Day(snapshot.Date)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "date"}}, DoNothing: true}).
		Create(snapshot)
	if result.Error != nil {
		return false, fmt.Errorf("failed to insert snapshot: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *snapshotRepository) GetByDate(ctx context.Context, date time.Time) (*models.DailySnapshot, error) {
	var snapshot models.DailySnapshot
	err := r.db.WithContext(ctx).First(&snapshot, "date = ?", models.Day(date)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return &snapshot, nil
}

func (r *snapshotRepository) ListRange(ctx context.Context, from, to time.Time) ([]*models.DailySnapshot, error) {
	var snapshots []*models.DailySnapshot
	query := r.db.WithContext(ctx)
	if !from.IsZero() {
		query = query.Where("date >= ?", models.Day(from))
	}
	if !to.IsZero() {
		query = query.Where("date <= ?", models.Day(to))
	}
	if err := query.Order("date ASC").Find(&snapshots).Error; err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snapshots, nil
}

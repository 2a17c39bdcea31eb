package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quangdo/folio/internal/db"
	"github.com/quangdo/folio/internal/models"
)

type eventRepository struct {
	db *db.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(database *db.DB) EventRepository {
	return &eventRepository{db: database}
}

func (r *eventRepository) Append(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.Date = models.Day(event.Date)
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *eventRepository) ListByAccount(ctx context.Context, accountID string) ([]*models.Event, error) {
	var events []*models.Event
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("date ASC, seq ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (r *eventRepository) ListByAccountUpTo(ctx context.Context, accountID string, cutoff time.Time) ([]*models.Event, error) {
	var events []*models.Event
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND date <= ?", accountID, models.Day(cutoff)).
		Order("date ASC, seq ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (r *eventRepository) LatestByAccount(ctx context.Context, accountID string) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("date DESC, seq DESC").
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest event: %w", err)
	}
	return &event, nil
}

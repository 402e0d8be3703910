package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/justsurfingit/hunt-assistant/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned by reads and updates that address a missing row.
var ErrNotFound = errors.New("record not found")

type JourneyStore struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewJourneyStore(db *gorm.DB) *JourneyStore {
	return &JourneyStore{DB: db, now: time.Now}
}

// WithClock replaces the timestamp source.
func (s *JourneyStore) WithClock(now func() time.Time) *JourneyStore {
	s.now = now
	return s
}

func (s *JourneyStore) Create(ctx context.Context, j *models.Journey) error {
	now := s.now()
	if j.CreatedAt.IsZero() {
		j.CreatedAt = now
	}
	j.UpdatedAt = j.CreatedAt
	if err := s.DB.WithContext(ctx).Create(j).Error; err != nil {
		return fmt.Errorf("create journey: %w", err)
	}
	return nil
}

func (s *JourneyStore) FindByID(ctx context.Context, id string) (*models.Journey, error) {
	var j models.Journey
	err := s.DB.WithContext(ctx).First(&j, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find journey %s: %w", id, err)
	}
	return &j, nil
}

// FindByOwner returns the user's journeys, most recent first.
func (s *JourneyStore) FindByOwner(ctx context.Context, userID string) ([]models.Journey, error) {
	journeys := make([]models.Journey, 0)
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&journeys).Error
	if err != nil {
		return nil, fmt.Errorf("list journeys for %s: %w", userID, err)
	}
	return journeys, nil
}

// Update merges the provided fields into the row and returns the result.
func (s *JourneyStore) Update(ctx context.Context, id string, u models.JourneyUpdate) (*models.Journey, error) {
	cols := u.Columns()
	if len(cols) == 0 {
		return s.FindByID(ctx, id)
	}

	var updated *models.Journey
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Journey
		if err := tx.Select("created_at", "updated_at").First(&current, "id = ?", id).Error; err != nil {
			return err
		}
		// timestamps never move backwards, even with a skewed clock
		now := s.now()
		if now.Before(current.CreatedAt) {
			now = current.CreatedAt
		}
		if now.Before(current.UpdatedAt) {
			now = current.UpdatedAt
		}
		cols["updated_at"] = now

		if err := tx.Model(&models.Journey{}).Where("id = ?", id).Updates(cols).Error; err != nil {
			return err
		}
		updated = &models.Journey{}
		return tx.First(updated, "id = ?", id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update journey %s: %w", id, err)
	}
	return updated, nil
}

// Delete removes the row. Deleting a missing id is not an error.
func (s *JourneyStore) Delete(ctx context.Context, id string) error {
	if err := s.DB.WithContext(ctx).Delete(&models.Journey{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete journey %s: %w", id, err)
	}
	return nil
}

// Ping checks the database connection.
func (s *JourneyStore) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

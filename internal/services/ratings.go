package services

import (
	"errors"
	"math"

	"grill-ekstraklasa/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingsService owns the rating write path and keeps each player's cached
// average_rating/total_ratings equal to the aggregate over its rating rows.
type RatingsService struct {
	db *gorm.DB
}

// NewRatingsService creates a new ratings service
func NewRatingsService(db *gorm.DB) *RatingsService {
	return &RatingsService{db: db}
}

// RecordRating creates a new rating and recomputes the player's aggregate in
// the same transaction. Repeat ratings by the same user are independent rows,
// never merged.
func (s *RatingsService) RecordRating(playerID, userID uuid.UUID, value int) (*models.Rating, error) {
	if !models.ValidRatingValue(value) {
		return nil, ErrInvalidRatingValue
	}

	rating := &models.Rating{
		PlayerID: playerID,
		UserID:   userID,
		Value:    value,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.lockPlayer(tx, playerID); err != nil {
			return err
		}
		if err := tx.Create(rating).Error; err != nil {
			return err
		}
		return s.recompute(tx, playerID)
	})
	if err != nil {
		return nil, err
	}
	return rating, nil
}

// DeleteRating removes a rating and recomputes the affected player's
// aggregate in the same transaction.
func (s *RatingsService) DeleteRating(ratingID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var rating models.Rating
		if err := tx.First(&rating, "id = ?", ratingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := s.lockPlayer(tx, rating.PlayerID); err != nil {
			return err
		}
		if err := tx.Delete(&rating).Error; err != nil {
			return err
		}
		return s.recompute(tx, rating.PlayerID)
	})
}

// GetRating loads a single rating by id
func (s *RatingsService) GetRating(ratingID uuid.UUID) (*models.Rating, error) {
	var rating models.Rating
	if err := s.db.First(&rating, "id = ?", ratingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rating, nil
}

// ListRatings returns ratings for a user, newest first, optionally filtered
// by player.
func (s *RatingsService) ListRatings(userID uuid.UUID, playerID *uuid.UUID, limit, offset int) ([]models.Rating, int64, error) {
	query := s.db.Model(&models.Rating{}).Where("user_id = ?", userID)
	if playerID != nil {
		query = query.Where("player_id = ?", *playerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ratings []models.Rating
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&ratings).Error
	return ratings, total, err
}

// RecomputeAggregate re-reads all ratings for a player and rewrites the
// cached aggregate fields. Idempotent; this is the resync path for repairing
// any drift.
func (s *RatingsService) RecomputeAggregate(playerID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.lockPlayer(tx, playerID); err != nil {
			return err
		}
		return s.recompute(tx, playerID)
	})
}

// RecalculateAll resyncs the cached aggregates of every player. Returns the
// number of players updated.
func (s *RatingsService) RecalculateAll() (int, error) {
	var ids []uuid.UUID
	if err := s.db.Model(&models.Player{}).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}

	updated := 0
	for _, id := range ids {
		if err := s.RecomputeAggregate(id); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// lockPlayer takes a row lock on the player so concurrent rating writes to
// the same player serialize their recomputations. SQLite transactions are
// already serialized, so the explicit lock is postgres-only.
func (s *RatingsService) lockPlayer(tx *gorm.DB, playerID uuid.UUID) error {
	query := tx.Model(&models.Player{})
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var count int64
	if err := query.Where("id = ?", playerID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// recompute writes AVG/COUNT over the player's ratings back onto the player
// row. The average is rounded to two decimal places, 0 when unrated.
func (s *RatingsService) recompute(tx *gorm.DB, playerID uuid.UUID) error {
	var agg struct {
		Avg   float64
		Count int64
	}
	err := tx.Model(&models.Rating{}).
		Select("COALESCE(AVG(value), 0) AS avg, COUNT(*) AS count").
		Where("player_id = ?", playerID).
		Scan(&agg).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.Player{}).
		Where("id = ?", playerID).
		Updates(map[string]interface{}{
			"average_rating": math.Round(agg.Avg*100) / 100,
			"total_ratings":  agg.Count,
		}).Error
}

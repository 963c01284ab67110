package services

import (
	"fmt"
	"os"
	"time"

	"grill-ekstraklasa/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ThrottleConfig holds the per-user write cooldowns. A zero duration disables
// the corresponding gate.
type ThrottleConfig struct {
	RatingCooldown  time.Duration
	CommentCooldown time.Duration
}

// DefaultThrottleConfig returns the documented default of one minute per
// write kind.
func DefaultThrottleConfig() ThrottleConfig {
	return ThrottleConfig{
		RatingCooldown:  time.Minute,
		CommentCooldown: time.Minute,
	}
}

// LoadThrottleConfig reads RATING_COOLDOWN/COMMENT_COOLDOWN from the
// environment (Go duration syntax), falling back to the defaults.
func LoadThrottleConfig() ThrottleConfig {
	config := DefaultThrottleConfig()
	if v := os.Getenv("RATING_COOLDOWN"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.RatingCooldown = d
		}
	}
	if v := os.Getenv("COMMENT_COOLDOWN"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.CommentCooldown = d
		}
	}
	return config
}

// ThrottleService gates how often a single user may create a rating or a
// comment. Only the user's single most recent write of each kind matters,
// not a count over a window.
type ThrottleService struct {
	db     *gorm.DB
	config ThrottleConfig

	// now is overridable in tests
	now func() time.Time
}

// NewThrottleService creates a throttle service with the given config
func NewThrottleService(db *gorm.DB, config ThrottleConfig) *ThrottleService {
	return &ThrottleService{db: db, config: config, now: time.Now}
}

// CheckRatingThrottle reports whether the user may create a new rating. When
// rejected, the second return value carries the human-readable message.
func (s *ThrottleService) CheckRatingThrottle(userID uuid.UUID) (bool, string, error) {
	if s.config.RatingCooldown <= 0 {
		return true, "", nil
	}

	last, err := s.lastWrite(&models.Rating{}, userID)
	if err != nil {
		return false, "", err
	}
	if last != nil && s.now().Sub(*last) < s.config.RatingCooldown {
		return false, fmt.Sprintf("Możesz oceniać tylko raz na %s", cooldownLabel(s.config.RatingCooldown)), nil
	}
	return true, "", nil
}

// CheckCommentThrottle reports whether the user may create a new comment
func (s *ThrottleService) CheckCommentThrottle(userID uuid.UUID) (bool, string, error) {
	if s.config.CommentCooldown <= 0 {
		return true, "", nil
	}

	last, err := s.lastWrite(&models.Comment{}, userID)
	if err != nil {
		return false, "", err
	}
	if last != nil && s.now().Sub(*last) < s.config.CommentCooldown {
		return false, fmt.Sprintf("Możesz komentować tylko raz na %s", cooldownLabel(s.config.CommentCooldown)), nil
	}
	return true, "", nil
}

// lastWrite finds the created_at of the user's most recent row of the given
// model, or nil when the user never wrote one.
func (s *ThrottleService) lastWrite(model interface{}, userID uuid.UUID) (*time.Time, error) {
	var row struct {
		CreatedAt time.Time
	}
	result := s.db.Model(model).
		Select("created_at").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &row.CreatedAt, nil
}

// cooldownLabel renders a duration the way the fan-facing messages expect
func cooldownLabel(d time.Duration) string {
	switch d {
	case time.Minute:
		return "minutę"
	case time.Hour:
		return "godzinę"
	default:
		return d.String()
	}
}

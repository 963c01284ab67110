package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating value bounds, inclusive
const (
	MinRatingValue = 1
	MaxRatingValue = 10
)

// Rating represents a single 1-10 vote a user cast on a player. A user may
// rate the same player many times over time; every row is an independent
// event, never an upsert.
type Rating struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	PlayerID  uuid.UUID `json:"player_id" db:"player_id" gorm:"type:uuid;not null;index:idx_ratings_player_created,priority:1"`
	UserID    uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;not null;index"`
	Value     int       `json:"value" db:"value" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime;index:idx_ratings_player_created,priority:2"`

	// Relationships
	Player *Player `json:"player,omitempty" gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE"`
	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name for the Rating model
func (Rating) TableName() string {
	return "ratings"
}

// BeforeCreate assigns a UUID when none was provided
func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ValidRatingValue reports whether v is inside the accepted 1-10 range
func ValidRatingValue(v int) bool {
	return v >= MinRatingValue && v <= MaxRatingValue
}

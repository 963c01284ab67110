package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Media types attached to players
const (
	MediaGIF   = "gif"
	MediaTweet = "tweet"
)

// PlayerMedia represents a GIF or tweet attached to a player profile. The
// player's gif_urls/tweet_urls arrays are a denormalized projection of this
// table and get rebuilt on every mutation.
type PlayerMedia struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	PlayerID  uuid.UUID `json:"player_id" db:"player_id" gorm:"type:uuid;not null;index"`
	MediaType string    `json:"media_type" db:"media_type" gorm:"type:varchar(10);not null"`
	URL       string    `json:"url" db:"url" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime;index"`

	// Relationships
	Player *Player `json:"player,omitempty" gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name for the PlayerMedia model
func (PlayerMedia) TableName() string {
	return "player_media"
}

// BeforeCreate assigns a UUID when none was provided
func (m *PlayerMedia) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ValidMediaType reports whether t is gif or tweet
func ValidMediaType(t string) bool {
	return t == MediaGIF || t == MediaTweet
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Player positions, in pitch order
const (
	PositionGoalkeeper = "GK"
	PositionDefender   = "DF"
	PositionMidfielder = "MF"
	PositionForward    = "FW"
)

// Positions lists the valid position codes in display order
var Positions = []string{PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionForward}

// Player represents a footballer profile
type Player struct {
	ID          uuid.UUID  `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	Name        string     `json:"name" db:"name" gorm:"not null"`
	Slug        string     `json:"slug" db:"slug" gorm:"uniqueIndex;not null"`
	Position    string     `json:"position" db:"position" gorm:"type:varchar(2);not null"`
	ClubID      *uuid.UUID `json:"club_id" db:"club_id" gorm:"type:uuid;index"`
	Nationality string     `json:"nationality" db:"nationality"`
	DateOfBirth *time.Time `json:"date_of_birth" db:"date_of_birth"`
	HeightCM    int        `json:"height_cm" db:"height_cm" gorm:"default:0"`
	WeightKG    int        `json:"weight_kg" db:"weight_kg" gorm:"default:0"`

	// Image references
	PhotoURL      string     `json:"photo_url" db:"photo_url"`
	CardImageURL  string     `json:"card_image_url" db:"card_image_url"`
	CardUpdatedAt *time.Time `json:"card_updated_at" db:"card_updated_at"`

	// Legacy projections of the player_media table, resynchronized on
	// every media mutation
	GifURLs   pq.StringArray `json:"gif_urls" db:"gif_urls" gorm:"type:text[]"`
	TweetURLs pq.StringArray `json:"tweet_urls" db:"tweet_urls" gorm:"type:text[]"`

	// Cached aggregates over the ratings table. Derived fields, not source
	// of truth; kept in sync by services.Ratings.
	AverageRating float64 `json:"average_rating" db:"average_rating" gorm:"default:0"`
	TotalRatings  int     `json:"total_ratings" db:"total_ratings" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Club     *Club         `json:"club,omitempty" gorm:"foreignKey:ClubID;constraint:OnDelete:CASCADE"`
	Ratings  []Rating      `json:"ratings,omitempty" gorm:"foreignKey:PlayerID"`
	Comments []Comment     `json:"comments,omitempty" gorm:"foreignKey:PlayerID"`
	Media    []PlayerMedia `json:"media,omitempty" gorm:"foreignKey:PlayerID"`
}

// TableName sets the table name for the Player model
func (Player) TableName() string {
	return "players"
}

// BeforeCreate assigns a UUID when none was provided
func (p *Player) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ValidPosition reports whether code is one of GK/DF/MF/FW
func ValidPosition(code string) bool {
	for _, p := range Positions {
		if p == code {
			return true
		}
	}
	return false
}

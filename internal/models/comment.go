package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment represents a fan comment on a player, optionally answered by the
// AI commentator.
type Comment struct {
	ID       uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	PlayerID uuid.UUID `json:"player_id" db:"player_id" gorm:"type:uuid;not null;index"`
	UserID   uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;not null;index"`
	Content  string    `json:"content" db:"content" gorm:"type:text;not null"`

	// AI reply is filled in best-effort after creation; empty when every
	// model in the fallback chain failed.
	AIResponse    string     `json:"ai_response" db:"ai_response" gorm:"type:text"`
	AIGeneratedAt *time.Time `json:"ai_generated_at" db:"ai_generated_at"`

	LikesCount int `json:"likes_count" db:"likes_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Player *Player `json:"player,omitempty" gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE"`
	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Likes  []User  `json:"-" gorm:"many2many:comment_likes"`
}

// TableName sets the table name for the Comment model
func (Comment) TableName() string {
	return "comments"
}

// BeforeCreate assigns a UUID when none was provided
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

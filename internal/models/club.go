package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoanClubName marks the sentinel club whose players are hidden from all
// public listings, ratings, and rankings without being deleted.
const LoanClubName = "Loan"

// Club represents an Ekstraklasa club
type Club struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	Name        string    `json:"name" db:"name" gorm:"uniqueIndex;not null"`
	City        string    `json:"city" db:"city"`
	FoundedYear *int      `json:"founded_year" db:"founded_year"`
	LogoURL     string    `json:"logo_url" db:"logo_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Players []Player `json:"players,omitempty" gorm:"foreignKey:ClubID"`
}

// TableName sets the table name for the Club model
func (Club) TableName() string {
	return "clubs"
}

// BeforeCreate assigns a UUID when none was provided
func (c *Club) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsLoan reports whether this is the sentinel loan club
func (c *Club) IsLoan() bool {
	return c.Name == LoanClubName
}

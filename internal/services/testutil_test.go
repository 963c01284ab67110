package services

import (
	"testing"
	"time"

	"grill-ekstraklasa/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func createClub(t *testing.T, db *gorm.DB, name string) models.Club {
	club := models.Club{Name: name, City: name}
	if err := db.Create(&club).Error; err != nil {
		t.Fatalf("Failed to create club %s: %v", name, err)
	}
	return club
}

func createPlayer(t *testing.T, db *gorm.DB, name string, club *models.Club) models.Player {
	player := models.Player{
		ID:       uuid.New(),
		Name:     name,
		Slug:     Slugify(name) + "-" + uuid.NewString()[:8],
		Position: models.PositionForward,
	}
	if club != nil {
		player.ClubID = &club.ID
	}
	if err := db.Create(&player).Error; err != nil {
		t.Fatalf("Failed to create player %s: %v", name, err)
	}
	return player
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	user := models.User{Username: username}
	if err := user.SetPassword("testpass"); err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

func createRatingAt(t *testing.T, db *gorm.DB, player models.Player, user models.User, value int, at time.Time) models.Rating {
	rating := models.Rating{
		PlayerID:  player.ID,
		UserID:    user.ID,
		Value:     value,
		CreatedAt: at,
	}
	if err := db.Create(&rating).Error; err != nil {
		t.Fatalf("Failed to create rating: %v", err)
	}
	return rating
}

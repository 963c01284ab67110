package worker

import (
	"testing"
	"time"

	"grill-ekstraklasa/internal/models"

	"github.com/stretchr/testify/assert"
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

func TestWorkerStartStop(t *testing.T) {
	db := setupTestDB(t)
	ws := NewWorkerService(db)

	assert.False(t, ws.IsRunning())

	if err := ws.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	assert.True(t, ws.IsRunning())

	// Second start is a no-op
	if err := ws.Start(); err != nil {
		t.Fatalf("Second start failed: %v", err)
	}

	ws.Stop()
	assert.False(t, ws.IsRunning())

	// Second stop is a no-op
	ws.Stop()
}

func TestWorkerResyncRepairsDrift(t *testing.T) {
	db := setupTestDB(t)

	player := models.Player{Name: "Jan Kowalski", Slug: "jan-kowalski", Position: models.PositionForward, TotalRatings: 42}
	if err := db.Create(&player).Error; err != nil {
		t.Fatalf("Failed to create player: %v", err)
	}

	ws := NewWorkerService(db)
	ws.resyncInterval = 10 * time.Millisecond

	if err := ws.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer ws.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var refreshed models.Player
		db.First(&refreshed, "id = ?", player.ID)
		if refreshed.TotalRatings == 0 {
			status := ws.GetStatus()
			assert.True(t, status.Running)
			assert.False(t, status.LastResync.IsZero())
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Aggregate resync never ran")
}

func TestWorkerStatusSnapshot(t *testing.T) {
	db := setupTestDB(t)
	ws := NewWorkerService(db)

	status := ws.GetStatus()
	assert.False(t, status.Running)
	assert.True(t, status.LastResync.IsZero())
	assert.Zero(t, status.ResyncErrors)
}

package services

import (
	"testing"
	"time"

	"grill-ekstraklasa/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAddMediaSyncsLegacyURLs(t *testing.T) {
	db := setupTestDB(t)
	service := NewMediaService(db)

	player := createPlayer(t, db, "Jan Kowalski", nil)

	if _, err := service.AddMedia(player.ID, models.MediaGIF, "https://example.com/a.gif"); err != nil {
		t.Fatalf("AddMedia failed: %v", err)
	}
	second, err := service.AddMedia(player.ID, models.MediaGIF, "https://example.com/b.gif")
	if err != nil {
		t.Fatalf("AddMedia failed: %v", err)
	}
	db.Model(&models.PlayerMedia{}).Where("id = ?", second.ID).
		Update("created_at", time.Now().Add(time.Minute))
	if err := service.SyncPlayer(player.ID); err != nil {
		t.Fatalf("SyncPlayer failed: %v", err)
	}
	if _, err := service.AddMedia(player.ID, models.MediaTweet, "https://example.com/status/1"); err != nil {
		t.Fatalf("AddMedia failed: %v", err)
	}

	var refreshed models.Player
	db.First(&refreshed, "id = ?", player.ID)
	assert.Equal(t, []string{"https://example.com/b.gif", "https://example.com/a.gif"}, []string(refreshed.GifURLs))
	assert.Equal(t, []string{"https://example.com/status/1"}, []string(refreshed.TweetURLs))
}

func TestAddMediaValidation(t *testing.T) {
	db := setupTestDB(t)
	service := NewMediaService(db)

	player := createPlayer(t, db, "Jan Kowalski", nil)

	_, err := service.AddMedia(player.ID, "video", "https://example.com/clip.mp4")
	assert.ErrorIs(t, err, ErrInvalidMediaType)

	_, err = service.AddMedia(player.ID, models.MediaGIF, "   ")
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = service.AddMedia(uuid.New(), models.MediaGIF, "https://example.com/a.gif")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteMediaResyncsLegacyURLs(t *testing.T) {
	db := setupTestDB(t)
	service := NewMediaService(db)

	player := createPlayer(t, db, "Jan Kowalski", nil)
	media, err := service.AddMedia(player.ID, models.MediaGIF, "https://example.com/a.gif")
	if err != nil {
		t.Fatalf("AddMedia failed: %v", err)
	}

	if err := service.DeleteMedia(media.ID); err != nil {
		t.Fatalf("DeleteMedia failed: %v", err)
	}

	var count int64
	db.Model(&models.PlayerMedia{}).Count(&count)
	assert.Equal(t, int64(0), count)

	var refreshed models.Player
	db.First(&refreshed, "id = ?", player.ID)
	assert.Empty(t, []string(refreshed.GifURLs))

	err = service.DeleteMedia(media.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListForPlayerNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	service := NewMediaService(db)

	player := createPlayer(t, db, "Jan Kowalski", nil)
	older, err := service.AddMedia(player.ID, models.MediaGIF, "https://example.com/old.gif")
	if err != nil {
		t.Fatalf("AddMedia failed: %v", err)
	}
	db.Model(&models.PlayerMedia{}).Where("id = ?", older.ID).
		Update("created_at", time.Now().Add(-time.Hour))
	if _, err := service.AddMedia(player.ID, models.MediaGIF, "https://example.com/new.gif"); err != nil {
		t.Fatalf("AddMedia failed: %v", err)
	}

	media, err := service.ListForPlayer(player.ID)
	if err != nil {
		t.Fatalf("ListForPlayer failed: %v", err)
	}
	if len(media) != 2 {
		t.Fatalf("Expected 2 media items, got %d", len(media))
	}
	assert.Equal(t, "https://example.com/new.gif", media[0].URL)
}

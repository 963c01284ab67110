package services

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"grill-ekstraklasa/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// MediaService manages player media and keeps the legacy gif_urls/tweet_urls
// projections on the player row in sync with the player_media table.
type MediaService struct {
	db *gorm.DB

	// mediaRoot is where locally stored media files live; empty disables
	// file cleanup on delete
	mediaRoot string
}

// NewMediaService creates a media service. File cleanup uses MEDIA_ROOT when
// set.
func NewMediaService(db *gorm.DB) *MediaService {
	return &MediaService{db: db, mediaRoot: os.Getenv("MEDIA_ROOT")}
}

// AddMedia attaches a GIF or tweet to a player and resyncs the legacy URL
// arrays.
func (s *MediaService) AddMedia(playerID uuid.UUID, mediaType, mediaURL string) (*models.PlayerMedia, error) {
	if !models.ValidMediaType(mediaType) {
		return nil, ErrInvalidMediaType
	}
	if strings.TrimSpace(mediaURL) == "" {
		return nil, ErrEmptyContent
	}

	media := &models.PlayerMedia{
		PlayerID:  playerID,
		MediaType: mediaType,
		URL:       mediaURL,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Player{}).Where("id = ?", playerID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		if err := tx.Create(media).Error; err != nil {
			return err
		}
		return s.syncLegacyURLs(tx, playerID)
	})
	if err != nil {
		return nil, err
	}
	return media, nil
}

// DeleteMedia removes a media record and resyncs the player's legacy URL
// arrays. Removing the underlying stored file is best effort: the record is
// deleted even when the file cleanup fails.
func (s *MediaService) DeleteMedia(mediaID uuid.UUID) error {
	var media models.PlayerMedia
	if err := s.db.First(&media, "id = ?", mediaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&media).Error; err != nil {
			return err
		}
		return s.syncLegacyURLs(tx, media.PlayerID)
	})
	if err != nil {
		return err
	}

	s.removeStoredFile(media.URL)
	return nil
}

// ListForPlayer returns a player's media, newest first
func (s *MediaService) ListForPlayer(playerID uuid.UUID) ([]models.PlayerMedia, error) {
	var media []models.PlayerMedia
	err := s.db.Where("player_id = ?", playerID).
		Order("created_at DESC").
		Find(&media).Error
	return media, err
}

// SyncPlayer rebuilds the legacy URL arrays for one player from the
// player_media table.
func (s *MediaService) SyncPlayer(playerID uuid.UUID) error {
	return s.syncLegacyURLs(s.db, playerID)
}

// syncLegacyURLs rewrites gif_urls/tweet_urls as newest-first projections of
// player_media.
func (s *MediaService) syncLegacyURLs(tx *gorm.DB, playerID uuid.UUID) error {
	urls := func(mediaType string) (pq.StringArray, error) {
		var list []string
		err := tx.Model(&models.PlayerMedia{}).
			Where("player_id = ? AND media_type = ?", playerID, mediaType).
			Order("created_at DESC").
			Pluck("url", &list).Error
		return pq.StringArray(list), err
	}

	gifs, err := urls(models.MediaGIF)
	if err != nil {
		return err
	}
	tweets, err := urls(models.MediaTweet)
	if err != nil {
		return err
	}

	return tx.Model(&models.Player{}).Where("id = ?", playerID).
		Updates(map[string]interface{}{
			"gif_urls":   gifs,
			"tweet_urls": tweets,
		}).Error
}

// removeStoredFile deletes a locally stored media file. Failures are
// ignored: the database record is already gone and a stray file is harmless.
func (s *MediaService) removeStoredFile(mediaURL string) {
	if s.mediaRoot == "" {
		return
	}

	path := mediaURL
	if parsed, err := url.Parse(mediaURL); err == nil && parsed.Path != "" {
		path = strings.TrimPrefix(parsed.Path, "/")
	}

	full := filepath.Join(s.mediaRoot, filepath.Clean("/"+path))
	_ = os.Remove(full)
}

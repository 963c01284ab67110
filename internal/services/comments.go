package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"grill-ekstraklasa/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AIResponder generates the snarky commentator reply for a fan comment. An
// empty string means no reply could be produced; it is never an error.
type AIResponder interface {
	GenerateCommentResponse(ctx context.Context, userComment, playerName, userName string) string
}

// CommentsService handles fan comments, likes, and the AI reply attachment
type CommentsService struct {
	db *gorm.DB
	ai AIResponder
}

// NewCommentsService creates a comments service. The responder may be nil to
// disable AI replies entirely.
func NewCommentsService(db *gorm.DB, responder AIResponder) *CommentsService {
	return &CommentsService{db: db, ai: responder}
}

// CreateComment persists a comment and then tries to attach an AI reply. The
// comment succeeds regardless of what the AI call does: every generation
// failure is swallowed and leaves ai_response empty.
func (s *CommentsService) CreateComment(ctx context.Context, playerID, userID uuid.UUID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	comment := &models.Comment{
		PlayerID: playerID,
		UserID:   userID,
		Content:  content,
	}
	if err := s.db.Create(comment).Error; err != nil {
		return nil, err
	}

	s.attachAIResponse(ctx, comment)

	if err := s.db.Preload("User").First(comment, "id = ?", comment.ID).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// attachAIResponse best-effort fills comment.AIResponse
func (s *CommentsService) attachAIResponse(ctx context.Context, comment *models.Comment) {
	if s.ai == nil {
		return
	}

	var player models.Player
	if err := s.db.First(&player, "id = ?", comment.PlayerID).Error; err != nil {
		log.Printf("AI reply skipped, player lookup failed: %v", err)
		return
	}
	var user models.User
	if err := s.db.First(&user, "id = ?", comment.UserID).Error; err != nil {
		log.Printf("AI reply skipped, user lookup failed: %v", err)
		return
	}

	text := s.ai.GenerateCommentResponse(ctx, comment.Content, player.Name, user.Username)
	if text == "" {
		return
	}

	now := time.Now()
	err := s.db.Model(comment).Updates(map[string]interface{}{
		"ai_response":     text,
		"ai_generated_at": now,
	}).Error
	if err != nil {
		log.Printf("Failed to persist AI reply for comment %s: %v", comment.ID, err)
		return
	}
	comment.AIResponse = text
	comment.AIGeneratedAt = &now
}

// Comment sort fields accepted by ListForPlayer and List
var validCommentSorts = map[string]string{
	"created_at":   "created_at ASC",
	"-created_at":  "created_at DESC",
	"likes_count":  "likes_count ASC, created_at DESC",
	"-likes_count": "likes_count DESC, created_at DESC",
}

// ListForPlayer returns a player's comments with the requested ordering.
// Unknown sort values fall back to newest-first.
func (s *CommentsService) ListForPlayer(playerID uuid.UUID, sortBy string, limit, offset int) ([]models.Comment, int64, error) {
	order, ok := validCommentSorts[sortBy]
	if !ok {
		order = validCommentSorts["-created_at"]
	}

	query := s.db.Model(&models.Comment{}).Where("player_id = ?", playerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	err := query.Order(order).Limit(limit).Offset(offset).Preload("User").Find(&comments).Error
	return comments, total, err
}

// List returns comments across all players, newest first, optionally
// filtered by player.
func (s *CommentsService) List(playerID *uuid.UUID, limit, offset int) ([]models.Comment, int64, error) {
	query := s.db.Model(&models.Comment{})
	if playerID != nil {
		query = query.Where("player_id = ?", *playerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []models.Comment
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).
		Preload("User").Preload("Player").Find(&comments).Error
	return comments, total, err
}

// Latest returns the newest comments across all players
func (s *CommentsService) Latest(limit int) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.Model(&models.Comment{}).
		Order("created_at DESC").
		Limit(limit).
		Preload("User").Preload("Player").
		Find(&comments).Error
	return comments, err
}

// ClubLatestItem pairs a club with the newest comment on any of its players
type ClubLatestItem struct {
	ClubID   uuid.UUID       `json:"club_id"`
	ClubName string          `json:"club_name"`
	Comment  *models.Comment `json:"comment"`
}

// ClubLatest returns, for every visible club, the latest comment written on
// one of its players. Clubs without comments report a nil comment.
func (s *CommentsService) ClubLatest() ([]ClubLatestItem, error) {
	var clubs []models.Club
	err := s.db.Model(&models.Club{}).
		Where("name <> ?", models.LoanClubName).
		Order("name ASC").
		Find(&clubs).Error
	if err != nil {
		return nil, err
	}

	items := make([]ClubLatestItem, 0, len(clubs))
	for _, club := range clubs {
		item := ClubLatestItem{ClubID: club.ID, ClubName: club.Name}

		var comment models.Comment
		result := s.db.Model(&models.Comment{}).
			Joins("JOIN players ON players.id = comments.player_id").
			Where("players.club_id = ?", club.ID).
			Order("comments.created_at DESC").
			Preload("User").Preload("Player").
			Limit(1).
			Find(&comment)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected > 0 {
			c := comment
			item.Comment = &c
		}
		items = append(items, item)
	}
	return items, nil
}

// ToggleLike flips the user's like on a comment and returns the new state
// with the updated count.
func (s *CommentsService) ToggleLike(commentID, userID uuid.UUID) (liked bool, likesCount int, err error) {
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, "id = ?", commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var existing int64
		if err := tx.Table("comment_likes").
			Where("comment_id = ? AND user_id = ?", commentID, userID).
			Count(&existing).Error; err != nil {
			return err
		}

		if existing > 0 {
			if err := tx.Exec("DELETE FROM comment_likes WHERE comment_id = ? AND user_id = ?", commentID, userID).Error; err != nil {
				return err
			}
			liked = false
		} else {
			if err := tx.Exec("INSERT INTO comment_likes (comment_id, user_id) VALUES (?, ?)", commentID, userID).Error; err != nil {
				return err
			}
			liked = true
		}

		// likes_count is a cached projection of the join table
		var count int64
		if err := tx.Table("comment_likes").Where("comment_id = ?", commentID).Count(&count).Error; err != nil {
			return err
		}
		likesCount = int(count)
		return tx.Model(&models.Comment{}).Where("id = ?", commentID).
			Update("likes_count", likesCount).Error
	})
	return liked, likesCount, err
}

// IsLikedBy reports whether the user currently likes the comment
func (s *CommentsService) IsLikedBy(commentID, userID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Table("comment_likes").
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Count(&count).Error
	return count > 0, err
}

// Delete removes a comment. Only the author or staff may delete.
func (s *CommentsService) Delete(commentID, userID uuid.UUID, isStaff bool) error {
	var comment models.Comment
	if err := s.db.First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if comment.UserID != userID && !isStaff {
		return ErrForbidden
	}
	return s.db.Delete(&comment).Error
}

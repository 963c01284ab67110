package handlers

import (
	"errors"
	"net/http"

	"grill-ekstraklasa/internal/auth"
	"grill-ekstraklasa/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentsHandler handles HTTP requests for the comments collection
type CommentsHandler struct {
	comments *services.CommentsService
}

// NewCommentsHandler creates a new comments handler
func NewCommentsHandler(db *gorm.DB) *CommentsHandler {
	return &CommentsHandler{comments: services.NewCommentsService(db, nil)}
}

// List handles GET /api/comments
func (h *CommentsHandler) List(c *gin.Context) {
	page, pageSize, offset := pageParams(c)

	var playerID *uuid.UUID
	if playerParam := c.Query("player_id"); playerParam != "" {
		id, err := uuid.Parse(playerParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid player_id filter"})
			return
		}
		playerID = &id
	}

	comments, total, err := h.comments.List(playerID, pageSize, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}
	c.JSON(http.StatusOK, paginated(total, page, pageSize, comments))
}

// Latest handles GET /api/comments/latest
func (h *CommentsHandler) Latest(c *gin.Context) {
	limit := limitParam(c, "limit", 5, maxPageSize)

	comments, err := h.comments.Latest(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": comments})
}

// ClubLatest handles GET /api/comments/club_latest
func (h *CommentsHandler) ClubLatest(c *gin.Context) {
	items, err := h.comments.ClubLatest()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": items})
}

// Like handles POST /api/comments/:id/like — toggles the caller's like
func (h *CommentsHandler) Like(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment id"})
		return
	}

	liked, likesCount, err := h.comments.ToggleLike(id, userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle like"})
		return
	}

	status := "Comment unliked"
	if liked {
		status = "Comment liked"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      status,
		"likes_count": likesCount,
	})
}

// Delete handles DELETE /api/comments/:id — author or staff only
func (h *CommentsHandler) Delete(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment id"})
		return
	}

	err = h.comments.Delete(id, userID, c.GetBool(auth.ContextIsStaff))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the author or staff may delete a comment"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

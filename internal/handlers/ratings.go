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

// RatingsHandler handles HTTP requests for the ratings collection
type RatingsHandler struct {
	ratings  *services.RatingsService
	throttle *services.ThrottleService
}

// NewRatingsHandler creates a new ratings handler
func NewRatingsHandler(db *gorm.DB, throttleConfig services.ThrottleConfig) *RatingsHandler {
	return &RatingsHandler{
		ratings:  services.NewRatingsService(db),
		throttle: services.NewThrottleService(db, throttleConfig),
	}
}

// List handles GET /api/ratings — the caller's own ratings
func (h *RatingsHandler) List(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	page, pageSize, offset := pageParams(c)

	var playerID *uuid.UUID
	if playerParam := c.Query("player"); playerParam != "" {
		id, err := uuid.Parse(playerParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid player filter"})
			return
		}
		playerID = &id
	}

	ratings, total, err := h.ratings.ListRatings(userID, playerID, pageSize, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ratings"})
		return
	}
	c.JSON(http.StatusOK, paginated(total, page, pageSize, ratings))
}

type createRatingRequest struct {
	PlayerID uuid.UUID `json:"player_id"`
	Value    int       `json:"value"`
}

// Create handles POST /api/ratings
func (h *RatingsHandler) Create(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	allowed, message, err := h.throttle.CheckRatingThrottle(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check rate limit"})
		return
	}
	if !allowed {
		c.Header(ThrottledHeader, "throttled")
		c.JSON(http.StatusTooManyRequests, gin.H{"detail": message})
		return
	}

	var req createRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PlayerID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player_id and value are required"})
		return
	}

	rating, err := h.ratings.RecordRating(req.PlayerID, userID, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRatingValue):
			c.JSON(http.StatusBadRequest, gin.H{"value": "Ocena musi być w zakresie 1-10"})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record rating"})
		}
		return
	}
	c.JSON(http.StatusCreated, rating)
}

// Delete handles DELETE /api/ratings/:id — owner or staff only
func (h *RatingsHandler) Delete(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rating id"})
		return
	}

	rating, err := h.ratings.GetRating(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Rating not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rating"})
		return
	}
	if rating.UserID != userID && !c.GetBool(auth.ContextIsStaff) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author or staff may delete a rating"})
		return
	}

	if err := h.ratings.DeleteRating(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete rating"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Recalculate handles POST /api/ratings/recalculate (staff only). Resyncs
// every player's cached aggregate from the ratings table.
func (h *RatingsHandler) Recalculate(c *gin.Context) {
	updated, err := h.ratings.RecalculateAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to recalculate ratings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

package handlers

import (
	"net/http"

	"grill-ekstraklasa/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RankingsHandler serves the public ranking boards and media feeds
type RankingsHandler struct {
	rankings *services.RankingsService
}

// NewRankingsHandler creates a new rankings handler
func NewRankingsHandler(db *gorm.DB) *RankingsHandler {
	return &RankingsHandler{rankings: services.NewRankingsService(db)}
}

// WeeklyDramas handles GET /api/dramaty-tygodnia
func (h *RankingsHandler) WeeklyDramas(c *gin.Context) {
	board, err := h.rankings.WeeklyDramas(3)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve weekly dramas"})
		return
	}
	c.JSON(http.StatusOK, board)
}

// LiveLowest handles GET /api/najnizsze-live
func (h *RankingsHandler) LiveLowest(c *gin.Context) {
	board, err := h.rankings.LiveLowestRatings(5)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve live ratings"})
		return
	}
	c.JSON(http.StatusOK, board)
}

// LatestMedia handles GET /api/latest-media
func (h *RankingsHandler) LatestMedia(c *gin.Context) {
	items, err := h.rankings.LatestMedia(12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve media"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// LatestCards handles GET /api/latest-cards
func (h *RankingsHandler) LatestCards(c *gin.Context) {
	limit := limitParam(c, "limit", 12, maxPageSize)

	players, err := h.rankings.LatestCards(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cards"})
		return
	}

	items := make([]gin.H, 0, len(players))
	for _, p := range players {
		item := gin.H{
			"player_name":     p.Name,
			"player_slug":     p.Slug,
			"card_image_url":  p.CardImageURL,
			"card_updated_at": p.CardUpdatedAt,
			"average_rating":  p.AverageRating,
		}
		if p.Club != nil {
			item["club_name"] = p.Club.Name
		}
		items = append(items, item)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// HealthCheck handles GET /health
func (h *RankingsHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "grill-ekstraklasa",
	})
}

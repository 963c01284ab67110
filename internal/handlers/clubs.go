package handlers

import (
	"errors"
	"net/http"

	"grill-ekstraklasa/internal/models"
	"grill-ekstraklasa/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClubsHandler handles HTTP requests for clubs
type ClubsHandler struct {
	db      *gorm.DB
	players *services.PlayersService
}

// NewClubsHandler creates a new clubs handler
func NewClubsHandler(db *gorm.DB) *ClubsHandler {
	return &ClubsHandler{db: db, players: services.NewPlayersService(db)}
}

// List handles GET /api/clubs
func (h *ClubsHandler) List(c *gin.Context) {
	var clubs []models.Club
	err := h.db.Where("name <> ?", models.LoanClubName).
		Order("name ASC").
		Find(&clubs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve clubs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": clubs})
}

// Get handles GET /api/clubs/:id
func (h *ClubsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid club id"})
		return
	}

	var club models.Club
	err = h.db.Where("id = ? AND name <> ?", id, models.LoanClubName).First(&club).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Club not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve club"})
		return
	}
	c.JSON(http.StatusOK, club)
}

// Players handles GET /api/clubs/:id/players
func (h *ClubsHandler) Players(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid club id"})
		return
	}

	players, err := h.players.ClubPlayers(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Club not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve players"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": players})
}

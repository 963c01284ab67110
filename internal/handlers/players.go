package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"grill-ekstraklasa/internal/ai"
	"grill-ekstraklasa/internal/auth"
	"grill-ekstraklasa/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ThrottledHeader marks 429 responses produced by the write-rate gate
const ThrottledHeader = "X-Error-Type"

// PlayersHandler handles HTTP requests for player resources
type PlayersHandler struct {
	players  *services.PlayersService
	ratings  *services.RatingsService
	comments *services.CommentsService
	media    *services.MediaService
	rankings *services.RankingsService
	throttle *services.ThrottleService
}

// NewPlayersHandler creates a new players handler
func NewPlayersHandler(db *gorm.DB, responder services.AIResponder, throttleConfig services.ThrottleConfig) *PlayersHandler {
	return &PlayersHandler{
		players:  services.NewPlayersService(db),
		ratings:  services.NewRatingsService(db),
		comments: services.NewCommentsService(db, responder),
		media:    services.NewMediaService(db),
		rankings: services.NewRankingsService(db),
		throttle: services.NewThrottleService(db, throttleConfig),
	}
}

// NewPlayersHandlerWithAI wires the default Gemini client from the
// environment.
func NewPlayersHandlerWithAI(db *gorm.DB) *PlayersHandler {
	return NewPlayersHandler(db, ai.NewClient(ai.LoadConfig()), services.LoadThrottleConfig())
}

// List handles GET /api/players
func (h *PlayersHandler) List(c *gin.Context) {
	page, pageSize, offset := pageParams(c)

	filters := services.PlayerFilters{
		Position: c.Query("position"),
		Name:     c.Query("name"),
	}
	if clubParam := c.Query("club"); clubParam != "" {
		clubID, err := uuid.Parse(clubParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid club filter"})
			return
		}
		filters.ClubID = &clubID
	}

	players, total, err := h.players.List(filters, pageSize, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve players"})
		return
	}
	c.JSON(http.StatusOK, paginated(total, page, pageSize, players))
}

// Get handles GET /api/players/:player — :player may be an id or a slug
func (h *PlayersHandler) Get(c *gin.Context) {
	player, err := h.players.GetByIDOrSlug(c.Param("player"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Nie znaleziono zawodnika o podanym identyfikatorze"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve player"})
		return
	}
	c.JSON(http.StatusOK, player)
}

// TopRated handles GET /api/players/top_rated
func (h *PlayersHandler) TopRated(c *gin.Context) {
	limit := limitParam(c, "limit", 5, maxPageSize)
	minRatings, err := strconv.Atoi(c.DefaultQuery("min_ratings", "3"))
	if err != nil || minRatings < 0 {
		minRatings = 3
	}

	players, err := h.rankings.TopRated(limit, minRatings)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve top rated players"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": players})
}

type rateRequest struct {
	Value int `json:"value"`
}

// Rate handles POST /api/players/:player/rate
func (h *PlayersHandler) Rate(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	player, err := h.players.GetByIDOrSlug(c.Param("player"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Nie znaleziono zawodnika o podanym identyfikatorze"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve player"})
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

	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	rating, err := h.ratings.RecordRating(player.ID, userID, req.Value)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRatingValue) {
			c.JSON(http.StatusBadRequest, gin.H{"value": "Ocena musi być w zakresie 1-10"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record rating"})
		return
	}
	c.JSON(http.StatusOK, rating)
}

type commentRequest struct {
	Content string `json:"content"`
}

// Comment handles POST /api/players/:player/comment
func (h *PlayersHandler) Comment(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	player, err := h.players.GetByIDOrSlug(c.Param("player"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Nie znaleziono zawodnika o podanym identyfikatorze"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve player"})
		return
	}

	allowed, message, err := h.throttle.CheckCommentThrottle(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check rate limit"})
		return
	}
	if !allowed {
		c.Header(ThrottledHeader, "throttled")
		c.JSON(http.StatusTooManyRequests, gin.H{"detail": message})
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	comment, err := h.comments.CreateComment(c.Request.Context(), player.ID, userID, req.Content)
	if err != nil {
		if errors.Is(err, services.ErrEmptyContent) {
			c.JSON(http.StatusBadRequest, gin.H{"content": "Treść komentarza jest wymagana"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Comments handles GET /api/players/:player/comments
func (h *PlayersHandler) Comments(c *gin.Context) {
	player, err := h.players.GetByIDOrSlug(c.Param("player"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Nie znaleziono zawodnika o podanym identyfikatorze"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve player"})
		return
	}

	page, pageSize, offset := pageParams(c)
	sortBy := c.DefaultQuery("sort_by", "-created_at")

	comments, total, err := h.comments.ListForPlayer(player.ID, sortBy, pageSize, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}
	c.JSON(http.StatusOK, paginated(total, page, pageSize, comments))
}

// Media handles GET /api/players/:player/media
func (h *PlayersHandler) Media(c *gin.Context) {
	player, err := h.players.GetByIDOrSlug(c.Param("player"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Nie znaleziono zawodnika o podanym identyfikatorze"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve player"})
		return
	}

	media, err := h.media.ListForPlayer(player.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve media"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": media})
}

type addMediaRequest struct {
	MediaType string `json:"media_type"`
	URL       string `json:"url"`
}

// AddMedia handles POST /api/players/:player/media (staff only)
func (h *PlayersHandler) AddMedia(c *gin.Context) {
	player, err := h.players.GetByIDOrSlug(c.Param("player"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Nie znaleziono zawodnika o podanym identyfikatorze"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve player"})
		return
	}

	var req addMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	media, err := h.media.AddMedia(player.ID, req.MediaType, req.URL)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidMediaType):
			c.JSON(http.StatusBadRequest, gin.H{"media_type": "Typ musi być gif lub tweet"})
		case errors.Is(err, services.ErrEmptyContent):
			c.JSON(http.StatusBadRequest, gin.H{"url": "Adres URL jest wymagany"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add media"})
		}
		return
	}
	c.JSON(http.StatusCreated, media)
}

// DeleteMedia handles DELETE /api/media/:id (staff only)
func (h *PlayersHandler) DeleteMedia(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid media id"})
		return
	}

	if err := h.media.DeleteMedia(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Media not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete media"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

package handlers

import (
	"log"
	"net/http"
	"time"

	"grill-ekstraklasa/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

// LiveHandler pushes the live lowest-ratings board to websocket subscribers.
// Each connection gets the current board immediately and then a refresh on
// every interval tick.
type LiveHandler struct {
	rankings *services.RankingsService
	upgrader websocket.Upgrader
	interval time.Duration
}

// NewLiveHandler creates a live board handler
func NewLiveHandler(db *gorm.DB, interval time.Duration) *LiveHandler {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &LiveHandler{
		rankings: services.NewRankingsService(db),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Same policy as the HTTP CORS middleware
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		interval: interval,
	}
}

// Serve handles GET /ws/live
func (h *LiveHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Live board upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Drain client frames so pings and close messages are processed
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.sendBoard(conn); err != nil {
		return
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-ticker.C:
			if err := h.sendBoard(conn); err != nil {
				return
			}
		}
	}
}

// sendBoard writes one board snapshot to the connection
func (h *LiveHandler) sendBoard(conn *websocket.Conn) error {
	board, err := h.rankings.LiveLowestRatings(5)
	if err != nil {
		log.Printf("Live board query failed: %v", err)
		return err
	}

	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(board)
}

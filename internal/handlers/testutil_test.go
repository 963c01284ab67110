package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"grill-ekstraklasa/internal/auth"
	"grill-ekstraklasa/internal/models"
	"grill-ekstraklasa/internal/services"

	"github.com/gin-gonic/gin"
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

// setupTestRouter wires the API routes the way the server does, minus the
// pieces the handler tests never touch (websocket, worker, docs).
func setupTestRouter(t *testing.T, db *gorm.DB) (*gin.Engine, *auth.TokenService) {
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenService("test-secret", time.Hour)
	players := NewPlayersHandler(db, nil, services.DefaultThrottleConfig())
	authHandler := NewAuthHandler(db, tokens)
	clubs := NewClubsHandler(db)
	comments := NewCommentsHandler(db)
	ratings := NewRatingsHandler(db, services.DefaultThrottleConfig())
	rankings := NewRankingsHandler(db)

	r := gin.New()
	api := r.Group("/api")
	api.Use(tokens.OptionalAuth())
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		api.GET("/clubs", clubs.List)
		api.GET("/clubs/:id", clubs.Get)
		api.GET("/clubs/:id/players", clubs.Players)

		api.GET("/players", players.List)
		api.GET("/players/top_rated", players.TopRated)
		api.GET("/players/:player", players.Get)
		api.GET("/players/:player/comments", players.Comments)
		api.GET("/players/:player/media", players.Media)
		api.POST("/players/:player/rate", tokens.RequireAuth(), players.Rate)
		api.POST("/players/:player/comment", tokens.RequireAuth(), players.Comment)
		api.POST("/players/:player/media", tokens.RequireAuth(), auth.RequireStaff(), players.AddMedia)

		api.GET("/comments", comments.List)
		api.GET("/comments/latest", comments.Latest)
		api.GET("/comments/club_latest", comments.ClubLatest)
		api.POST("/comments/:id/like", tokens.RequireAuth(), comments.Like)
		api.DELETE("/comments/:id", tokens.RequireAuth(), comments.Delete)

		api.POST("/ratings", tokens.RequireAuth(), ratings.Create)
		api.POST("/ratings/recalculate", tokens.RequireAuth(), auth.RequireStaff(), ratings.Recalculate)

		api.GET("/dramaty-tygodnia", rankings.WeeklyDramas)
		api.GET("/najnizsze-live", rankings.LiveLowest)
		api.GET("/latest-media", rankings.LatestMedia)
	}
	return r, tokens
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func testToken(t *testing.T, tokens *auth.TokenService, user models.User) string {
	token, err := tokens.Generate(user.ID, user.Username, user.IsStaff)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return token
}

func testPlayer(t *testing.T, db *gorm.DB, name string) models.Player {
	player := models.Player{Name: name, Position: models.PositionForward}
	if err := services.NewPlayersService(db).CreatePlayer(&player); err != nil {
		t.Fatalf("Failed to create player: %v", err)
	}
	return player
}

func testUser(t *testing.T, db *gorm.DB, username string, staff bool) models.User {
	user := models.User{Username: username, IsStaff: staff}
	if err := user.SetPassword("haslo123"); err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

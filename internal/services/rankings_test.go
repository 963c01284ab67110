package services

import (
	"context"
	"testing"
	"time"

	"grill-ekstraklasa/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestTopRatedOrderingAndMinRatings(t *testing.T) {
	db := setupTestDB(t)
	ratings := NewRatingsService(db)
	rankings := NewRankingsService(db)

	club := createClub(t, db, "Lech Poznań")
	good := createPlayer(t, db, "Adam Dobry", &club)
	better := createPlayer(t, db, "Bartek Lepszy", &club)
	fresh := createPlayer(t, db, "Celny Nowy", &club)
	user := createUser(t, db, "kibic1")

	for _, value := range []int{7, 7, 7} {
		if _, err := ratings.RecordRating(good.ID, user.ID, value); err != nil {
			t.Fatalf("Failed to record rating: %v", err)
		}
	}
	for _, value := range []int{9, 9, 9} {
		if _, err := ratings.RecordRating(better.ID, user.ID, value); err != nil {
			t.Fatalf("Failed to record rating: %v", err)
		}
	}
	// Only two ratings, below the min_ratings threshold
	for _, value := range []int{10, 10} {
		if _, err := ratings.RecordRating(fresh.ID, user.ID, value); err != nil {
			t.Fatalf("Failed to record rating: %v", err)
		}
	}

	players, err := rankings.TopRated(5, 3)
	if err != nil {
		t.Fatalf("TopRated failed: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("Expected 2 players, got %d", len(players))
	}
	assert.Equal(t, "Bartek Lepszy", players[0].Name)
	assert.Equal(t, "Adam Dobry", players[1].Name)
}

func TestTopRatedTieBreaksByName(t *testing.T) {
	db := setupTestDB(t)
	ratings := NewRatingsService(db)
	rankings := NewRankingsService(db)

	second := createPlayer(t, db, "Zenon Ostatni", nil)
	first := createPlayer(t, db, "Adam Pierwszy", nil)
	user := createUser(t, db, "kibic1")

	for _, p := range []models.Player{first, second} {
		if _, err := ratings.RecordRating(p.ID, user.ID, 8); err != nil {
			t.Fatalf("Failed to record rating: %v", err)
		}
	}

	players, err := rankings.TopRated(5, 1)
	if err != nil {
		t.Fatalf("TopRated failed: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("Expected 2 players, got %d", len(players))
	}
	assert.Equal(t, "Adam Pierwszy", players[0].Name)
}

func TestLiveLowestRatingsPadsWithUnratedPlayers(t *testing.T) {
	db := setupTestDB(t)
	ratings := NewRatingsService(db)
	rankings := NewRankingsService(db)

	club := createClub(t, db, "Górnik Zabrze")
	worst := createPlayer(t, db, "Marek Słaby", &club)
	createPlayer(t, db, "Adam Bez Ocen", &club)
	createPlayer(t, db, "Bartek Bez Ocen", &club)
	createPlayer(t, db, "Celina Bez Ocen", &club)
	createPlayer(t, db, "Darek Bez Ocen", &club)
	createPlayer(t, db, "Edek Bez Ocen", &club)
	user := createUser(t, db, "kibic1")

	if _, err := ratings.RecordRating(worst.ID, user.ID, 2); err != nil {
		t.Fatalf("Failed to record rating: %v", err)
	}

	board, err := rankings.LiveLowestRatings(5)
	if err != nil {
		t.Fatalf("LiveLowestRatings failed: %v", err)
	}
	if len(board.Items) != 5 {
		t.Fatalf("Expected board padded to 5 rows, got %d", len(board.Items))
	}

	assert.Equal(t, "Marek Słaby", board.Items[0].PlayerName)
	assert.Equal(t, 2.0, board.Items[0].AverageRating)

	// Fillers follow in name order with zero aggregates
	assert.Equal(t, "Adam Bez Ocen", board.Items[1].PlayerName)
	assert.Equal(t, 0.0, board.Items[1].AverageRating)
	assert.Equal(t, 0, board.Items[1].TotalRatings)
	assert.False(t, board.UpdatedAt.IsZero())
}

func TestLiveLowestRatingsExcludesLoanClub(t *testing.T) {
	db := setupTestDB(t)
	ratings := NewRatingsService(db)
	rankings := NewRankingsService(db)

	loan := createClub(t, db, models.LoanClubName)
	hidden := createPlayer(t, db, "Anonim Wypożyczony", &loan)
	visible := createPlayer(t, db, "Widoczny Zawodnik", nil)
	user := createUser(t, db, "kibic1")

	if _, err := ratings.RecordRating(hidden.ID, user.ID, 1); err != nil {
		t.Fatalf("Failed to record rating: %v", err)
	}
	if _, err := ratings.RecordRating(visible.ID, user.ID, 3); err != nil {
		t.Fatalf("Failed to record rating: %v", err)
	}

	board, err := rankings.LiveLowestRatings(5)
	if err != nil {
		t.Fatalf("LiveLowestRatings failed: %v", err)
	}
	for _, item := range board.Items {
		assert.NotEqual(t, "Anonim Wypożyczony", item.PlayerName, "loan players must never appear, rated or not")
	}
	if len(board.Items) != 1 {
		t.Fatalf("Expected only the visible player, got %d rows", len(board.Items))
	}
}

func TestWeeklyDramasWindowBoundaries(t *testing.T) {
	db := setupTestDB(t)
	rankings := NewRankingsService(db)

	// Fix "now" to a known Wednesday
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.Local)
	rankings.now = func() time.Time { return now }
	start, end := WeekBounds(now)

	inWeek := createPlayer(t, db, "Adam W Tygodniu", nil)
	lastSecond := createPlayer(t, db, "Bartek Ostatnia Sekunda", nil)
	outside := createPlayer(t, db, "Celny Poza Oknem", nil)
	user := createUser(t, db, "kibic1")

	createRatingAt(t, db, inWeek, user, 4, start.Add(time.Hour))
	createRatingAt(t, db, lastSecond, user, 2, end.Add(-time.Second)) // Sunday 23:59:59
	createRatingAt(t, db, outside, user, 1, end)                     // next Monday 00:00
	createRatingAt(t, db, outside, user, 1, start.Add(-time.Minute)) // previous week

	board, err := rankings.WeeklyDramas(2)
	if err != nil {
		t.Fatalf("WeeklyDramas failed: %v", err)
	}
	if len(board.Items) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(board.Items))
	}

	assert.Equal(t, "Bartek Ostatnia Sekunda", board.Items[0].Player.Name)
	assert.Equal(t, 2.0, board.Items[0].AverageRating)
	assert.Equal(t, 1, board.Items[0].TotalRatings)
	assert.Equal(t, "Adam W Tygodniu", board.Items[1].Player.Name)
}

func TestWeeklyDramasHighlightAndFillers(t *testing.T) {
	db := setupTestDB(t)
	rankings := NewRankingsService(db)
	comments := NewCommentsService(db, nil)

	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.Local)
	rankings.now = func() time.Time { return now }
	start, _ := WeekBounds(now)

	rated := createPlayer(t, db, "Marek Dramat", nil)
	createPlayer(t, db, "Adam Spokojny", nil)
	user := createUser(t, db, "kibic1")

	createRatingAt(t, db, rated, user, 3, start.Add(2*time.Hour))

	comment, err := comments.CreateComment(context.Background(), rated.ID, user.ID, "To był dramat")
	if err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}
	db.Model(&models.Comment{}).Where("id = ?", comment.ID).Update("created_at", start.Add(3*time.Hour))

	media := models.PlayerMedia{PlayerID: rated.ID, MediaType: models.MediaGIF, URL: "https://example.com/drama.gif"}
	if err := db.Create(&media).Error; err != nil {
		t.Fatalf("Failed to create media: %v", err)
	}

	board, err := rankings.WeeklyDramas(2)
	if err != nil {
		t.Fatalf("WeeklyDramas failed: %v", err)
	}
	if len(board.Items) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(board.Items))
	}

	first := board.Items[0]
	assert.Equal(t, "Marek Dramat", first.Player.Name)
	if assert.NotNil(t, first.HighlightComment) {
		assert.Equal(t, "To był dramat", first.HighlightComment.Content)
		assert.Equal(t, "kibic1", first.HighlightComment.Username)
	}
	if assert.NotNil(t, first.Media) {
		assert.Equal(t, models.MediaGIF, first.Media.Type)
	}

	// Fillers report zero aggregates and skip the comment/media lookups
	second := board.Items[1]
	assert.Equal(t, "Adam Spokojny", second.Player.Name)
	assert.Equal(t, 0.0, second.AverageRating)
	assert.Nil(t, second.HighlightComment)
	assert.Nil(t, second.Media)
}

func TestWeeklyDramasWeekLabel(t *testing.T) {
	db := setupTestDB(t)
	rankings := NewRankingsService(db)

	now := time.Date(2026, 1, 7, 10, 0, 0, 0, time.Local)
	rankings.now = func() time.Time { return now }

	board, err := rankings.WeeklyDramas(3)
	if err != nil {
		t.Fatalf("WeeklyDramas failed: %v", err)
	}
	assert.Equal(t, "Tydzień 2/2026", board.WeekLabel)
}

func TestWeekBounds(t *testing.T) {
	// A Wednesday
	wed := time.Date(2026, 8, 26, 15, 30, 0, 0, time.Local)
	start, end := WeekBounds(wed)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local), end)

	// Sunday belongs to the week that started the previous Monday
	sun := time.Date(2026, 8, 30, 23, 59, 59, 0, time.Local)
	start, end = WeekBounds(sun)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local), end)

	// Monday starts its own week
	mon := time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local)
	start, _ = WeekBounds(mon)
	assert.Equal(t, mon, start)
}

func TestLatestMediaSkipsLoanPlayers(t *testing.T) {
	db := setupTestDB(t)
	rankings := NewRankingsService(db)

	loan := createClub(t, db, models.LoanClubName)
	hidden := createPlayer(t, db, "Anonim Wypożyczony", &loan)
	visible := createPlayer(t, db, "Widoczny Zawodnik", nil)

	for _, m := range []models.PlayerMedia{
		{PlayerID: hidden.ID, MediaType: models.MediaGIF, URL: "https://example.com/hidden.gif"},
		{PlayerID: visible.ID, MediaType: models.MediaTweet, URL: "https://example.com/status/1"},
	} {
		if err := db.Create(&m).Error; err != nil {
			t.Fatalf("Failed to create media: %v", err)
		}
	}

	items, err := rankings.LatestMedia(12)
	if err != nil {
		t.Fatalf("LatestMedia failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 media item, got %d", len(items))
	}
	assert.Equal(t, "Widoczny Zawodnik", items[0].PlayerName)
	assert.Equal(t, models.MediaTweet, items[0].Type)
}

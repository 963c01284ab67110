package services

import (
	"context"
	"testing"
	"time"

	"grill-ekstraklasa/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockResponder struct {
	mock.Mock
}

func (m *mockResponder) GenerateCommentResponse(ctx context.Context, userComment, playerName, userName string) string {
	args := m.Called(ctx, userComment, playerName, userName)
	return args.String(0)
}

func TestCreateCommentAttachesAIResponse(t *testing.T) {
	db := setupTestDB(t)

	player := createPlayer(t, db, "Jan Kowalski", nil)
	user := createUser(t, db, "kibic1")

	responder := new(mockResponder)
	responder.On("GenerateCommentResponse", mock.Anything, "Słaby mecz", "Jan Kowalski", "kibic1").
		Return("No cóż, bywało lepiej.")

	service := NewCommentsService(db, responder)
	comment, err := service.CreateComment(context.Background(), player.ID, user.ID, "Słaby mecz")
	if err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}

	assert.Equal(t, "No cóż, bywało lepiej.", comment.AIResponse)
	assert.NotNil(t, comment.AIGeneratedAt)
	responder.AssertExpectations(t)
}

func TestCreateCommentSurvivesAIFailure(t *testing.T) {
	db := setupTestDB(t)

	player := createPlayer(t, db, "Jan Kowalski", nil)
	user := createUser(t, db, "kibic1")

	// An empty string is the responder's failure mode
	responder := new(mockResponder)
	responder.On("GenerateCommentResponse", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("")

	service := NewCommentsService(db, responder)
	comment, err := service.CreateComment(context.Background(), player.ID, user.ID, "Dramat")
	if err != nil {
		t.Fatalf("Comment creation must not depend on the AI call: %v", err)
	}

	assert.Empty(t, comment.AIResponse)
	assert.Nil(t, comment.AIGeneratedAt)

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateCommentWithoutResponder(t *testing.T) {
	db := setupTestDB(t)
	service := NewCommentsService(db, nil)

	player := createPlayer(t, db, "Jan Kowalski", nil)
	user := createUser(t, db, "kibic1")

	comment, err := service.CreateComment(context.Background(), player.ID, user.ID, "  Komentarz  ")
	if err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}
	assert.Equal(t, "Komentarz", comment.Content, "content should be trimmed")
	assert.Empty(t, comment.AIResponse)
	assert.Equal(t, "kibic1", comment.User.Username)
}

func TestCreateCommentRejectsEmptyContent(t *testing.T) {
	db := setupTestDB(t)
	service := NewCommentsService(db, nil)

	player := createPlayer(t, db, "Jan Kowalski", nil)
	user := createUser(t, db, "kibic1")

	_, err := service.CreateComment(context.Background(), player.ID, user.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestToggleLike(t *testing.T) {
	db := setupTestDB(t)
	service := NewCommentsService(db, nil)

	player := createPlayer(t, db, "Jan Kowalski", nil)
	author := createUser(t, db, "kibic1")
	fan := createUser(t, db, "kibic2")

	comment, err := service.CreateComment(context.Background(), player.ID, author.ID, "Dramat")
	if err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}

	liked, count, err := service.ToggleLike(comment.ID, fan.ID)
	if err != nil {
		t.Fatalf("ToggleLike failed: %v", err)
	}
	assert.True(t, liked)
	assert.Equal(t, 1, count)

	isLiked, err := service.IsLikedBy(comment.ID, fan.ID)
	if err != nil {
		t.Fatalf("IsLikedBy failed: %v", err)
	}
	assert.True(t, isLiked)

	liked, count, err = service.ToggleLike(comment.ID, fan.ID)
	if err != nil {
		t.Fatalf("ToggleLike failed: %v", err)
	}
	assert.False(t, liked)
	assert.Equal(t, 0, count)

	var refreshed models.Comment
	db.First(&refreshed, "id = ?", comment.ID)
	assert.Equal(t, 0, refreshed.LikesCount)
}

func TestToggleLikeUnknownComment(t *testing.T) {
	db := setupTestDB(t)
	service := NewCommentsService(db, nil)

	user := createUser(t, db, "kibic1")
	_, _, err := service.ToggleLike(uuid.New(), user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListForPlayerSortsByLikes(t *testing.T) {
	db := setupTestDB(t)
	service := NewCommentsService(db, nil)

	player := createPlayer(t, db, "Jan Kowalski", nil)
	author := createUser(t, db, "kibic1")
	fan := createUser(t, db, "kibic2")

	quiet, err := service.CreateComment(context.Background(), player.ID, author.ID, "Cichy komentarz")
	if err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}
	popular, err := service.CreateComment(context.Background(), player.ID, author.ID, "Popularny komentarz")
	if err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}
	if _, _, err := service.ToggleLike(popular.ID, fan.ID); err != nil {
		t.Fatalf("ToggleLike failed: %v", err)
	}

	comments, total, err := service.ListForPlayer(player.ID, "-likes_count", 20, 0)
	if err != nil {
		t.Fatalf("ListForPlayer failed: %v", err)
	}
	assert.Equal(t, int64(2), total)
	assert.Equal(t, popular.ID, comments[0].ID)
	assert.Equal(t, quiet.ID, comments[1].ID)
}

func TestClubLatest(t *testing.T) {
	db := setupTestDB(t)
	service := NewCommentsService(db, nil)

	commented := createClub(t, db, "Cracovia")
	silent := createClub(t, db, "Widzew Łódź")
	createClub(t, db, models.LoanClubName)

	player := createPlayer(t, db, "Jan Kowalski", &commented)
	user := createUser(t, db, "kibic1")

	older, err := service.CreateComment(context.Background(), player.ID, user.ID, "Starszy")
	if err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}
	newer, err := service.CreateComment(context.Background(), player.ID, user.ID, "Nowszy")
	if err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}
	db.Model(&models.Comment{}).Where("id = ?", older.ID).
		Update("created_at", newer.CreatedAt.Add(-24*time.Hour))

	items, err := service.ClubLatest()
	if err != nil {
		t.Fatalf("ClubLatest failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 clubs (loan club hidden), got %d", len(items))
	}

	byName := make(map[string]ClubLatestItem, len(items))
	for _, item := range items {
		byName[item.ClubName] = item
	}
	if assert.NotNil(t, byName["Cracovia"].Comment) {
		assert.Equal(t, "Nowszy", byName["Cracovia"].Comment.Content)
	}
	assert.Nil(t, byName[silent.Name].Comment)
}

func TestDeleteCommentPermissions(t *testing.T) {
	db := setupTestDB(t)
	service := NewCommentsService(db, nil)

	player := createPlayer(t, db, "Jan Kowalski", nil)
	author := createUser(t, db, "kibic1")
	stranger := createUser(t, db, "kibic2")
	staff := createUser(t, db, "admin")

	comment, err := service.CreateComment(context.Background(), player.ID, author.ID, "Do usunięcia")
	if err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}

	err = service.Delete(comment.ID, stranger.ID, false)
	assert.ErrorIs(t, err, ErrForbidden)

	if err := service.Delete(comment.ID, author.ID, false); err != nil {
		t.Fatalf("Author should be able to delete: %v", err)
	}

	second, err := service.CreateComment(context.Background(), player.ID, author.ID, "Też do usunięcia")
	if err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}
	if err := service.Delete(second.ID, staff.ID, true); err != nil {
		t.Fatalf("Staff should be able to delete: %v", err)
	}

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

package services

import (
	"fmt"
	"math"
	"time"

	"grill-ekstraklasa/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RankingsService produces the ranked player views: overall leaderboard,
// live lowest ratings, and the weekly dramas board.
type RankingsService struct {
	db *gorm.DB

	// now is overridable in tests
	now func() time.Time
}

// NewRankingsService creates a new rankings service
func NewRankingsService(db *gorm.DB) *RankingsService {
	return &RankingsService{db: db, now: time.Now}
}

// TopRated returns the best rated players with at least minRatings ratings,
// ordered by average rating descending then name ascending.
func (s *RankingsService) TopRated(limit, minRatings int) ([]models.Player, error) {
	var players []models.Player
	err := visiblePlayers(s.db.Model(&models.Player{})).
		Where("players.total_ratings >= ?", minRatings).
		Order("players.average_rating DESC, players.name ASC").
		Limit(limit).
		Preload("Club").
		Find(&players).Error
	return players, err
}

// LiveItem is one row of the live lowest-ratings board
type LiveItem struct {
	PlayerName    string  `json:"player_name"`
	PlayerSlug    string  `json:"player_slug"`
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
}

// LiveBoard is the live lowest-ratings response
type LiveBoard struct {
	UpdatedAt time.Time  `json:"updated_at"`
	Items     []LiveItem `json:"items"`
}

// LiveLowestRatings returns the `limit` worst-rated players. When fewer than
// `limit` players have ratings, the board is padded with unrated players
// (zero average, zero count) ordered by name, so it always holds exactly
// `limit` rows when enough players exist.
func (s *RankingsService) LiveLowestRatings(limit int) (*LiveBoard, error) {
	var rated []models.Player
	err := visiblePlayers(s.db.Model(&models.Player{})).
		Where("players.total_ratings >= 1").
		Order("players.average_rating ASC, players.name ASC").
		Limit(limit).
		Find(&rated).Error
	if err != nil {
		return nil, err
	}

	board := &LiveBoard{UpdatedAt: s.now(), Items: make([]LiveItem, 0, limit)}
	ratedIDs := make([]uuid.UUID, 0, len(rated))
	for _, p := range rated {
		ratedIDs = append(ratedIDs, p.ID)
		board.Items = append(board.Items, LiveItem{
			PlayerName:    p.Name,
			PlayerSlug:    p.Slug,
			AverageRating: p.AverageRating,
			TotalRatings:  p.TotalRatings,
		})
	}

	if missing := limit - len(board.Items); missing > 0 {
		fillers, err := s.fillerPlayers(ratedIDs, missing)
		if err != nil {
			return nil, err
		}
		for _, p := range fillers {
			board.Items = append(board.Items, LiveItem{
				PlayerName: p.Name,
				PlayerSlug: p.Slug,
			})
		}
	}
	return board, nil
}

// DramaPlayer identifies the player on a weekly dramas row
type DramaPlayer struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	PhotoURL    string    `json:"photo_url"`
	ClubName    string    `json:"club_name"`
	ClubLogoURL string    `json:"club_logo_url"`
}

// DramaComment is the highlighted comment attached to a weekly dramas row
type DramaComment struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// DramaMedia is the latest media item attached to a weekly dramas row
type DramaMedia struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// DramaItem is one row of the weekly dramas board
type DramaItem struct {
	Player           DramaPlayer   `json:"player"`
	AverageRating    float64       `json:"average_rating"`
	TotalRatings     int           `json:"total_ratings"`
	HighlightComment *DramaComment `json:"highlight_comment"`
	Media            *DramaMedia   `json:"media"`
}

// WeeklyBoard is the weekly dramas response
type WeeklyBoard struct {
	WeekLabel string      `json:"week_label"`
	Items     []DramaItem `json:"items"`
}

// weeklyRow carries the aggregate query result for one player
type weeklyRow struct {
	ID          uuid.UUID
	Name        string
	Slug        string
	PhotoURL    string
	ClubName    *string
	ClubLogoURL *string
	WeeklyAvg   float64
	WeeklyCount int
}

// WeeklyDramas ranks players by their average rating over the current ISO
// calendar week only, worst first. Rows below `limit` are padded with
// players not yet rated this week, reported with zero aggregates and no
// comment or media lookups.
func (s *RankingsService) WeeklyDramas(limit int) (*WeeklyBoard, error) {
	start, end := WeekBounds(s.now())

	var rows []weeklyRow
	err := visiblePlayers(s.db.Model(&models.Player{})).
		Select("players.id, players.name, players.slug, players.photo_url, "+
			"clubs.name AS club_name, clubs.logo_url AS club_logo_url, "+
			"AVG(ratings.value) AS weekly_avg, COUNT(ratings.id) AS weekly_count").
		Joins("JOIN ratings ON ratings.player_id = players.id AND ratings.created_at >= ? AND ratings.created_at < ?", start, end).
		Group("players.id, players.name, players.slug, players.photo_url, clubs.name, clubs.logo_url").
		Order("weekly_avg ASC, players.name ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	week, year := isoWeek(start)
	board := &WeeklyBoard{
		WeekLabel: fmt.Sprintf("Tydzień %d/%d", week, year),
		Items:     make([]DramaItem, 0, limit),
	}

	ratedIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ratedIDs = append(ratedIDs, row.ID)

		item := DramaItem{
			Player: DramaPlayer{
				ID:       row.ID,
				Name:     row.Name,
				Slug:     row.Slug,
				PhotoURL: row.PhotoURL,
			},
			AverageRating: math.Round(row.WeeklyAvg*100) / 100,
			TotalRatings:  row.WeeklyCount,
		}
		if row.ClubName != nil {
			item.Player.ClubName = *row.ClubName
		}
		if row.ClubLogoURL != nil {
			item.Player.ClubLogoURL = *row.ClubLogoURL
		}

		comment, err := s.highlightComment(row.ID, start, end)
		if err != nil {
			return nil, err
		}
		item.HighlightComment = comment

		media, err := s.latestPlayerMedia(row.ID)
		if err != nil {
			return nil, err
		}
		item.Media = media

		board.Items = append(board.Items, item)
	}

	if missing := limit - len(board.Items); missing > 0 {
		fillers, err := s.fillerPlayers(ratedIDs, missing)
		if err != nil {
			return nil, err
		}
		for _, p := range fillers {
			item := DramaItem{
				Player: DramaPlayer{
					ID:       p.ID,
					Name:     p.Name,
					Slug:     p.Slug,
					PhotoURL: p.PhotoURL,
				},
			}
			if p.Club != nil {
				item.Player.ClubName = p.Club.Name
				item.Player.ClubLogoURL = p.Club.LogoURL
			}
			board.Items = append(board.Items, item)
		}
	}
	return board, nil
}

// MediaItem is one row of the latest-media feed
type MediaItem struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	URL        string    `json:"url"`
	PlayerName string    `json:"player_name"`
	PlayerSlug string    `json:"player_slug"`
	Rating     float64   `json:"rating"`
}

// LatestMedia returns the newest media items across all visible players
func (s *RankingsService) LatestMedia(limit int) ([]MediaItem, error) {
	var media []models.PlayerMedia
	err := s.db.Model(&models.PlayerMedia{}).
		Joins("JOIN players ON players.id = player_media.player_id").
		Joins("LEFT JOIN clubs ON clubs.id = players.club_id").
		Where("clubs.name IS NULL OR clubs.name <> ?", models.LoanClubName).
		Order("player_media.created_at DESC").
		Limit(limit).
		Preload("Player").
		Find(&media).Error
	if err != nil {
		return nil, err
	}

	items := make([]MediaItem, 0, len(media))
	for _, m := range media {
		item := MediaItem{
			ID:   m.ID,
			Type: m.MediaType,
			URL:  m.URL,
		}
		if m.Player != nil {
			item.PlayerName = m.Player.Name
			item.PlayerSlug = m.Player.Slug
			item.Rating = m.Player.AverageRating
		}
		items = append(items, item)
	}
	return items, nil
}

// LatestCards returns the most recently refreshed player cards
func (s *RankingsService) LatestCards(limit int) ([]models.Player, error) {
	var players []models.Player
	err := visiblePlayers(s.db.Model(&models.Player{})).
		Where("players.card_image_url <> ''").
		Order("players.card_updated_at DESC").
		Limit(limit).
		Preload("Club").
		Find(&players).Error
	return players, err
}

// fillerPlayers returns visible players outside excludeIDs, ordered by name
func (s *RankingsService) fillerPlayers(excludeIDs []uuid.UUID, limit int) ([]models.Player, error) {
	query := visiblePlayers(s.db.Model(&models.Player{}))
	if len(excludeIDs) > 0 {
		query = query.Where("players.id NOT IN ?", excludeIDs)
	}

	var players []models.Player
	err := query.Order("players.name ASC").Limit(limit).Preload("Club").Find(&players).Error
	return players, err
}

// highlightComment prefers a comment from the current week, falling back to
// the player's most recent comment of any time. Nil when the player has none.
func (s *RankingsService) highlightComment(playerID uuid.UUID, start, end time.Time) (*DramaComment, error) {
	var comment models.Comment
	result := s.db.Model(&models.Comment{}).
		Where("player_id = ? AND created_at >= ? AND created_at < ?", playerID, start, end).
		Order("created_at DESC").
		Preload("User").
		Limit(1).
		Find(&comment)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		result = s.db.Model(&models.Comment{}).
			Where("player_id = ?", playerID).
			Order("created_at DESC").
			Preload("User").
			Limit(1).
			Find(&comment)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, nil
		}
	}

	highlight := &DramaComment{
		ID:        comment.ID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
	if comment.User != nil {
		highlight.Username = comment.User.Username
	}
	return highlight, nil
}

// latestPlayerMedia returns the player's newest media item, nil when none
func (s *RankingsService) latestPlayerMedia(playerID uuid.UUID) (*DramaMedia, error) {
	var media models.PlayerMedia
	result := s.db.Model(&models.PlayerMedia{}).
		Where("player_id = ?", playerID).
		Order("created_at DESC").
		Limit(1).
		Find(&media)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &DramaMedia{Type: media.MediaType, URL: media.URL}, nil
}

// WeekBounds returns the current ISO calendar week as the half-open interval
// [Monday 00:00, next Monday 00:00) in the local timezone of t.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	offset := (int(t.Weekday()) + 6) % 7 // days since Monday
	monday := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 7)
}

// isoWeek returns the ISO week number and week-based year of t
func isoWeek(t time.Time) (week, year int) {
	y, w := t.ISOWeek()
	return w, y
}

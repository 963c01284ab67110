package services

import (
	"errors"
	"fmt"
	"strings"

	"grill-ekstraklasa/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// positionOrder sorts rosters in pitch order GK, DF, MF, FW
const positionOrder = "CASE players.position WHEN 'GK' THEN 1 WHEN 'DF' THEN 2 WHEN 'MF' THEN 3 WHEN 'FW' THEN 4 ELSE 5 END"

// PlayersService handles player listing, lookup, and creation
type PlayersService struct {
	db *gorm.DB
}

// NewPlayersService creates a new players service
func NewPlayersService(db *gorm.DB) *PlayersService {
	return &PlayersService{db: db}
}

// PlayerFilters narrows the player listing
type PlayerFilters struct {
	ClubID   *uuid.UUID
	Position string // exact, case-insensitive
	Name     string // substring, case-insensitive
}

// visiblePlayers excludes the sentinel loan club from a players query.
// Players without a club stay visible.
func visiblePlayers(db *gorm.DB) *gorm.DB {
	return db.
		Joins("LEFT JOIN clubs ON clubs.id = players.club_id").
		Where("clubs.name IS NULL OR clubs.name <> ?", models.LoanClubName)
}

// List returns publicly visible players. With a club filter the roster is
// ordered GK, DF, MF, FW then name; otherwise by average rating descending.
func (s *PlayersService) List(filters PlayerFilters, limit, offset int) ([]models.Player, int64, error) {
	query := visiblePlayers(s.db.Model(&models.Player{}))

	if filters.ClubID != nil {
		query = query.Where("players.club_id = ?", *filters.ClubID)
	}
	if filters.Position != "" {
		query = query.Where("UPPER(players.position) = UPPER(?)", filters.Position)
	}
	if filters.Name != "" {
		query = query.Where("LOWER(players.name) LIKE ?", "%"+strings.ToLower(filters.Name)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filters.ClubID != nil {
		query = query.Order(positionOrder + ", players.name ASC")
	} else {
		query = query.Order("players.average_rating DESC, players.name ASC")
	}

	var players []models.Player
	err := query.Preload("Club").Limit(limit).Offset(offset).Find(&players).Error
	return players, total, err
}

// GetByIDOrSlug resolves a path value to a visible player: a parseable UUID
// looks up by id, anything else by slug.
func (s *PlayersService) GetByIDOrSlug(value string) (*models.Player, error) {
	query := visiblePlayers(s.db.Model(&models.Player{})).Preload("Club")

	if id, err := uuid.Parse(value); err == nil {
		query = query.Where("players.id = ?", id)
	} else {
		query = query.Where("players.slug = ?", value)
	}

	var player models.Player
	if err := query.First(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &player, nil
}

// ClubPlayers returns a club's roster in pitch order. The loan club always
// reports an empty roster.
func (s *PlayersService) ClubPlayers(clubID uuid.UUID) ([]models.Player, error) {
	var club models.Club
	if err := s.db.First(&club, "id = ?", clubID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if club.IsLoan() {
		return []models.Player{}, nil
	}

	var players []models.Player
	err := s.db.Model(&models.Player{}).
		Where("players.club_id = ?", clubID).
		Order(positionOrder + ", players.name ASC").
		Find(&players).Error
	return players, err
}

// CreatePlayer validates and stores a new player, generating a unique slug
// when none was supplied.
func (s *PlayersService) CreatePlayer(player *models.Player) error {
	if !models.ValidPosition(player.Position) {
		return ErrInvalidPosition
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if player.Slug == "" {
			slug, err := s.uniqueSlug(tx, player.Name)
			if err != nil {
				return err
			}
			player.Slug = slug
		}
		return tx.Create(player).Error
	})
}

// EnsureSlugs backfills slugs for players that are missing one. Returns the
// number of slugs generated.
func (s *PlayersService) EnsureSlugs() (int, error) {
	var players []models.Player
	if err := s.db.Where("slug IS NULL OR slug = ''").Find(&players).Error; err != nil {
		return 0, err
	}

	for i := range players {
		slug, err := s.uniqueSlug(s.db, players[i].Name)
		if err != nil {
			return i, err
		}
		if err := s.db.Model(&players[i]).Update("slug", slug).Error; err != nil {
			return i, err
		}
	}
	return len(players), nil
}

// uniqueSlug slugifies the name and disambiguates collisions with a numeric
// suffix: jan-kowalski, jan-kowalski-1, jan-kowalski-2, ...
func (s *PlayersService) uniqueSlug(tx *gorm.DB, name string) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = "player"
	}

	slug := base
	for counter := 1; ; counter++ {
		var count int64
		if err := tx.Model(&models.Player{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}

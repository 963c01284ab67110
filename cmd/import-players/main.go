package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"grill-ekstraklasa/internal/database"
	"grill-ekstraklasa/internal/models"
	"grill-ekstraklasa/internal/services"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// Imports club rosters from JSON files into the database, updating players
// that already exist (matched by name within the club).

type rosterFile struct {
	Club    string         `json:"club"`
	Players []rosterPlayer `json:"players"`
}

type rosterPlayer struct {
	Name        string `json:"name"`
	Position    string `json:"position"`
	Nationality string `json:"nationality"`
	DateOfBirth string `json:"date_of_birth"`
	HeightCM    int    `json:"height_cm"`
	WeightKG    int    `json:"weight_kg"`
	PhotoURL    string `json:"photo_url"`
}

func main() {
	var filePath = flag.String("file", "", "path to a specific JSON roster file")
	var importAll = flag.Bool("all", false, "import every JSON file from the data directory")
	var clubFilter = flag.String("club", "", "import only the named club's roster file")
	var createClubs = flag.Bool("create-clubs", false, "create clubs that don't exist yet")
	var removeMissing = flag.Bool("remove", false, "remove club players absent from the JSON file")
	var dataDir = flag.String("data", "data", "directory holding roster JSON files")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbConfig := database.LoadConfig()
	if err := database.Connect(dbConfig); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	files, err := resolveFiles(*filePath, *importAll, *clubFilter, *dataDir)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Found %d JSON file(s) to process", len(files))

	for _, file := range files {
		if err := importFile(database.DB, file, *createClubs, *removeMissing); err != nil {
			log.Fatalf("Import of %s failed: %v", file, err)
		}
	}
	log.Println("Import complete")
}

func resolveFiles(filePath string, importAll bool, clubFilter, dataDir string) ([]string, error) {
	switch {
	case importAll:
		files, err := filepath.Glob(filepath.Join(dataDir, "*.json"))
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no JSON files found in %s", dataDir)
		}
		return files, nil
	case filePath != "":
		return []string{filePath}, nil
	case clubFilter != "":
		candidate := filepath.Join(dataDir, strings.ReplaceAll(strings.ToLower(clubFilter), " ", "")+".json")
		if _, err := os.Stat(candidate); err == nil {
			return []string{candidate}, nil
		}
		return nil, fmt.Errorf("no roster file found for club %q", clubFilter)
	default:
		return nil, fmt.Errorf("one of -file, -all, or -club is required")
	}
}

func importFile(db *gorm.DB, path string, createClubs, removeMissing bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var roster rosterFile
	if err := json.Unmarshal(raw, &roster); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if roster.Club == "" {
		return fmt.Errorf("missing club name")
	}

	log.Printf("Importing %d players for %s", len(roster.Players), roster.Club)

	return db.Transaction(func(tx *gorm.DB) error {
		var club models.Club
		err := tx.Where("name = ?", roster.Club).First(&club).Error
		if err == gorm.ErrRecordNotFound {
			if !createClubs {
				return fmt.Errorf("club %q does not exist (use -create-clubs)", roster.Club)
			}
			club = models.Club{Name: roster.Club, City: roster.Club}
			if err := tx.Create(&club).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		players := services.NewPlayersService(tx)
		imported := make(map[string]bool, len(roster.Players))

		for _, entry := range roster.Players {
			if entry.Name == "" || !models.ValidPosition(entry.Position) {
				return fmt.Errorf("player %q has missing name or invalid position %q", entry.Name, entry.Position)
			}
			imported[entry.Name] = true

			var dob *time.Time
			if entry.DateOfBirth != "" {
				parsed, err := time.Parse("2006-01-02", entry.DateOfBirth)
				if err != nil {
					return fmt.Errorf("player %q has invalid date_of_birth: %w", entry.Name, err)
				}
				dob = &parsed
			}

			var existing models.Player
			err := tx.Where("name = ? AND club_id = ?", entry.Name, club.ID).First(&existing).Error
			switch {
			case err == gorm.ErrRecordNotFound:
				clubID := club.ID
				player := models.Player{
					Name:        entry.Name,
					Position:    entry.Position,
					ClubID:      &clubID,
					Nationality: entry.Nationality,
					DateOfBirth: dob,
					HeightCM:    entry.HeightCM,
					WeightKG:    entry.WeightKG,
					PhotoURL:    entry.PhotoURL,
				}
				if err := players.CreatePlayer(&player); err != nil {
					return err
				}
			case err != nil:
				return err
			default:
				updates := map[string]interface{}{
					"position":    entry.Position,
					"nationality": entry.Nationality,
					"height_cm":   entry.HeightCM,
					"weight_kg":   entry.WeightKG,
				}
				if dob != nil {
					updates["date_of_birth"] = dob
				}
				if entry.PhotoURL != "" {
					updates["photo_url"] = entry.PhotoURL
				}
				if err := tx.Model(&existing).Updates(updates).Error; err != nil {
					return err
				}
			}
		}

		if removeMissing {
			var current []models.Player
			if err := tx.Where("club_id = ?", club.ID).Find(&current).Error; err != nil {
				return err
			}
			for _, p := range current {
				if !imported[p.Name] {
					log.Printf("Removing %s (not in roster file)", p.Name)
					if err := tx.Delete(&p).Error; err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

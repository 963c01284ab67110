package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"grill-ekstraklasa/internal/database"
	"grill-ekstraklasa/internal/models"
	"grill-ekstraklasa/internal/services"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// Seeds the database with demo clubs, users, players, ratings, and comments.
// AI responses are left empty; run the server with GEMINI_API_KEY set to get
// real ones on new comments.

var clubNames = []string{
	"Legia Warszawa", "Lech Poznań", "Raków Częstochowa", "Pogoń Szczecin",
	"Widzew Łódź", "Górnik Zabrze", "Śląsk Wrocław", "Jagiellonia Białystok",
	"Cracovia", "Korona Kielce", "Piast Gliwice", "Zagłębie Lubin",
	"Radomiak Radom", "Lechia Gdańsk", "Arka Gdynia", "Motor Lublin",
	"Wisła Płock", "Termalica Nieciecza",
}

var firstNames = []string{
	"Jan", "Piotr", "Kacper", "Mateusz", "Michał", "Tomasz", "Bartek", "Adrian",
	"Kamil", "Maciej", "Łukasz", "Jakub", "Filip", "Szymon", "Damian", "Patryk",
}

var lastNames = []string{
	"Kowalski", "Nowak", "Wiśniewski", "Zieliński", "Wójcik", "Kaczmarek", "Mazur",
	"Krawczyk", "Dąbrowski", "Piotrowski", "Grabowski", "Pawłowski", "Michalski",
}

var nationalities = []string{"Polska", "Hiszpania", "Niemcy", "Czechy", "Słowacja", "Ukraina", "Serbia"}

var commentTemplates = []string{
	"To był mecz życia... ale nie jego.",
	"Biegał jakby miał piasek w butach.",
	"Pierwszy do memów, ostatni do piłki.",
	"Kibice już szykują mu kompilację wpadek.",
	"Z taką formą to tylko FIFA na easy.",
	"Dziś każdy kontakt z piłką był jak rzut karny w trybuny.",
	"Oglądanie tego było jak test cierpliwości.",
	"To był pokaz anty-futbolu.",
}

func main() {
	var playersPerClub = flag.Int("players-per-club", 16, "target roster size per club")
	var userCount = flag.Int("users", 50, "number of demo users")
	flag.Parse()

	log.Println("Grill Ekstraklasa database seeder")
	log.Println("=================================")

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

	rng := rand.New(rand.NewSource(42))
	db := database.DB

	clubs := seedClubs(db)
	users := seedUsers(db, *userCount)
	seedPlayers(db, rng, clubs, *playersPerClub)
	seedRatingsAndComments(db, rng, users)

	// Cached aggregates are rebuilt once at the end instead of per write
	ratings := services.NewRatingsService(db)
	updated, err := ratings.RecalculateAll()
	if err != nil {
		log.Fatal("Failed to recalculate aggregates:", err)
	}
	log.Printf("Aggregates recalculated for %d players", updated)
	log.Println("Seeding complete")
}

func seedClubs(db *gorm.DB) []models.Club {
	clubs := make([]models.Club, 0, len(clubNames))
	for _, name := range clubNames {
		var club models.Club
		err := db.Where(models.Club{Name: name}).
			Attrs(models.Club{City: lastWord(name)}).
			FirstOrCreate(&club).Error
		if err != nil {
			log.Fatal("Failed to seed club:", err)
		}
		clubs = append(clubs, club)
	}
	log.Printf("Clubs ready: %d", len(clubs))
	return clubs
}

func seedUsers(db *gorm.DB, count int) []models.User {
	users := make([]models.User, 0, count)
	for i := 1; i <= count; i++ {
		username := fmt.Sprintf("kibic%d", i)

		var user models.User
		err := db.Where("username = ?", username).First(&user).Error
		if err == gorm.ErrRecordNotFound {
			user = models.User{Username: username}
			if err := user.SetPassword("kibic123"); err != nil {
				log.Fatal("Failed to hash password:", err)
			}
			err = db.Create(&user).Error
		}
		if err != nil {
			log.Fatal("Failed to seed user:", err)
		}
		users = append(users, user)
	}
	log.Printf("Users ready: %d", len(users))
	return users
}

func seedPlayers(db *gorm.DB, rng *rand.Rand, clubs []models.Club, perClub int) {
	playersService := services.NewPlayersService(db)

	var existing []string
	db.Model(&models.Player{}).Pluck("name", &existing)
	taken := make(map[string]bool, len(existing))
	for _, name := range existing {
		taken[name] = true
	}

	created := 0
	for _, club := range clubs {
		var current int64
		db.Model(&models.Player{}).Where("club_id = ?", club.ID).Count(&current)

		for i := int(current); i < perClub; i++ {
			name := randomName(rng, taken)
			taken[name] = true

			clubID := club.ID
			player := models.Player{
				Name:        name,
				Position:    models.Positions[i%len(models.Positions)],
				ClubID:      &clubID,
				Nationality: nationalities[rng.Intn(len(nationalities))],
			}
			if err := playersService.CreatePlayer(&player); err != nil {
				log.Fatal("Failed to seed player:", err)
			}
			created++
		}
	}
	log.Printf("Players created: %d", created)
}

func seedRatingsAndComments(db *gorm.DB, rng *rand.Rand, users []models.User) {
	var players []models.Player
	if err := db.Find(&players).Error; err != nil {
		log.Fatal("Failed to load players:", err)
	}

	now := time.Now()
	weekStart, weekEnd := services.WeekBounds(now)

	for idx, player := range players {
		targetRatings := 8 + rng.Intn(11)
		var current int64
		db.Model(&models.Rating{}).Where("player_id = ?", player.ID).Count(&current)

		// Give roughly the first 40 players one rating inside the
		// current week so the weekly dramas board has material
		weeklyRatings := 0
		if idx < 40 {
			weeklyRatings = 1
		}

		for r := int(current); r < targetRatings; r++ {
			rating := models.Rating{
				PlayerID: player.ID,
				UserID:   users[rng.Intn(len(users))].ID,
				Value:    1 + rng.Intn(10),
			}
			if err := db.Create(&rating).Error; err != nil {
				log.Fatal("Failed to seed rating:", err)
			}

			createdAt := randomTime(rng, now.AddDate(0, 0, -30), now)
			if r < weeklyRatings {
				createdAt = randomTime(rng, weekStart, weekEnd.Add(-time.Second))
			}
			db.Model(&models.Rating{}).Where("id = ?", rating.ID).Update("created_at", createdAt)
		}

		targetComments := 2 + rng.Intn(4)
		var currentComments int64
		db.Model(&models.Comment{}).Where("player_id = ?", player.ID).Count(&currentComments)

		weeklyComments := 0
		if idx < 40 {
			weeklyComments = 1
		}

		for c := int(currentComments); c < targetComments; c++ {
			comment := models.Comment{
				PlayerID: player.ID,
				UserID:   users[rng.Intn(len(users))].ID,
				Content:  commentTemplates[rng.Intn(len(commentTemplates))],
			}
			if err := db.Create(&comment).Error; err != nil {
				log.Fatal("Failed to seed comment:", err)
			}

			createdAt := randomTime(rng, now.AddDate(0, 0, -30), now)
			if c < weeklyComments {
				createdAt = randomTime(rng, weekStart, weekEnd.Add(-time.Second))
			}
			db.Model(&models.Comment{}).Where("id = ?", comment.ID).
				Updates(map[string]interface{}{"created_at": createdAt, "updated_at": createdAt})
		}
	}
	log.Println("Ratings and comments seeded")
}

func randomName(rng *rand.Rand, taken map[string]bool) string {
	for attempt := 0; ; attempt++ {
		name := firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))]
		if !taken[name] || attempt >= 10 {
			return name
		}
	}
}

func randomTime(rng *rand.Rand, start, end time.Time) time.Time {
	delta := end.Sub(start)
	if delta <= 0 {
		return start
	}
	return start.Add(time.Duration(rng.Int63n(int64(delta))))
}

func lastWord(s string) string {
	words := []rune(s)
	for i := len(words) - 1; i >= 0; i-- {
		if words[i] == ' ' {
			return string(words[i+1:])
		}
	}
	return s
}

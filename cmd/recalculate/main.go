package main

import (
	"flag"
	"log"

	"grill-ekstraklasa/internal/database"
	"grill-ekstraklasa/internal/services"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Recalculates the cached average_rating/total_ratings of every player (or a
// single player with -player) from the ratings table. Useful after data
// migrations or to repair drift.
func main() {
	var playerID = flag.String("player", "", "player id to recalculate (default: all players)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbConfig := database.LoadConfig()
	if err := database.Connect(dbConfig); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	ratings := services.NewRatingsService(database.DB)

	if *playerID != "" {
		id, err := uuid.Parse(*playerID)
		if err != nil {
			log.Fatalf("Invalid player id %q: %v", *playerID, err)
		}
		if err := ratings.RecomputeAggregate(id); err != nil {
			log.Fatal("Failed to recalculate player:", err)
		}
		log.Printf("Recalculated ratings for player %s", id)
		return
	}

	updated, err := ratings.RecalculateAll()
	if err != nil {
		log.Fatalf("Failed after %d players: %v", updated, err)
	}
	log.Printf("Successfully recalculated ratings for %d players", updated)
}

// Command main runs the database seeder for Confessio.
package main

import (
	"flag"
	"log"

	"confessio/internal/config"
	"confessio/internal/database"
	"confessio/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numIdentities := flag.Int("identities", 25, "Number of anonymous identities to create")
	numConfessions := flag.Int("confessions", 80, "Number of top-level confessions to create")
	numReplies := flag.Int("replies", 120, "Number of replies to create")
	numVotes := flag.Int("votes", 400, "Number of votes to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	_ = godotenv.Load()

	log.Println("Database Seeder")
	log.Println("===============")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(database.DB)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.Seed(seed.Options{
		NumIdentities:  *numIdentities,
		NumConfessions: *numConfessions,
		NumReplies:     *numReplies,
		NumVotes:       *numVotes,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Done")
}

// Command main populates the database with fake users, posts and
// responses for local development.
package main

import (
	"flag"
	"log"

	"guildboard/internal/config"
	"guildboard/internal/database"
	"guildboard/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "number of users to create")
	numPosts := flag.Int("posts", 60, "number of posts to create")
	clean := flag.Bool("clean", false, "delete existing board data first")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	seeder := seed.NewSeeder(db)
	if *clean {
		if err := seeder.ClearAll(); err != nil {
			log.Fatalf("Failed to clear existing data: %v", err)
		}
		log.Println("Cleared existing board data")
	}

	if err := seeder.SeedBoard(*numUsers, *numPosts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users and %d posts (password for all users: %q)", *numUsers, *numPosts, seed.DefaultPassword)
}

package seed

import (
	"fmt"
	"log"

	"guildboard/internal/models"

	"gorm.io/gorm"
)

// Seeder orchestrates the factories into a populated board.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes all seeded content. Categories and groups come from
// fixtures and stay in place.
func (s *Seeder) ClearAll() error {
	tables := []string{"responses", "posts", "category_users", "user_groups", "profiles", "users"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	log.Println("cleared existing board data")
	return nil
}

// SeedBoard creates numUsers accounts and numPosts posts with subscriptions
// and responses sprinkled across the fixture categories.
func (s *Seeder) SeedBoard(numUsers, numPosts int) error {
	var categories []*models.Category
	if err := s.db.Find(&categories).Error; err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	if len(categories) == 0 {
		return fmt.Errorf("no categories found, run migrations first")
	}

	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)

		// Every user follows a couple of random categories.
		for _, idx := range s.factory.rng.Perm(len(categories))[:minInt(2, len(categories))] {
			if err := s.factory.Subscribe(user, categories[idx]); err != nil {
				return fmt.Errorf("subscribe user: %w", err)
			}
		}
	}
	log.Printf("created %d users", len(users))

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		category := categories[s.factory.rng.Intn(len(categories))]
		post, err := s.factory.CreatePost(author, category, 30)
		if err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("created %d posts", len(posts))

	responses := 0
	for _, post := range posts {
		for i := 0; i < s.factory.rng.Intn(4); i++ {
			responder := users[s.factory.rng.Intn(len(users))]
			if _, err := s.factory.CreateResponse(responder, post); err != nil {
				return fmt.Errorf("create response: %w", err)
			}
			responses++
		}
	}
	log.Printf("created %d responses", responses)

	return nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

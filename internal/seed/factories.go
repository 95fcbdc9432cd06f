// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"guildboard/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the plaintext password of every seeded account.
const DefaultPassword = "password123"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a verified user in the authors group,
// together with their profile. Optional override functions may modify the
// generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	var group models.Group
	if err := f.db.Where(models.Group{Name: models.GroupAuthors}).FirstOrCreate(&group).Error; err != nil {
		return nil, err
	}

	user := &models.User{
		Username:      fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), gofakeit.Number(100, 999)),
		Email:         gofakeit.Email(),
		Password:      string(hashed),
		FirstName:     gofakeit.FirstName(),
		LastName:      gofakeit.LastName(),
		EmailVerified: true,
		Groups:        []models.Group{group},
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}

	gender := "male"
	if f.rng.Intn(2) == 0 {
		gender = "female"
	}
	profile := &models.Profile{UserID: user.ID, Gender: gender}
	if err := f.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost persists a post authored by the user's profile under the given
// category, with a creation time spread over the past maxDays days.
func (f *Factory) CreatePost(user *models.User, category *models.Category, maxDays int) (*models.Post, error) {
	var profile models.Profile
	if err := f.db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		return nil, err
	}

	if maxDays <= 0 {
		maxDays = 30
	}
	back := time.Duration(f.rng.Intn(maxDays*24*60)) * time.Minute

	// Titles must start uppercase and texts must be long enough to pass
	// the posting rules.
	title := capitalize(gofakeit.HackerVerb() + " " + gofakeit.BuzzWord())
	post := &models.Post{
		AuthorID:   profile.ID,
		CategoryID: category.ID,
		Title:      title,
		Text:       gofakeit.Paragraph(1, 3, 8, " "),
		CreatedAt:  time.Now().Add(-back),
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateResponse persists a response by the user on the post. Roughly a
// third of generated responses are already moderated.
func (f *Factory) CreateResponse(user *models.User, post *models.Post) (*models.Response, error) {
	status := models.ResponseStatusPending
	switch f.rng.Intn(6) {
	case 0:
		status = models.ResponseStatusAccepted
	case 1:
		status = models.ResponseStatusRejected
	}

	text := gofakeit.HipsterWord() + " " + gofakeit.BuzzWord()
	if len(text) > 50 {
		text = text[:50]
	}
	response := &models.Response{
		PostID: post.ID,
		UserID: user.ID,
		Text:   text,
		Status: status,
	}
	if err := f.db.Create(response).Error; err != nil {
		return nil, err
	}
	return response, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Subscribe adds the user to the category's subscribers, ignoring duplicates.
func (f *Factory) Subscribe(user *models.User, category *models.Category) error {
	return f.db.Exec(
		"INSERT INTO category_users (category_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		category.ID, user.ID,
	).Error
}

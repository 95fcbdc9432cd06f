package server

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"guildboard/internal/config"
	"guildboard/internal/database"
	"guildboard/internal/models"
	"guildboard/internal/notify"
	"guildboard/internal/repository"
	"guildboard/internal/service"
	"guildboard/internal/testutil"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

// newTestServer wires a Server onto an in-memory database with all outbound
// email captured by the returned recorder. Notifications are delivered
// synchronously; there is no queue in tests.
func newTestServer(t *testing.T, db *gorm.DB) (*Server, *testutil.MailRecorder) {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:  "test-secret-test-secret-test-secret",
		SiteDomain: "board.test",
		Env:        "test",
		AvatarDir:  t.TempDir(),
	}
	mailer := &testutil.MailRecorder{}

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	postRepo := repository.NewPostRepository(db)
	responseRepo := repository.NewResponseRepository(db)

	dispatcher := notify.NewDispatcher(nil, mailer, categoryRepo, postRepo, cfg.SiteDomain)

	s := &Server{
		config:          cfg,
		db:              db,
		userRepo:        userRepo,
		profileRepo:     profileRepo,
		categoryRepo:    categoryRepo,
		postRepo:        postRepo,
		responseRepo:    responseRepo,
		mailer:          mailer,
		dispatcher:      dispatcher,
		postService:     service.NewPostService(postRepo, profileRepo, categoryRepo, userRepo, dispatcher),
		responseService: service.NewResponseService(responseRepo, postRepo, profileRepo, userRepo, mailer),
		categoryService: service.NewCategoryService(categoryRepo),
		profileService:  service.NewProfileService(profileRepo, userRepo, cfg.AvatarDir),
	}
	return s, mailer
}

// createAuthor inserts a verified user in the authors group together with
// their profile.
func createAuthor(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	var group models.Group
	if err := db.Where(models.Group{Name: models.GroupAuthors}).FirstOrCreate(&group).Error; err != nil {
		t.Fatalf("ensure authors group: %v", err)
	}
	user := &models.User{
		Username:      username,
		Email:         username + "@example.com",
		Password:      "pw",
		EmailVerified: true,
		Groups:        []models.Group{group},
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	profile := &models.Profile{UserID: user.ID, Gender: "male"}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("create profile for %s: %v", username, err)
	}
	return user
}

func createCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category %s: %v", name, err)
	}
	return category
}

func createPost(t *testing.T, db *gorm.DB, author *models.User, category *models.Category, title, text string) *models.Post {
	t.Helper()
	var profile models.Profile
	if err := db.Where("user_id = ?", author.ID).First(&profile).Error; err != nil {
		t.Fatalf("load profile: %v", err)
	}
	post := &models.Post{
		AuthorID:   profile.ID,
		CategoryID: category.ID,
		Title:      title,
		Text:       text,
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

func subscribe(t *testing.T, db *gorm.DB, category *models.Category, user *models.User) {
	t.Helper()
	if err := db.Create(&models.CategoryUser{CategoryID: category.ID, UserID: user.ID}).Error; err != nil {
		t.Fatalf("subscribe user %d: %v", user.ID, err)
	}
}

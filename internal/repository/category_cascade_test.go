package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"guildboard/internal/cache"
	"guildboard/internal/database"
	"guildboard/internal/models"
)

func setupSqliteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func TestCategoryRepository_DeleteCascades(t *testing.T) {
	db := setupSqliteDB(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer cache.SetClient(nil)

	user := &models.User{Username: "seller", Email: "seller@example.com", Password: "pw"}
	require.NoError(t, db.Create(user).Error)
	profile := &models.Profile{UserID: user.ID, Gender: models.GenderMale}
	require.NoError(t, db.Create(profile).Error)

	category := &models.Category{Name: "vendor"}
	require.NoError(t, db.Create(category).Error)
	keeper := &models.Category{Name: "tank"}
	require.NoError(t, db.Create(keeper).Error)

	post := &models.Post{AuthorID: profile.ID, CategoryID: category.ID, Title: "Selling sword", Text: "Sharp, lightly used blade"}
	require.NoError(t, db.Create(post).Error)
	keptPost := &models.Post{AuthorID: profile.ID, CategoryID: keeper.ID, Title: "Shield wanted", Text: "Looking for a sturdy shield"}
	require.NoError(t, db.Create(keptPost).Error)

	response := &models.Response{PostID: post.ID, UserID: user.ID, Text: "I will take it", Status: models.ResponseStatusPending}
	require.NoError(t, db.Create(response).Error)
	require.NoError(t, db.Create(&models.CategoryUser{CategoryID: category.ID, UserID: user.ID}).Error)

	// A cached detail page for the doomed post must not survive the delete.
	require.NoError(t, mr.Set(cache.PostKey(post.ID), "cached detail"))
	require.NoError(t, mr.Set(cache.PostKey(keptPost.ID), "cached detail"))

	repo := NewCategoryRepository(db)
	require.NoError(t, repo.Delete(ctx, category.ID))

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Where("id = ?", category.ID).Count(&count).Error)
	assert.Zero(t, count, "category row removed")
	require.NoError(t, db.Model(&models.Post{}).Where("category_id = ?", category.ID).Count(&count).Error)
	assert.Zero(t, count, "posts removed")
	require.NoError(t, db.Model(&models.Response{}).Count(&count).Error)
	assert.Zero(t, count, "responses removed with their posts")
	require.NoError(t, db.Model(&models.CategoryUser{}).Where("category_id = ?", category.ID).Count(&count).Error)
	assert.Zero(t, count, "subscriptions removed")

	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", keptPost.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "posts in other categories survive")

	assert.False(t, mr.Exists(cache.PostKey(post.ID)), "deleted post's cache entry invalidated")
	assert.True(t, mr.Exists(cache.PostKey(keptPost.ID)), "unrelated cache entries untouched")
}

package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guildboard/internal/models"
)

// authedApp returns a Fiber app where every request runs as the given user.
func authedApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestCreatePostNotifiesSubscribers(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	s, mailer := newTestServer(t, db)

	author := createAuthor(t, db, "seller")
	subA := createAuthor(t, db, "sub_a")
	subB := createAuthor(t, db, "sub_b")
	category := createCategory(t, db, "merchant")
	subscribe(t, db, category, subA)
	subscribe(t, db, category, subB)

	app := authedApp(author.ID)
	app.Post("/posts", s.CreatePost)

	resp := postJSON(t, app, "/posts", map[string]any{
		"category_id": category.ID,
		"title":       "Selling a tower shield",
		"text":        "Barely used, two dents only",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	sent := mailer.ByKind("post_created")
	require.Len(t, sent, 2, "every subscriber gets exactly one email")
	recipients := map[string]bool{sent[0].To: true, sent[1].To: true}
	assert.True(t, recipients["sub_a@example.com"])
	assert.True(t, recipients["sub_b@example.com"])
}

func TestCreatePostValidation(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	s, _ := newTestServer(t, db)
	author := createAuthor(t, db, "seller")
	category := createCategory(t, db, "tank")

	app := authedApp(author.ID)
	app.Post("/posts", s.CreatePost)

	tests := []struct {
		name  string
		title string
		text  string
	}{
		{"lowercase title", "selling shield", "Barely used, two dents only"},
		{"short text", "Selling shield", "too short"},
		{"title equals text", "Selling my shield now", "Selling my shield now"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, app, "/posts", map[string]any{
				"category_id": category.ID,
				"title":       tt.title,
				"text":        tt.text,
			})
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreatePostRequiresAuthorsGroup(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	s, _ := newTestServer(t, db)
	category := createCategory(t, db, "healer")

	outsider := &models.User{Username: "outsider", Email: "outsider@example.com", Password: "pw", EmailVerified: true}
	require.NoError(t, db.Create(outsider).Error)

	app := authedApp(outsider.ID)
	app.Post("/posts", s.CreatePost)

	resp := postJSON(t, app, "/posts", map[string]any{
		"category_id": category.ID,
		"title":       "Selling a shield",
		"text":        "Barely used, two dents only",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGetPostsByCategory(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	s, _ := newTestServer(t, db)

	author := createAuthor(t, db, "seller")
	tank := createCategory(t, db, "tank")
	healer := createCategory(t, db, "healer")
	createPost(t, db, author, tank, "Tank post", "Looking for a sturdy tank")
	createPost(t, db, author, healer, "Healer post", "Looking for a patient healer")

	app := fiber.New()
	app.Get("/posts", s.GetPosts)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/posts?category=%d", tank.ID), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "Tank post", posts[0].Title)
}

func TestUpdatePostByStranger(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	s, _ := newTestServer(t, db)

	author := createAuthor(t, db, "seller")
	stranger := createAuthor(t, db, "stranger")
	category := createCategory(t, db, "merchant")
	post := createPost(t, db, author, category, "Selling shield", "Barely used, two dents only")

	app := authedApp(stranger.ID)
	app.Put("/posts/:id", s.UpdatePost)

	body, _ := json.Marshal(map[string]any{"title": "Hijacked title", "text": "This is not your post at all"})
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/posts/%d", post.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDeletePostRemovesResponses(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	s, _ := newTestServer(t, db)

	author := createAuthor(t, db, "seller")
	responder := createAuthor(t, db, "responder")
	category := createCategory(t, db, "merchant")
	post := createPost(t, db, author, category, "Selling shield", "Barely used, two dents only")
	require.NoError(t, db.Create(&models.Response{
		PostID: post.ID, UserID: responder.ID, Text: "I want it", Status: models.ResponseStatusPending,
	}).Error)

	app := authedApp(author.ID)
	app.Delete("/posts/:id", s.DeletePost)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/posts/%d", post.ID), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var postCount, responseCount int64
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	require.NoError(t, db.Model(&models.Response{}).Count(&responseCount).Error)
	assert.Zero(t, postCount)
	assert.Zero(t, responseCount, "responses go with their post")
}

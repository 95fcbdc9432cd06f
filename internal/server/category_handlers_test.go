package server

import (
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

func TestSubscribeIsIdempotent(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	s, _ := newTestServer(t, db)

	user := createAuthor(t, db, "reader")
	category := createCategory(t, db, "quest giver")

	app := authedApp(user.ID)
	app.Post("/categories/:id/subscribe", s.SubscribeCategory)

	for i := 0; i < 2; i++ {
		resp := postJSON(t, app, fmt.Sprintf("/categories/%d/subscribe", category.ID), nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	var count int64
	require.NoError(t, db.Model(&models.CategoryUser{}).
		Where("category_id = ? AND user_id = ?", category.ID, user.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count, "duplicate subscribe must not add a second row")
}

func TestSubscribeUnknownCategory(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	s, _ := newTestServer(t, db)
	user := createAuthor(t, db, "reader")

	app := authedApp(user.ID)
	app.Post("/categories/:id/subscribe", s.SubscribeCategory)

	resp := postJSON(t, app, "/categories/999/subscribe", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetMySubscriptions(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	s, _ := newTestServer(t, db)

	user := createAuthor(t, db, "reader")
	tank := createCategory(t, db, "tank")
	createCategory(t, db, "healer")
	subscribe(t, db, tank, user)

	app := authedApp(user.ID)
	app.Get("/categories/subscriptions", s.GetMySubscriptions)

	req := httptest.NewRequest(http.MethodGet, "/categories/subscriptions", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var categories []models.Category
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&categories))
	require.Len(t, categories, 1)
	assert.Equal(t, "tank", categories[0].Name)
}

func TestGetCategories(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	s, _ := newTestServer(t, db)
	createCategory(t, db, "tank")
	createCategory(t, db, "merchant")

	app := fiber.New()
	app.Get("/categories", s.GetCategories)

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var categories []models.Category
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&categories))
	assert.Len(t, categories, 2)
}

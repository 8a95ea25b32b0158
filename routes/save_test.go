package routes

import (
	"net/http"
	"testing"
	"time"

	"recipebook/models"

	"github.com/stretchr/testify/require"
)

func TestSaveRecipe_MissingID(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.createUser("ana", "ana@example.com", "longenough")

	w := env.jsonRequest(http.MethodPost, "/api/save", map[string]any{}, cookie)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveRecipe_UnknownRecipe(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.createUser("ana", "ana@example.com", "longenough")

	w := env.jsonRequest(http.MethodPost, "/api/save", map[string]any{"recipeId": 9999}, cookie)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaveRecipe_SecondSaveRejected(t *testing.T) {
	env := newTestEnv(t)
	user, cookie := env.createUser("ana", "ana@example.com", "longenough")
	recipe := env.createRecipe("Omelette", "Breakfast", []string{"egg"}, []string{"fry"}, time.Now())

	w := env.jsonRequest(http.MethodPost, "/api/save", map[string]any{"recipeId": recipe.ID}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.jsonRequest(http.MethodPost, "/api/save", map[string]any{"recipeId": recipe.ID}, cookie)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.SavedRecipe{}).
		Where("user_id = ? AND recipe_id = ?", user.ID, recipe.ID).
		Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestUnsaveRecipe_NotSaved(t *testing.T) {
	env := newTestEnv(t)
	user, cookie := env.createUser("ana", "ana@example.com", "longenough")
	recipe := env.createRecipe("Omelette", "Breakfast", []string{"egg"}, []string{"fry"}, time.Now())

	w := env.jsonRequest(http.MethodPost, "/api/unsave", map[string]any{"recipeId": recipe.ID}, cookie)
	require.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.SavedRecipe{}).Where("user_id = ?", user.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestSaveUnsaveFlow(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.createUser("ana", "ana@example.com", "longenough")
	first := env.createRecipe("Omelette", "Breakfast", []string{"egg"}, []string{"fry"}, time.Now())
	second := env.createRecipe("Pancakes", "Breakfast", []string{"flour"}, []string{"mix"}, time.Now())

	for _, id := range []uint{first.ID, second.ID} {
		w := env.jsonRequest(http.MethodPost, "/api/save", map[string]any{"recipeId": id}, cookie)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	// saved list resolves full recipes in save order
	w := env.jsonRequest(http.MethodGet, "/api/saved", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"Omelette", "Pancakes"}, resultTitles(t, w))

	w = env.jsonRequest(http.MethodPost, "/api/unsave", map[string]any{"recipeId": first.ID}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.jsonRequest(http.MethodGet, "/api/saved", nil, cookie)
	require.Equal(t, []string{"Pancakes"}, resultTitles(t, w))

	// unsaving again is a 404
	w = env.jsonRequest(http.MethodPost, "/api/unsave", map[string]any{"recipeId": first.ID}, cookie)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSavedList_IsPerUser(t *testing.T) {
	env := newTestEnv(t)
	_, anaCookie := env.createUser("ana", "ana@example.com", "longenough")
	_, bobCookie := env.createUser("bob", "bob@example.com", "longenough")
	recipe := env.createRecipe("Omelette", "Breakfast", []string{"egg"}, []string{"fry"}, time.Now())

	w := env.jsonRequest(http.MethodPost, "/api/save", map[string]any{"recipeId": recipe.ID}, anaCookie)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.jsonRequest(http.MethodGet, "/api/saved", nil, bobCookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, resultTitles(t, w))
}

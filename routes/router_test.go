package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipebook/config"
	"recipebook/models"
	"recipebook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubStore struct {
	fail bool
	keys []string
}

func (s *stubStore) Upload(_ context.Context, key, _ string, _ io.Reader) (string, error) {
	if s.fail {
		return "", errors.New("storage down")
	}
	s.keys = append(s.keys, key)
	return "https://cdn.test/" + key, nil
}

type stubRanker struct {
	ids []uint
	err error
}

func (s *stubRanker) Rank(_ context.Context, _ []string, _ []models.Recipe) ([]uint, error) {
	return s.ids, s.err
}

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	store  *stubStore
	ranker *stubRanker
	cfg    *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Recipe{}, &models.SavedRecipe{}))

	cfg := &config.Config{
		JWTSecret:    "test-secret",
		ClientOrigin: "http://localhost:5173",
	}
	store := &stubStore{}
	ranker := &stubRanker{}

	return &testEnv{
		t:      t,
		db:     db,
		router: SetupRouter(cfg, db, store, ranker, nil),
		store:  store,
		ranker: ranker,
		cfg:    cfg,
	}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	e.t.Helper()
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) jsonRequest(method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return e.do(req)
}

// createUser inserts a user directly and returns it with a valid session cookie.
func (e *testEnv) createUser(username, email, password string) (models.User, *http.Cookie) {
	e.t.Helper()
	hashed, err := utils.HashPassword(password)
	require.NoError(e.t, err)

	user := models.User{Username: username, Email: email, Password: hashed}
	require.NoError(e.t, e.db.Create(&user).Error)

	token, err := utils.GenerateJWT(user.ID, []byte(e.cfg.JWTSecret))
	require.NoError(e.t, err)

	return user, &http.Cookie{Name: "access_token", Value: token}
}

func (e *testEnv) createRecipe(title, category string, ingredients, steps []string, createdAt time.Time) models.Recipe {
	e.t.Helper()
	recipe := models.Recipe{
		Title:       title,
		Image:       "https://cdn.test/recipes/" + title + ".jpg",
		Ingredients: ingredients,
		Steps:       steps,
		Category:    category,
	}
	recipe.CreatedAt = createdAt
	require.NoError(e.t, e.db.Create(&recipe).Error)
	return recipe
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// resultTitles pulls the title of each entry out of a {results: [...]} reply.
func resultTitles(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var body struct {
		Results []models.Recipe `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	titles := make([]string, 0, len(body.Results))
	for _, r := range body.Results {
		titles = append(titles, r.Title)
	}
	return titles
}

// multipartRecipe builds the form AddRecipe expects. Empty field values are
// left out so tests can exercise the missing-field paths.
func multipartRecipe(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if withImage {
		fw, err := mw.CreateFormFile("image", "dish.jpg")
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func multipartFile(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

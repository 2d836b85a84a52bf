package serverhttp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-finder/internal/config"
	"recipe-finder/internal/dataset"
	"recipe-finder/internal/middleware"
	"recipe-finder/internal/recipe/model"
	recSvc "recipe-finder/internal/recipe/service"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	ds := dataset.New([]model.Recipe{
		{Name: "Tomato Salad", Minutes: 10, Ingredients: []string{"tomato", "onion"}, Tags: []string{"quick"}},
		{Name: "Stew", Minutes: 120, Ingredients: []string{"beef", "carrot"}, Tags: []string{"winter"}},
	})
	m, err := recSvc.NewMatcher(model.DefaultMatcherOptions())
	require.NoError(t, err)

	cfg := config.Config{
		AllowOrigins:      []string{"*"},
		MaxBodyMB:         1,
		DefaultMaxMinutes: model.DefaultMaxMinutes,
		DefaultThreshold:  model.DefaultThreshold,
	}
	return NewRouter(cfg, zerolog.Nop(), recSvc.NewEngine(ds, m))
}

func TestRouter_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","recipes":2}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestRouter_FindRecipes(t *testing.T) {
	r := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/find_recipes", strings.NewReader(`{"ingredients":["Tomatoes"]}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []model.Recipe
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Tomato Salad", got[0].Name)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/find_recipes", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_Routes(t *testing.T) {
	r := testRouter(t)
	for _, path := range []string{
		"/recipes/by-ingredient?ingredient=beef",
		"/recipes/by-tags?tag=winter",
		"/stats",
		"/options",
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

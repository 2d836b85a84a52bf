package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-finder/internal/analytics"
	"recipe-finder/internal/config"
	"recipe-finder/internal/dataset"
	"recipe-finder/internal/middleware"
	"recipe-finder/internal/recipe/model"
	recSvc "recipe-finder/internal/recipe/service"
)

func testEngine(t *testing.T) *recSvc.Engine {
	t.Helper()
	ds := dataset.New([]model.Recipe{
		{Name: "Tomato Pasta", Minutes: 25, Ingredients: []string{"2 cups chopped tomatoes", "pasta"}, Tags: []string{"italian", "vegetarian"}},
		{Name: "Onion Soup", Minutes: 45, Ingredients: []string{"onions", "beef broth"}, Tags: []string{"soup"}},
		{Name: "Tomato Salad", Minutes: 10, Ingredients: []string{"tomato", "onion"}, Tags: []string{"vegetarian", "quick"}},
	})
	m, err := recSvc.NewMatcher(model.DefaultMatcherOptions())
	require.NoError(t, err)
	return recSvc.NewEngine(ds, m)
}

func testConfig() config.Config {
	return config.Config{DefaultMaxMinutes: model.DefaultMaxMinutes, DefaultThreshold: model.DefaultThreshold}
}

func postFind(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/find_recipes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func recipeNames(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var out []model.Recipe
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	names := make([]string, 0, len(out))
	for _, r := range out {
		names = append(names, r.Name)
	}
	return names
}

func TestDecodeQuery(t *testing.T) {
	def := testConfig().DefaultQuery()

	tests := []struct {
		name string
		body string
		want model.Query
	}{
		{"empty body", "", def},
		{"null", "null", def},
		{"empty object", "{}", def},
		{
			name: "all keys",
			body: `{"ingredients":["tomato"],"tags":["quick"],"max_cooking_time":30,"similarity_threshold":90}`,
			want: model.Query{Ingredients: []string{"tomato"}, Tags: []string{"quick"}, MaxMinutes: 30, Threshold: 90},
		},
		{
			name: "wrong types fall back",
			body: `{"ingredients":5,"tags":{"a":1},"max_cooking_time":"soon","similarity_threshold":true}`,
			want: def,
		},
		{
			name: "lone string and numeric strings",
			body: `{"ingredients":"tomato","max_cooking_time":"30","similarity_threshold":"75.5"}`,
			want: model.Query{Ingredients: []string{"tomato"}, Tags: []string{}, MaxMinutes: 30, Threshold: 75.5},
		},
		{
			name: "fractional minutes are floored",
			body: `{"max_cooking_time":30.9}`,
			want: model.Query{Ingredients: []string{}, Tags: []string{}, MaxMinutes: 30, Threshold: 80},
		},
		{
			name: "huge minutes saturate",
			body: `{"max_cooking_time":1e20}`,
			want: model.Query{Ingredients: []string{}, Tags: []string{}, MaxMinutes: 2147483647, Threshold: 80},
		},
		{"null list", `{"ingredients":null}`, def},
		{"null numbers", `{"max_cooking_time":null,"similarity_threshold":null}`, def},
		{"all null", `{"ingredients":null,"tags":null,"max_cooking_time":null,"similarity_threshold":null}`, def},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeQuery([]byte(tt.body), def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeQuery_Errors(t *testing.T) {
	def := testConfig().DefaultQuery()

	_, err := decodeQuery([]byte(`{"ingredients":`), def)
	assert.Error(t, err)

	_, err = decodeQuery([]byte(`["tomato"]`), def)
	assert.ErrorIs(t, err, errNotObject)

	_, err = decodeQuery([]byte(`"tomato"`), def)
	assert.ErrorIs(t, err, errNotObject)
}

func TestFindRecipes(t *testing.T) {
	h := FindRecipes(testEngine(t), testConfig(), zerolog.Nop())

	rec := postFind(t, h, `{"ingredients":["tomato"],"max_cooking_time":30}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, []string{"Tomato Pasta", "Tomato Salad"}, recipeNames(t, rec))

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.NotEmpty(t, raw)
	assert.ElementsMatch(t, []string{"name", "minutes", "ingredients", "tags"}, keys(raw[0]))
	assert.Equal(t, []any{"2 cups chopped tomatoes", "pasta"}, raw[0]["ingredients"], "ingredients come back raw")
}

func TestFindRecipes_Defaults(t *testing.T) {
	h := FindRecipes(testEngine(t), testConfig(), zerolog.Nop())

	rec := postFind(t, h, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Tomato Pasta", "Onion Soup", "Tomato Salad"}, recipeNames(t, rec))

	rec = postFind(t, h, `{"max_cooking_time":"oops","tags":["VEGETARIAN"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Tomato Pasta", "Tomato Salad"}, recipeNames(t, rec))
}

func TestFindRecipes_NullFallsBackToDefaults(t *testing.T) {
	h := FindRecipes(testEngine(t), testConfig(), zerolog.Nop())

	rec := postFind(t, h, `{"ingredients":["tomato"],"max_cooking_time":null,"similarity_threshold":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Tomato Pasta", "Tomato Salad"}, recipeNames(t, rec))
}

func TestFindRecipes_EmptyResultIsArray(t *testing.T) {
	h := FindRecipes(testEngine(t), testConfig(), zerolog.Nop())

	rec := postFind(t, h, `{"ingredients":["chocolate"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = postFind(t, h, `{"max_cooking_time":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestFindRecipes_BadRequest(t *testing.T) {
	h := FindRecipes(testEngine(t), testConfig(), zerolog.Nop())

	for _, body := range []string{`{"ingredients":`, `[1,2]`, `42`, `not json`} {
		rec := postFind(t, h, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		var e map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
		assert.NotEmpty(t, e["error"])
	}
}

func TestFindRecipes_BodyTooLarge(t *testing.T) {
	h := middleware.LimitBytes(16)(FindRecipes(testEngine(t), testConfig(), zerolog.Nop()))

	rec := postFind(t, h, `{"ingredients":["tomato","onion","pasta"]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestByIngredient(t *testing.T) {
	h := ByIngredient(testEngine(t), testConfig(), zerolog.Nop())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recipes/by-ingredient?ingredient=Onions", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Onion Soup", "Tomato Salad"}, recipeNames(t, rec))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recipes/by-ingredient?ingredient=tomatoe&threshold=100", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestByTags(t *testing.T) {
	h := ByTags(testEngine(t), zerolog.Nop())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recipes/by-tags?tag=Quick&tags=vegetarian,", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Tomato Salad"}, recipeNames(t, rec))
}

func TestStats(t *testing.T) {
	h := Stats(testEngine(t), zerolog.Nop())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats?top=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var s analytics.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, 3, s.Recipes)
	require.Len(t, s.TopIngredients, 1)
	assert.Equal(t, analytics.Count{Value: "onion", Count: 2}, s.TopIngredients[0])
	assert.Equal(t, 10, s.Minutes.Min)
	assert.Equal(t, 45, s.Minutes.Max)
}

func TestOptions(t *testing.T) {
	h := Options(testEngine(t), testConfig())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/options", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Matcher  model.MatcherOptions `json:"matcher"`
		Defaults model.Query          `json:"defaults"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.MetricDamerau, got.Matcher.Metric)
	assert.Equal(t, 60, got.Defaults.MaxMinutes)
	assert.Equal(t, 80.0, got.Defaults.Threshold)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

type brokenWriter struct{ h http.Header }

func (w *brokenWriter) Header() http.Header { return w.h }
func (w *brokenWriter) WriteHeader(int) {}
func (w *brokenWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestHandlers_LogWriteErrors(t *testing.T) {
	eng := testEngine(t)

	tests := []struct {
		name    string
		handler func(zerolog.Logger) http.Handler
		path    string
	}{
		{"by ingredient", func(l zerolog.Logger) http.Handler { return ByIngredient(eng, testConfig(), l) }, "/recipes/by-ingredient?ingredient=onion"},
		{"by tags", func(l zerolog.Logger) http.Handler { return ByTags(eng, l) }, "/recipes/by-tags?tag=quick"},
		{"stats", func(l zerolog.Logger) http.Handler { return Stats(eng, l) }, "/stats"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := middleware.RequestID()(tt.handler(zerolog.New(&buf)))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set(middleware.RequestIDHeader, "rid-42")
			h.ServeHTTP(&brokenWriter{h: http.Header{}}, req)

			assert.Contains(t, buf.String(), `"message":"write json"`)
			assert.Contains(t, buf.String(), `"req_id":"rid-42"`)
			assert.Contains(t, buf.String(), "connection reset")
		})
	}
}

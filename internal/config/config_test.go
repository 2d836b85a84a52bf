package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-finder/internal/recipe/model"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HOST", "PORT", "ALLOW_ORIGINS", "DATASET_PATH", "COL_TAGS", "DEFAULT_MAX_COOKING_TIME", "DEFAULT_SIMILARITY_THRESHOLD"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	assert.Equal(t, "127.0.0.1:8082", cfg.Addr())
	assert.Equal(t, []string{"*"}, cfg.AllowOrigins)
	assert.Equal(t, "data/recipes.csv", cfg.DatasetPath)
	assert.Equal(t, "tags", cfg.Mapping.TagsKey)
	assert.Equal(t, model.Query{
		Ingredients: []string{},
		Tags:        []string{},
		MaxMinutes:  60,
		Threshold:   80,
	}, cfg.DefaultQuery())
	assert.GreaterOrEqual(t, cfg.PoolSize, 1)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOW_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("COL_TAGS", "labels")
	t.Setenv("DATASET_HEADER_ROW", "3")
	t.Setenv("DEFAULT_SIMILARITY_THRESHOLD", "70.5")
	t.Setenv("DEFAULT_MAX_COOKING_TIME", "not a number")
	t.Setenv("POOL_SIZE", "0")

	cfg := Load()
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowOrigins)
	assert.Equal(t, "labels", cfg.Mapping.TagsKey)
	assert.Equal(t, 3, cfg.Mapping.HeaderRow)
	assert.Equal(t, 70.5, cfg.DefaultThreshold)
	assert.Equal(t, model.DefaultMaxMinutes, cfg.DefaultMaxMinutes)
	assert.Equal(t, 0, cfg.PoolSize)
}

func TestLoadMatcher_Defaults(t *testing.T) {
	opt, err := LoadMatcher("")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultMatcherOptions(), opt)
}

func TestLoadMatcher_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matcher.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
metric: Levenshtein
containment: true
denylist:
  - chopped
  - to taste
`), 0o644))

	opt, err := LoadMatcher(path)
	require.NoError(t, err)
	assert.Equal(t, model.MetricLevenshtein, opt.Metric)
	assert.True(t, opt.Containment)
	assert.True(t, opt.TokenSort, "keys absent from the file keep their defaults")
	assert.Equal(t, []string{"chopped", "to taste"}, opt.Denylist)

	t.Setenv("MATCHER_TOKEN_SORT", "false")
	t.Setenv("MATCHER_METRIC", "jaro-winkler")
	opt, err = LoadMatcher(path)
	require.NoError(t, err)
	assert.False(t, opt.TokenSort)
	assert.Equal(t, model.MetricJaroWinkler, opt.Metric)
}

func TestLoadMatcher_MissingFile(t *testing.T) {
	_, err := LoadMatcher(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSetupLogger(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	file := filepath.Join(t.TempDir(), "logs", "app.log")
	logger := SetupLogger(Config{LogLevel: "warn", LogFile: file})
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	logger.Warn().Msg("disk almost full")
	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), "disk almost full")

	SetupLogger(Config{LogLevel: "loud"})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

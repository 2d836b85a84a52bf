package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"recipe-finder/internal/dataset"
	"recipe-finder/internal/recipe/model"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	LogFile      string
	MaxBodyMB    int

	DatasetPath   string
	Mapping       dataset.Mapping
	MatcherConfig string // optional yaml/json/toml with matcher tunables
	PoolSize      int    // vocabulary scoring workers; 0 disables the pool

	DefaultMaxMinutes int
	DefaultThreshold  float64
}

// Load reads the environment. A .env file in the working directory, when
// present, fills variables that are not already set.
func Load() Config {
	_ = godotenv.Load()

	def := dataset.DefaultMapping()
	return Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         getint("PORT", 8082),
		AllowOrigins: strings.Split(getenv("ALLOW_ORIGINS", "*"), ","),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		LogFile:      getenv("LOG_FILE", "logs/recipe-finder.log"),
		MaxBodyMB:    getint("MAX_BODY_MB", 1),

		DatasetPath: getenv("DATASET_PATH", "data/recipes.csv"),
		Mapping: dataset.Mapping{
			NameKey:        getenv("COL_NAME", def.NameKey),
			MinutesKey:     getenv("COL_MINUTES", def.MinutesKey),
			IngredientsKey: getenv("COL_INGREDIENTS", def.IngredientsKey),
			TagsKey:        getenv("COL_TAGS", def.TagsKey),
			HeaderRow:      getint("DATASET_HEADER_ROW", def.HeaderRow),
		},
		MatcherConfig: getenv("MATCHER_CONFIG", ""),
		PoolSize:      getint("POOL_SIZE", defaultPoolSize()),

		DefaultMaxMinutes: getint("DEFAULT_MAX_COOKING_TIME", model.DefaultMaxMinutes),
		DefaultThreshold:  getfloat("DEFAULT_SIMILARITY_THRESHOLD", model.DefaultThreshold),
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// DefaultQuery is what a request falls back to for every missing key.
func (c Config) DefaultQuery() model.Query {
	return model.Query{
		Ingredients: []string{},
		Tags:        []string{},
		MaxMinutes:  c.DefaultMaxMinutes,
		Threshold:   c.DefaultThreshold,
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v, err := strconv.Atoi(getenv(k, ""))
	if err != nil {
		return def
	}
	return v
}

func getfloat(k string, def float64) float64 {
	v, err := strconv.ParseFloat(getenv(k, ""), 64)
	if err != nil {
		return def
	}
	return v
}

func defaultPoolSize() int {
	return max(runtime.NumCPU()/2, 1)
}

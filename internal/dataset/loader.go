package dataset

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"recipe-finder/internal/fileio"
	"recipe-finder/internal/recipe/model"
	"recipe-finder/internal/utils"
)

// Mapping names the source columns. Each may list alternatives with "|".
type Mapping struct {
	NameKey        string // recipe title
	MinutesKey     string // cooking time in minutes
	IngredientsKey string // list-valued cell
	TagsKey        string // list-valued cell, optional column
	HeaderRow      int    // 1-based
}

// DefaultMapping fits the Food.com export (name, minutes, ingredients, tags)
// and the Epicurious one (Title, Cleaned_Ingredients).
func DefaultMapping() Mapping {
	return Mapping{
		NameKey:        "name|title",
		MinutesKey:     "minutes|total_time|cook_time",
		IngredientsKey: "ingredients|cleaned_ingredients",
		TagsKey:        "tags",
		HeaderRow:      1,
	}
}

// Load reads a .csv/.xlsx/.xls file and builds the dataset. Malformed rows are
// skipped and counted; only an unreadable file, a missing required column or
// an empty result is an error.
func Load(path string, m Mapping, logger zerolog.Logger) (*Dataset, error) {
	start := time.Now()
	maps, err := fileio.ReadFile(path, max(m.HeaderRow, 1))
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	ds, err := FromMaps(maps, m)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}

	rep := ds.report
	logger.Info().
		Str("path", path).
		Int("rows", rep.Rows).
		Int("loaded", rep.Loaded).
		Interface("skipped", rep.Skipped).
		Interface("columns", rep.Columns).
		Dur("elapsed", time.Since(start)).
		Msg("dataset loaded")
	if skipped := rep.Rows - rep.Loaded; skipped > 0 {
		logger.Warn().Int("skipped", skipped).Msg("malformed recipe rows ignored")
	}
	return ds, nil
}

// FromMaps converts header -> value records into a dataset.
func FromMaps(rows []map[string]string, m Mapping) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, ErrNoRecipes
	}
	headers := headersOf(rows)

	rep := newReport()
	rep.Rows = len(rows)

	nameKey := resolveKey(headers, m.NameKey)
	minutesKey := resolveKey(headers, m.MinutesKey)
	ingKey := resolveKey(headers, m.IngredientsKey)
	tagsKey := resolveKey(headers, m.TagsKey)

	if minutesKey == "" {
		return nil, fmt.Errorf("%w: minutes (%s)", ErrMissingColumn, m.MinutesKey)
	}
	if ingKey == "" {
		return nil, fmt.Errorf("%w: ingredients (%s)", ErrMissingColumn, m.IngredientsKey)
	}
	rep.Columns["name"] = nameKey
	rep.Columns["minutes"] = minutesKey
	rep.Columns["ingredients"] = ingKey
	rep.Columns["tags"] = tagsKey

	recipes := make([]model.Recipe, 0, len(rows))
	for _, rec := range rows {
		r, reason := toRecipe(rec, nameKey, minutesKey, ingKey, tagsKey, rep.Missing)
		if reason != "" {
			rep.Skipped[reason]++
			continue
		}
		recipes = append(recipes, r)
	}

	ds := build(recipes, rep)
	if ds.Len() == 0 {
		return nil, ErrNoRecipes
	}
	return ds, nil
}

// toRecipe returns a non-empty reason when the row cannot be used.
func toRecipe(rec map[string]string, nameKey, minutesKey, ingKey, tagsKey string, missing map[string]int) (model.Recipe, string) {
	var r model.Recipe

	if nameKey != "" {
		r.Name = strings.TrimSpace(rec[nameKey])
	}
	if r.Name == "" {
		missing["name"]++
	}

	raw := rec[minutesKey]
	if strings.TrimSpace(raw) == "" {
		missing["minutes"]++
		return r, SkipMinutes
	}
	minutes, ok := utils.ParseInt(raw)
	if !ok || minutes < 0 {
		return r, SkipMinutes
	}
	r.Minutes = minutes

	if strings.TrimSpace(rec[ingKey]) == "" {
		missing["ingredients"]++
		return r, SkipIngredients
	}
	ings, ok := ParseList(rec[ingKey])
	if !ok {
		return r, SkipIngredients
	}
	r.Ingredients = ings

	// no tags column at all means no tags; an empty cell in an existing
	// column is a broken row
	if tagsKey == "" {
		r.Tags = []string{}
		return r, ""
	}
	if strings.TrimSpace(rec[tagsKey]) == "" {
		missing["tags"]++
		return r, SkipTags
	}
	tags, ok := ParseList(rec[tagsKey])
	if !ok {
		return r, SkipTags
	}
	r.Tags = tags
	return r, ""
}

package handler

import (
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"recipe-finder/internal/analytics"
	"recipe-finder/internal/config"
	"recipe-finder/internal/middleware"
	"recipe-finder/internal/recipe/model"
	recSvc "recipe-finder/internal/recipe/service"
)

const (
	defaultTop = 20
	maxTop     = 100
)

// FindRecipes serves POST /find_recipes. Every body key is optional; see
// decodeQuery for the fallbacks.
func FindRecipes(eng *recSvc.Engine, cfg config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := requestLogger(r, logger)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			writeError(w, http.StatusBadRequest, "read body: "+err.Error())
			return
		}

		q, err := decodeQuery(body, cfg.DefaultQuery())
		if err != nil {
			log.Debug().Err(err).Msg("bad find_recipes body")
			writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}

		recipes := eng.Find(q)
		if err := writeJSON(w, http.StatusOK, recipes); err != nil {
			log.Error().Err(err).Msg("write json")
			return
		}

		log.Info().
			Strs("ingredients", q.Ingredients).
			Strs("tags", q.Tags).
			Int("max_cooking_time", q.MaxMinutes).
			Float64("similarity_threshold", q.Threshold).
			Int("matched", len(recipes)).
			Dur("elapsed", time.Since(start)).
			Msg("find_recipes done")
	}
}

// ByIngredient serves GET /recipes/by-ingredient?ingredient=..&similarity_threshold=..
func ByIngredient(eng *recSvc.Engine, cfg config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := r.URL.Query()
		ingredient := v.Get("ingredient")
		threshold := queryFloat(v, cfg.DefaultThreshold, "similarity_threshold", "threshold")

		recipes := eng.WithIngredient(ingredient, threshold)
		if err := writeJSON(w, http.StatusOK, recipes); err != nil {
			log := requestLogger(r, logger)
			log.Error().Err(err).Msg("write json")
		}
	}
}

// ByTags serves GET /recipes/by-tags?tag=a&tag=b (or tags=a,b).
func ByTags(eng *recSvc.Engine, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags := queryList(r.URL.Query(), "tag", "tags")
		recipes := eng.WithTags(tags)
		if err := writeJSON(w, http.StatusOK, recipes); err != nil {
			log := requestLogger(r, logger)
			log.Error().Err(err).Msg("write json")
		}
	}
}

// Stats serves GET /stats?top=N. The summary is computed on first use and
// reused, since the dataset never changes.
func Stats(eng *recSvc.Engine, logger zerolog.Logger) http.HandlerFunc {
	summary := sync.OnceValue(func() analytics.Summary {
		start := time.Now()
		s := analytics.Describe(eng.Dataset(), eng.Matcher().Normalizer().Normalize, maxTop)
		logger.Info().Dur("elapsed", time.Since(start)).Msg("dataset statistics computed")
		return s
	})

	return func(w http.ResponseWriter, r *http.Request) {
		n := queryInt(r.URL.Query(), "top", defaultTop)
		n = max(1, min(n, maxTop))
		if err := writeJSON(w, http.StatusOK, summary().Top(n)); err != nil {
			log := requestLogger(r, logger)
			log.Error().Err(err).Msg("write json")
		}
	}
}

// Options echoes the active matcher tunables, so callers can see what the
// similarity scores mean.
func Options(eng *recSvc.Engine, cfg config.Config) http.HandlerFunc {
	type response struct {
		Matcher  model.MatcherOptions `json:"matcher"`
		Defaults model.Query          `json:"defaults"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		_ = writeJSON(w, http.StatusOK, response{
			Matcher:  eng.Matcher().Options(),
			Defaults: cfg.DefaultQuery(),
		})
	}
}

func requestLogger(r *http.Request, logger zerolog.Logger) zerolog.Logger {
	if rid := middleware.RequestIDFrom(r.Context()); rid != "" {
		return logger.With().Str("req_id", rid).Logger()
	}
	return logger
}

package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"recipe-finder/internal/config"
	"recipe-finder/internal/middleware"
	recHnd "recipe-finder/internal/recipe/handler"
	recSvc "recipe-finder/internal/recipe/service"
	"recipe-finder/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, eng *recSvc.Engine) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxBodyMB) << 20))

	r.Get("/health", handlers.Health(eng.Dataset()))

	r.Post("/find_recipes", recHnd.FindRecipes(eng, cfg, logger))
	r.Route("/recipes", func(r chi.Router) {
		r.Get("/by-ingredient", recHnd.ByIngredient(eng, cfg, logger))
		r.Get("/by-tags", recHnd.ByTags(eng, logger))
	})
	r.Get("/stats", recHnd.Stats(eng, logger))
	r.Get("/options", recHnd.Options(eng, cfg))

	return r
}

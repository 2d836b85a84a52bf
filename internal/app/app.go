// Package app wires the dataset, matcher and engine from a Config. Both the
// HTTP server and the CLI start through Build.
package app

import (
	"fmt"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"

	"recipe-finder/internal/config"
	"recipe-finder/internal/dataset"
	recSvc "recipe-finder/internal/recipe/service"
)

type App struct {
	Engine *recSvc.Engine
	pool   *ants.Pool
}

// Build loads the dataset and indexes it. Any error here is fatal for the
// caller: no query can be served without a dataset.
func Build(cfg config.Config, logger zerolog.Logger) (*App, error) {
	opt, err := config.LoadMatcher(cfg.MatcherConfig)
	if err != nil {
		return nil, err
	}
	matcher, err := recSvc.NewMatcher(opt)
	if err != nil {
		return nil, err
	}

	ds, err := dataset.Load(cfg.DatasetPath, cfg.Mapping, logger)
	if err != nil {
		return nil, err
	}

	a := &App{}
	engOpts := []recSvc.Option{recSvc.WithLogger(logger)}
	if cfg.PoolSize > 0 {
		a.pool, err = ants.NewPool(cfg.PoolSize)
		if err != nil {
			return nil, fmt.Errorf("create worker pool: %w", err)
		}
		engOpts = append(engOpts, recSvc.WithPool(a.pool))
	}
	a.Engine = recSvc.NewEngine(ds, matcher, engOpts...)

	logger.Info().
		Str("metric", opt.Metric).
		Bool("token_sort", opt.TokenSort).
		Bool("containment", opt.Containment).
		Int("denylist", len(opt.Denylist)).
		Int("pool", cfg.PoolSize).
		Msg("matcher ready")
	return a, nil
}

// Close releases the worker pool.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Release()
	}
}

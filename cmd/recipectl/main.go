package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"recipe-finder/internal/analytics"
	"recipe-finder/internal/app"
	"recipe-finder/internal/config"
	"recipe-finder/internal/recipe/model"
)

func main() {
	cliApp := &cli.App{
		Name:  "recipectl",
		Usage: "Query and describe a recipe dataset from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dataset",
				Aliases: []string{"d"},
				Usage:   "Path to the recipe file (.csv, .xlsx, .xls)",
				EnvVars: []string{"DATASET_PATH"},
			},
			&cli.StringFlag{
				Name:    "matcher-config",
				Usage:   "Matcher tunables file (yaml, json or toml)",
				EnvVars: []string{"MATCHER_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "find",
				Usage:  "Print recipes matching ingredients, tags and cooking time",
				Action: findCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "ingredient",
						Aliases: []string{"i"},
						Usage:   "Ingredient the recipe must contain (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:    "tag",
						Aliases: []string{"t"},
						Usage:   "Tag the recipe must carry (repeatable)",
					},
					&cli.IntFlag{
						Name:  "max-minutes",
						Usage: "Maximum cooking time in minutes",
						Value: model.DefaultMaxMinutes,
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Fuzzy match threshold, 0-100",
						Value: model.DefaultThreshold,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Print at most N recipes (0 = all)",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Print descriptive statistics of the dataset",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "top",
						Usage: "Length of the top ingredient and name-word lists",
						Value: 20,
					},
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// build starts from the same environment config as the server; flags win.
func build(c *cli.Context) (*app.App, error) {
	cfg := config.Load()
	if v := c.String("dataset"); v != "" {
		cfg.DatasetPath = v
	}
	if v := c.String("matcher-config"); v != "" {
		cfg.MatcherConfig = v
	}
	cfg.LogLevel = c.String("log-level")
	cfg.LogFile = ""

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
	return app.Build(cfg, logger)
}

func findCommand(c *cli.Context) error {
	a, err := build(c)
	if err != nil {
		return err
	}
	defer a.Close()

	recipes := a.Engine.Find(model.Query{
		Ingredients: c.StringSlice("ingredient"),
		Tags:        c.StringSlice("tag"),
		MaxMinutes:  c.Int("max-minutes"),
		Threshold:   c.Float64("threshold"),
	})
	if n := c.Int("limit"); n > 0 && len(recipes) > n {
		recipes = recipes[:n]
	}
	return printJSON(recipes)
}

func statsCommand(c *cli.Context) error {
	a, err := build(c)
	if err != nil {
		return err
	}
	defer a.Close()

	norm := a.Engine.Matcher().Normalizer()
	return printJSON(analytics.Describe(a.Engine.Dataset(), norm.Normalize, c.Int("top")))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

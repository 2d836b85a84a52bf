package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"recipe-finder/internal/recipe/model"
)

// LoadMatcher returns the matcher tunables: defaults, overridden by the file
// at path (yaml, json or toml by extension) when path is set, overridden by
// MATCHER_* environment variables (MATCHER_METRIC=levenshtein,
// MATCHER_DENYLIST="chopped,to taste").
func LoadMatcher(path string) (model.MatcherOptions, error) {
	def := model.DefaultMatcherOptions()

	v := viper.New()
	v.SetDefault("denylist", def.Denylist)
	v.SetDefault("strip_quantities", def.StripQuantities)
	v.SetDefault("singularize", def.Singularize)
	v.SetDefault("metric", def.Metric)
	v.SetDefault("token_sort", def.TokenSort)
	v.SetDefault("containment", def.Containment)

	v.SetEnvPrefix("MATCHER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return model.MatcherOptions{}, fmt.Errorf("read matcher config %s: %w", path, err)
		}
	}

	var opt model.MatcherOptions
	if err := v.Unmarshal(&opt); err != nil {
		return model.MatcherOptions{}, fmt.Errorf("decode matcher config: %w", err)
	}
	opt.Metric = strings.ToLower(strings.TrimSpace(opt.Metric))
	return opt, nil
}

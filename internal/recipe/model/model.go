package model

import "slices"

// Recipe is one dataset row. Row is its 0-based position in the dataset.
type Recipe struct {
	Row         int      `json:"-"`
	Name        string   `json:"name"`
	Minutes     int      `json:"minutes"`     // cooking time
	Ingredients []string `json:"ingredients"` // raw free text, dataset order
	Tags        []string `json:"tags"`        // set semantics, dataset order kept for output
}

// Clone returns a copy that shares no slices with r.
func (r Recipe) Clone() Recipe {
	r.Ingredients = slices.Clone(r.Ingredients)
	r.Tags = slices.Clone(r.Tags)
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	return r
}

// Query is built fresh per request.
type Query struct {
	Ingredients []string `json:"ingredients"`
	Tags        []string `json:"tags"`
	MaxMinutes  int      `json:"max_cooking_time"`
	Threshold   float64  `json:"similarity_threshold"` // 0..100, clamped
}

const (
	DefaultMaxMinutes = 60
	DefaultThreshold  = 80
)

// Metric names accepted in MatcherOptions.Metric.
const (
	MetricDamerau     = "damerau"
	MetricLevenshtein = "levenshtein"
	MetricJaroWinkler = "jaro-winkler"
)

type MatcherOptions struct {
	Denylist        []string `mapstructure:"denylist" json:"denylist"`                 // words/phrases removed as whole tokens
	StripQuantities bool     `mapstructure:"strip_quantities" json:"strip_quantities"` // drop "2", "1/2", "1.5"
	Singularize     bool     `mapstructure:"singularize" json:"singularize"`           // tomatoes -> tomato
	Metric          string   `mapstructure:"metric" json:"metric"`                     // damerau | levenshtein | jaro-winkler
	TokenSort       bool     `mapstructure:"token_sort" json:"token_sort"`             // also compare with sorted tokens, keep the best
	Containment     bool     `mapstructure:"containment" json:"containment"`           // whole-token containment counts as a match
}

// DefaultDenylist holds qualifier words that describe preparation, size or units
// rather than the ingredient itself.
var DefaultDenylist = []string{
	"divided", "chopped", "peel", "finely chopped", "thinly sliced", "sliced", "grated",
	"minced", "diced", "optional", "to taste", "and", "or", "for garnish", "peeled", "finely",
	"freshly", "fresh", "ground", "large", "small", "medium", "tablespoon", "tbsp", "teaspoon", "tsp",
	"cup", "ounce", "oz", "pound", "lb", "gram", "g", "kg", "ml", "halved", "quartered",
	"whole", "extra", "inch", "piece", "head", "clove", "pinch", "dash", "can",
}

func DefaultMatcherOptions() MatcherOptions {
	return MatcherOptions{
		Denylist:        slices.Clone(DefaultDenylist),
		StripQuantities: true,
		Singularize:     true,
		Metric:          MetricDamerau,
		TokenSort:       true,
		Containment:     false,
	}
}

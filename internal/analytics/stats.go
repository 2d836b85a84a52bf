// Package analytics computes descriptive statistics over a loaded dataset:
// cooking time distribution, the most common ingredients and recipe-name
// words, and the recipe-name length histogram.
package analytics

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"recipe-finder/internal/dataset"
)

const HistogramBins = 20

type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type MinutesStats struct {
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std"` // sample standard deviation
}

type Spread struct {
	Mean float64 `json:"mean"`
	Max  int     `json:"max"`
}

// Histogram has equal-width bins over [Min, Max]; the last bin is closed.
type Histogram struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Width  float64 `json:"width"`
	Counts []int   `json:"counts"`
}

type Summary struct {
	Recipes              int            `json:"recipes"`
	Rows                 int            `json:"rows"`
	Skipped              map[string]int `json:"skipped"`
	Missing              map[string]int `json:"missing"`
	Minutes              MinutesStats   `json:"minutes"`
	IngredientsPerRecipe Spread         `json:"ingredients_per_recipe"`
	TopIngredients       []Count        `json:"top_ingredients"`
	TopNameWords         []Count        `json:"top_name_words"`
	NameLength           Histogram      `json:"name_length"`
}

// words too common in recipe names to say anything
var nameStopwords = map[string]bool{
	"a": true, "an": true, "and": true, "the": true, "of": true, "with": true,
	"in": true, "on": true, "for": true, "to": true, "or": true, "s": true,
}

// Describe walks ds once. normalize maps a raw ingredient to the form that is
// counted; ingredients it maps to "" are not counted. topN <= 0 keeps all.
func Describe(ds *dataset.Dataset, normalize func(string) string, topN int) Summary {
	rep := ds.Report()
	s := Summary{
		Recipes: ds.Len(),
		Rows:    rep.Rows,
		Skipped: rep.Skipped,
		Missing: rep.Missing,
	}
	if ds.Len() == 0 {
		s.TopIngredients = []Count{}
		s.TopNameWords = []Count{}
		s.NameLength = histogram(nil, HistogramBins)
		return s
	}

	minutes := make([]int, 0, ds.Len())
	nameLens := make([]float64, 0, ds.Len())
	ingredients := make(map[string]int)
	words := make(map[string]int)
	totalIngredients := 0

	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		minutes = append(minutes, r.Minutes)
		nameLens = append(nameLens, float64(len([]rune(r.Name))))

		totalIngredients += len(r.Ingredients)
		s.IngredientsPerRecipe.Max = max(s.IngredientsPerRecipe.Max, len(r.Ingredients))
		for _, ing := range r.Ingredients {
			if n := normalize(ing); n != "" {
				ingredients[n]++
			}
		}
		for _, w := range nameWords(r.Name) {
			words[w]++
		}
	}

	s.Minutes = describeInts(minutes)
	s.IngredientsPerRecipe.Mean = float64(totalIngredients) / float64(ds.Len())
	s.TopIngredients = top(ingredients, topN)
	s.TopNameWords = top(words, topN)
	s.NameLength = histogram(nameLens, HistogramBins)
	return s
}

// Top returns a copy of s with both top lists cut to n entries.
func (s Summary) Top(n int) Summary {
	if n > 0 && len(s.TopIngredients) > n {
		s.TopIngredients = s.TopIngredients[:n:n]
	}
	if n > 0 && len(s.TopNameWords) > n {
		s.TopNameWords = s.TopNameWords[:n:n]
	}
	return s
}

func nameWords(name string) []string {
	f := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := f[:0]
	for _, w := range f {
		if len(w) > 1 && !nameStopwords[w] {
			out = append(out, w)
		}
	}
	return out
}

// top sorts by count, then value, so equal counts come out the same every time.
func top(counts map[string]int, n int) []Count {
	out := make([]Count, 0, len(counts))
	for v, c := range counts {
		out = append(out, Count{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func describeInts(v []int) MinutesStats {
	sorted := append([]int(nil), v...)
	sort.Ints(sorted)
	n := len(sorted)

	sum := 0.0
	for _, x := range sorted {
		sum += float64(x)
	}
	mean := sum / float64(n)

	var median float64
	if n%2 == 1 {
		median = float64(sorted[n/2])
	} else {
		median = (float64(sorted[n/2-1]) + float64(sorted[n/2])) / 2
	}

	var std float64
	if n > 1 {
		ss := 0.0
		for _, x := range sorted {
			d := float64(x) - mean
			ss += d * d
		}
		std = math.Sqrt(ss / float64(n-1))
	}

	return MinutesStats{
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   mean,
		Median: median,
		StdDev: std,
	}
}

func histogram(v []float64, bins int) Histogram {
	h := Histogram{Counts: make([]int, bins)}
	if len(v) == 0 {
		return h
	}
	lo, hi := v[0], v[0]
	for _, x := range v {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	h.Min, h.Max = lo, hi
	h.Width = (hi - lo) / float64(bins)
	for _, x := range v {
		i := int((x - lo) / h.Width)
		if i >= bins {
			i = bins - 1
		}
		h.Counts[i]++
	}
	return h
}

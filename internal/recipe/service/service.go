package service

import (
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"

	"recipe-finder/internal/dataset"
	"recipe-finder/internal/recipe/model"
)

const defaultChunkSize = 2048

// Engine answers recipe queries over one dataset. It only reads the dataset
// and its index, so one Engine serves any number of concurrent requests.
type Engine struct {
	ds      *dataset.Dataset
	matcher *Matcher
	idx     *Index
	pool    *ants.Pool // optional; nil scores the vocabulary inline
	chunk   int
	logger  zerolog.Logger
}

type Option func(*Engine)

// WithPool spreads vocabulary scoring over p. The caller owns p.
func WithPool(p *ants.Pool) Option {
	return func(e *Engine) { e.pool = p }
}

// WithChunkSize sets how many vocabulary terms one pool task scores.
func WithChunkSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.chunk = n
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine indexes ds once; building the index is the only expensive step.
func NewEngine(ds *dataset.Dataset, m *Matcher, opts ...Option) *Engine {
	e := &Engine{
		ds:      ds,
		matcher: m,
		chunk:   defaultChunkSize,
		logger:  zerolog.Nop(),
	}
	for _, o := range opts {
		o(e)
	}

	start := time.Now()
	e.idx = buildIndex(ds, m.Normalizer())
	e.logger.Info().
		Int("recipes", ds.Len()).
		Int("vocabulary", e.idx.VocabularySize()).
		Dur("elapsed", time.Since(start)).
		Msg("recipe index built")
	return e
}

func (e *Engine) Dataset() *dataset.Dataset { return e.ds }
func (e *Engine) Matcher() *Matcher         { return e.matcher }
func (e *Engine) Index() *Index             { return e.idx }

// Find returns, in dataset order, every recipe that fits the time bound, has
// all requested tags, and for each requested ingredient has at least one
// ingredient scoring >= Threshold against it.
func (e *Engine) Find(q model.Query) []model.Recipe {
	if q.MaxMinutes <= 0 {
		return []model.Recipe{}
	}
	start := time.Now()
	threshold := ClampThreshold(q.Threshold)
	tags := normalizeTags(q.Tags)
	masks := e.ingredientMasks(q.Ingredients, threshold)

	out := e.collect(func(row int, r model.Recipe) bool {
		return r.Minutes <= q.MaxMinutes &&
			e.idx.hasTags(row, tags) &&
			e.idx.hasAll(row, masks)
	})

	e.logger.Debug().
		Int("ingredients", len(masks)).
		Int("tags", len(tags)).
		Int("max_minutes", q.MaxMinutes).
		Float64("threshold", threshold).
		Int("matched", len(out)).
		Dur("elapsed", time.Since(start)).
		Msg("find recipes")
	return out
}

// WithIngredient returns recipes with at least one ingredient matching
// ingredient at threshold or above.
func (e *Engine) WithIngredient(ingredient string, threshold float64) []model.Recipe {
	masks := e.ingredientMasks([]string{ingredient}, ClampThreshold(threshold))
	return e.collect(func(row int, _ model.Recipe) bool {
		return e.idx.hasAll(row, masks)
	})
}

// WithTags returns recipes whose tags include every requested tag,
// case-insensitively. No tags returns the whole dataset.
func (e *Engine) WithTags(tags []string) []model.Recipe {
	want := normalizeTags(tags)
	return e.collect(func(row int, _ model.Recipe) bool {
		return e.idx.hasTags(row, want)
	})
}

func (e *Engine) collect(keep func(row int, r model.Recipe) bool) []model.Recipe {
	out := make([]model.Recipe, 0)
	for i := 0; i < e.ds.Len(); i++ {
		r := e.ds.At(i)
		if keep(i, r) {
			out = append(out, r.Clone())
		}
	}
	return out
}

// ingredientMasks builds one vocabulary bitmap per distinct requested
// ingredient. Ingredients that normalize to "" constrain nothing.
func (e *Engine) ingredientMasks(ingredients []string, threshold float64) [][]bool {
	norm := e.matcher.Normalizer()
	seen := make(map[string]struct{}, len(ingredients))
	masks := make([][]bool, 0, len(ingredients))
	for _, ing := range ingredients {
		q := norm.Normalize(ing)
		if q == "" {
			continue
		}
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		masks = append(masks, e.scoreVocabulary(q, threshold))
	}
	return masks
}

// scoreVocabulary marks every vocabulary term that matches q. Chunks write
// disjoint ranges of the result, so no locking is needed.
func (e *Engine) scoreVocabulary(q string, threshold float64) []bool {
	n := e.idx.VocabularySize()
	mask := make([]bool, n)
	fill := func(lo, hi int) {
		for id := lo; id < hi; id++ {
			mask[id] = e.matcher.matchNormalized(q, e.idx.vocab[id], threshold)
		}
	}

	if e.pool == nil || n <= e.chunk {
		fill(0, n)
		return mask
	}

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += e.chunk {
		lo := lo
		hi := min(lo+e.chunk, n)
		wg.Add(1)
		task := func() {
			defer wg.Done()
			fill(lo, hi)
		}
		if err := e.pool.Submit(task); err != nil {
			// pool closed or overloaded
			task()
		}
	}
	wg.Wait()
	return mask
}

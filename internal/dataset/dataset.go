package dataset

import (
	"errors"
	"maps"

	"recipe-finder/internal/recipe/model"
)

var (
	ErrNoRecipes     = errors.New("dataset: no usable recipes")
	ErrMissingColumn = errors.New("dataset: required column not found")
)

// Skip reasons counted in Report.Skipped.
const (
	SkipMinutes     = "minutes"
	SkipIngredients = "ingredients"
	SkipTags        = "tags"
)

// Report describes what happened while a dataset was built.
type Report struct {
	Rows    int               `json:"rows"`    // data rows seen
	Loaded  int               `json:"loaded"`  // recipes kept
	Skipped map[string]int    `json:"skipped"` // malformed rows by reason
	Missing map[string]int    `json:"missing"` // empty cells by column
	Columns map[string]string `json:"columns"` // field -> resolved source column
}

func newReport() Report {
	return Report{
		Skipped: map[string]int{},
		Missing: map[string]int{},
		Columns: map[string]string{},
	}
}

// Dataset is the immutable, ordered recipe table. It is built once and may be
// read from any number of goroutines without locking.
type Dataset struct {
	recipes []model.Recipe
	report  Report
}

// New keeps recipes with non-negative Minutes, in order, and renumbers Row.
// The input slice is copied.
func New(recipes []model.Recipe) *Dataset {
	rep := newReport()
	rep.Rows = len(recipes)
	return build(recipes, rep)
}

func build(recipes []model.Recipe, rep Report) *Dataset {
	out := make([]model.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if r.Minutes < 0 {
			rep.Skipped[SkipMinutes]++
			continue
		}
		r = r.Clone()
		r.Row = len(out)
		out = append(out, r)
	}
	rep.Loaded = len(out)
	return &Dataset{recipes: out, report: rep}
}

func (d *Dataset) Len() int { return len(d.recipes) }

// At returns row i. The slices inside are shared with the dataset and must
// not be modified; use Recipe.Clone before handing them out.
func (d *Dataset) At(i int) model.Recipe { return d.recipes[i] }

func (d *Dataset) Report() Report {
	rep := d.report
	rep.Skipped = maps.Clone(rep.Skipped)
	rep.Missing = maps.Clone(rep.Missing)
	rep.Columns = maps.Clone(rep.Columns)
	return rep
}

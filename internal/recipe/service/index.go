package service

import (
	"slices"
	"strings"

	"recipe-finder/internal/dataset"
)

// Index holds the normalized view of a dataset. Ingredients are interned into
// a vocabulary of distinct normalized strings, so a query ingredient is scored
// once per distinct term instead of once per recipe ingredient.
type Index struct {
	vocab    []string          // id -> normalized ingredient
	byTerm   map[string]int32  // normalized ingredient -> id
	rowTerms [][]int32         // row -> distinct ids of its ingredients
	rowTags  []map[string]bool // row -> lowercased tags
}

func buildIndex(ds *dataset.Dataset, norm *Normalizer) *Index {
	n := ds.Len()
	idx := &Index{
		byTerm:   make(map[string]int32),
		rowTerms: make([][]int32, n),
		rowTags:  make([]map[string]bool, n),
	}

	for i := 0; i < n; i++ {
		r := ds.At(i)

		terms := make([]int32, 0, len(r.Ingredients))
		for _, ing := range r.Ingredients {
			id := idx.intern(norm.Normalize(ing))
			if !slices.Contains(terms, id) {
				terms = append(terms, id)
			}
		}
		idx.rowTerms[i] = terms

		tags := make(map[string]bool, len(r.Tags))
		for _, t := range r.Tags {
			if t = normalizeTag(t); t != "" {
				tags[t] = true
			}
		}
		idx.rowTags[i] = tags
	}
	return idx
}

func (idx *Index) intern(term string) int32 {
	if id, ok := idx.byTerm[term]; ok {
		return id
	}
	id := int32(len(idx.vocab))
	idx.vocab = append(idx.vocab, term)
	idx.byTerm[term] = id
	return id
}

// VocabularySize is the number of distinct normalized ingredients.
func (idx *Index) VocabularySize() int { return len(idx.vocab) }

// Term returns the normalized ingredient with the given id.
func (idx *Index) Term(id int) string { return idx.vocab[id] }

// TermCounts returns, per vocabulary id, how many recipes use the term.
func (idx *Index) TermCounts() []int {
	out := make([]int, len(idx.vocab))
	for _, terms := range idx.rowTerms {
		for _, id := range terms {
			out[id]++
		}
	}
	return out
}

// hasTags reports whether row carries every tag in want (already normalized).
func (idx *Index) hasTags(row int, want []string) bool {
	tags := idx.rowTags[row]
	for _, t := range want {
		if !tags[t] {
			return false
		}
	}
	return true
}

// hasAll: for each mask, at least one ingredient of row is set in it.
func (idx *Index) hasAll(row int, masks [][]bool) bool {
	terms := idx.rowTerms[row]
	for _, mask := range masks {
		found := false
		for _, id := range terms {
			if mask[id] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// normalizeTags lowercases, trims and deduplicates requested tags; blanks are dropped.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = normalizeTag(t); t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

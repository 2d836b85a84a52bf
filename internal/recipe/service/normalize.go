package service

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"recipe-finder/internal/recipe/model"
)

// 0,5 -> 0.5
var decComma = regexp.MustCompile(`(\d),(\d)`)

// everything except letters, digits, whitespace and the quantity separators . and /
var punct = regexp.MustCompile(`[^\p{L}\p{N}\s./]+`)

// "2", "1/2", "1.5", "10"
var reQuantity = regexp.MustCompile(`^\d+(?:[./]\d+)?$`)

// Normalizer turns a free-text ingredient into a comparable token string.
// It is safe for concurrent use.
type Normalizer struct {
	opt     model.MatcherOptions
	phrases [][]string // denylist entries as token sequences, longest first
}

func NewNormalizer(opt model.MatcherOptions) *Normalizer {
	n := &Normalizer{opt: opt}
	seen := make(map[string]struct{}, len(opt.Denylist))
	for _, entry := range opt.Denylist {
		toks := n.tokens(entry)
		if len(toks) == 0 {
			continue
		}
		key := strings.Join(toks, " ")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		n.phrases = append(n.phrases, toks)
	}
	sort.SliceStable(n.phrases, func(i, j int) bool { return len(n.phrases[i]) > len(n.phrases[j]) })
	return n
}

// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}
	toks := n.tokens(s)

	// 6) denylisted words/phrases, as whole tokens only
	toks = n.stripDenylisted(toks)

	return strings.Join(toks, " ")
}

// tokens runs every step except the denylist.
func (n *Normalizer) tokens(s string) []string {
	// 1) accents: jalapeño -> jalapeno
	out := foldAccents(s)

	// 2) case
	out = strings.ToLower(out)

	// 3) decimal comma before punctuation goes away, then punctuation -> spaces
	out = decComma.ReplaceAllString(out, "$1.$2")
	out = punct.ReplaceAllString(out, " ")

	toks := strings.Fields(out)

	// 4) quantities; "1/2" and "1.5" are whole tokens only before the separators are split
	if n.opt.StripQuantities {
		toks = dropQuantities(toks)
	}
	toks = splitSeparators(toks)
	if n.opt.StripQuantities {
		toks = dropQuantities(toks)
	}

	// 5) plurals
	if n.opt.Singularize {
		for i := range toks {
			toks[i] = singular(toks[i])
		}
	}
	return toks
}

// stripDenylisted removes denylist phrases until nothing changes, since removing
// one phrase may join the tokens of another ("to chopped taste").
func (n *Normalizer) stripDenylisted(toks []string) []string {
	if len(n.phrases) == 0 {
		return toks
	}
	for {
		out := make([]string, 0, len(toks))
		for i := 0; i < len(toks); {
			if l := n.phraseAt(toks, i); l > 0 {
				i += l
				continue
			}
			out = append(out, toks[i])
			i++
		}
		if len(out) == len(toks) {
			return out
		}
		toks = out
	}
}

func (n *Normalizer) phraseAt(toks []string, i int) int {
	for _, p := range n.phrases {
		if i+len(p) > len(toks) {
			continue
		}
		match := true
		for k := range p {
			if toks[i+k] != p[k] {
				match = false
				break
			}
		}
		if match {
			return len(p)
		}
	}
	return 0
}

// ===== helpers =====

func foldAccents(s string) string {
	if isASCII(s) {
		return s
	}
	// transformers keep state, so a fresh chain per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func dropQuantities(toks []string) []string {
	out := toks[:0]
	for _, t := range toks {
		if reQuantity.MatchString(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func splitSeparators(toks []string) []string {
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		if !strings.ContainsAny(t, "./") {
			out = append(out, t)
			continue
		}
		out = append(out, strings.FieldsFunc(t, func(r rune) bool { return r == '.' || r == '/' })...)
	}
	return out
}

// singular only keeps a trailing "s" on words it never touches (ss, us, is, short
// words, anything with a digit), so a second pass is a no-op. "100s" stays whole: cut
// to "100" it would become a quantity only on the next pass.
func singular(w string) string {
	if len(w) <= 3 || !strings.HasSuffix(w, "s") || strings.ContainsAny(w, "0123456789") {
		return w
	}
	switch {
	case strings.HasSuffix(w, "ss"), strings.HasSuffix(w, "us"), strings.HasSuffix(w, "is"):
		return w
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "oes"), strings.HasSuffix(w, "xes"), strings.HasSuffix(w, "zes"),
		strings.HasSuffix(w, "ches"), strings.HasSuffix(w, "shes"):
		return w[:len(w)-2]
	}
	return w[:len(w)-1]
}

// tokenSort orders tokens so "pepper black" == "black pepper".
func tokenSort(s string) string {
	f := strings.Fields(s)
	sort.Strings(f)
	return strings.Join(f, " ")
}

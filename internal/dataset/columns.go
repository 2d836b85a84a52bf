package dataset

import (
	"regexp"
	"sort"
	"strings"
)

var reHeaderJunk = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// normHeaderKey: lower case, NBSP to space, anything but letters/digits to a
// single space. "Cleaned_Ingredients" -> "cleaned ingredients".
func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("\u00A0", " ", "\u202F", " ").Replace(s)
	s = reHeaderJunk.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// resolveKey finds the header that best fits want. want may list alternatives
// separated by "|", in order of preference ("ingredients|cleaned_ingredients").
// Returns "" when nothing fits.
func resolveKey(headers []string, want string) string {
	want = strings.TrimSpace(want)
	if want == "" {
		return ""
	}
	alts := strings.Split(want, "|")
	for i := range alts {
		alts[i] = strings.TrimSpace(alts[i])
	}

	// stable order so ties resolve the same way on every load
	keys := append([]string(nil), headers...)
	sort.Strings(keys)

	// 1) exact, as written
	for _, a := range alts {
		for _, k := range keys {
			if k == a {
				return k
			}
		}
	}

	// 2) exact after normalization, alternatives in preference order
	for _, a := range alts {
		na := normHeaderKey(a)
		for _, k := range keys {
			if normHeaderKey(k) == na {
				return k
			}
		}
	}

	// 3) whole-word containment; the closest in length wins so "ingredients"
	//    prefers "raw ingredients" over "number of ingredients used"
	bestKey := ""
	bestScore := 0
	for _, k := range keys {
		nk := normHeaderKey(k)
		for _, a := range alts {
			na := normHeaderKey(a)
			if na == "" || !containsWords(nk, na) {
				continue
			}
			score := 1000 - (len(nk) - len(na))
			if score > bestScore {
				bestScore, bestKey = score, k
			}
		}
	}
	return bestKey
}

func containsWords(hay, needle string) bool {
	return strings.Contains(" "+hay+" ", " "+needle+" ")
}

// headersOf collects the column names of the first record.
func headersOf(rows []map[string]string) []string {
	if len(rows) == 0 {
		return nil
	}
	out := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		out = append(out, k)
	}
	return out
}

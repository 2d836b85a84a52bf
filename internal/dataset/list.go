package dataset

import (
	"encoding/json"
	"strings"
)

// ParseList turns a list-valued cell into its items. Accepted forms:
//
//	['winter squash', "baker's chocolate"]   python literal, as pandas writes it
//	["a", "b"]                               json
//	a; b; c  /  a | b  /  a, b               delimited text
//
// ok is false for an empty cell or a bracketed literal that does not parse.
// "[]" is a valid, empty list.
func ParseList(s string) (items []string, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if strings.HasPrefix(s, "[") {
		if !strings.HasSuffix(s, "]") {
			return nil, false
		}
		var js []string
		if err := json.Unmarshal([]byte(s), &js); err == nil {
			return cleanItems(js), true
		}
		return parseLiteral(s[1 : len(s)-1])
	}
	return cleanItems(strings.Split(s, delimiterFor(s))), true
}

func delimiterFor(s string) string {
	switch {
	case strings.Contains(s, ";"):
		return ";"
	case strings.Contains(s, "|"):
		return "|"
	}
	return ","
}

// parseLiteral scans the inside of a python list of strings. Items may be
// single- or double-quoted, with backslash escapes, or bare.
func parseLiteral(s string) ([]string, bool) {
	var (
		items []string
		cur   strings.Builder
		quote rune // 0 outside quotes
		esc   bool
		took  bool // current item had a quoted part
	)
	flush := func() {
		items = append(items, cur.String())
		cur.Reset()
		took = false
	}

	for _, r := range s {
		switch {
		case esc:
			cur.WriteRune(unescape(r))
			esc = false
		case quote != 0 && r == '\\':
			esc = true
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			cur.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
			took = true
		case r == ',':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if quote != 0 || esc {
		return nil, false
	}
	if took || strings.TrimSpace(cur.String()) != "" || len(items) > 0 {
		flush()
	}
	return cleanItems(items), true
}

func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	}
	return r
}

func cleanItems(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

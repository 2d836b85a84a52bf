package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// 1,234 / 12,345,678
var rxThousands = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)

var spaces = strings.NewReplacer("\u00A0", "", "\u202F", "", " ", "", "\t", "")

// ParseNumber parses a numeric cell: "45", "45.0", "1,234", "1 234", "2,5".
// A comma is a thousands separator when it groups by three, otherwise a
// decimal separator.
func ParseNumber(s string) (float64, bool) {
	s = spaces.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	if rxThousands.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseInt is ParseNumber rounded to the nearest int. Values outside the int
// range are rejected.
func ParseInt(s string) (int, bool) {
	f, ok := ParseNumber(s)
	if !ok {
		return 0, false
	}
	f = math.Round(f)
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int(f), true
}

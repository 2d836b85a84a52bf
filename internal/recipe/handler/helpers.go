package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"recipe-finder/internal/recipe/model"
	"recipe-finder/internal/utils"
)

var errNotObject = errors.New("request body must be a JSON object")

// decodeQuery reads the find_recipes body. Missing keys, nulls and values of
// the wrong type fall back to def; only broken JSON is an error.
func decodeQuery(body []byte, def model.Query) (model.Query, error) {
	q := def
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return q, nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return q, errNotObject
		}
		return q, err
	}

	// a null value counts as a missing key
	get := func(key string) (json.RawMessage, bool) {
		v, ok := raw[key]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return nil, false
		}
		return v, true
	}

	if v, ok := get("ingredients"); ok {
		q.Ingredients = stringList(v, def.Ingredients)
	}
	if v, ok := get("tags"); ok {
		q.Tags = stringList(v, def.Tags)
	}
	if v, ok := get("max_cooking_time"); ok {
		q.MaxMinutes = intValue(v, def.MaxMinutes)
	}
	if v, ok := get("similarity_threshold"); ok {
		q.Threshold = floatValue(v, def.Threshold)
	}
	return q, nil
}

// stringList accepts ["a","b"] or a lone "a".
func stringList(raw json.RawMessage, def []string) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && list != nil {
		return list
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		if strings.TrimSpace(one) == "" {
			return []string{}
		}
		return []string{one}
	}
	return def
}

// intValue floors fractional minutes: minutes <= 30.5 is minutes <= 30 for
// whole-minute recipes.
func intValue(raw json.RawMessage, def int) int {
	f, ok := number(raw)
	if !ok {
		return def
	}
	f = math.Floor(f)
	switch {
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int(f)
}

func floatValue(raw json.RawMessage, def float64) float64 {
	if f, ok := number(raw); ok {
		return f
	}
	return def
}

// number accepts a JSON number or a numeric string.
func number(raw json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return utils.ParseNumber(s)
	}
	return 0, false
}

// queryList collects ?tag=a&tag=b and ?tags=a,b.
func queryList(v url.Values, one, many string) []string {
	out := append([]string{}, v[one]...)
	for _, s := range v[many] {
		out = append(out, strings.Split(s, ",")...)
	}
	return out
}

func queryFloat(v url.Values, def float64, keys ...string) float64 {
	for _, k := range keys {
		if s := v.Get(k); s != "" {
			if f, ok := utils.ParseNumber(s); ok {
				return f
			}
		}
	}
	return def
}

func queryInt(v url.Values, key string, def int) int {
	i, err := strconv.Atoi(v.Get(key))
	if err != nil {
		return def
	}
	return i
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	_ = writeJSON(w, status, map[string]string{"error": msg})
}

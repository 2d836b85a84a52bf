package handlers

import (
	"encoding/json"
	"net/http"

	"recipe-finder/internal/dataset"
)

// Health reports liveness and the size of the loaded dataset.
func Health(ds *dataset.Dataset) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "ok",
			"recipes": ds.Len(),
		})
	}
}

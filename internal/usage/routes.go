package usage

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts usage endpoints under /api/usage on the given router.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Route("/api/usage", func(r chi.Router) {
		r.Get("/", handleSummary(store))
		r.Get("/exchanges", handleRecent(store))
	})
}

func handleSummary(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sum, err := store.Summary(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, sum)
	}
}

func handleRecent(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := QueryFilter{
			SessionID: q.Get("session"),
			Path:      q.Get("path"),
			Limit:     50,
		}
		if v := q.Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Limit = n
			}
		}

		exchanges, err := store.Recent(r.Context(), filter)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if exchanges == nil {
			exchanges = []Exchange{}
		}
		writeJSON(w, exchanges)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

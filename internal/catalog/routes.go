package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the read-only updates API on the given router.
// framework names the product in the highlights intro and may be empty.
func RegisterRoutes(r chi.Router, doc *Document, framework string) {
	r.Route("/api/updates", func(r chi.Router) {
		r.Get("/", handleDocument(doc))
		r.Get("/latest", handleLatest(doc, framework))
		r.Get("/search", handleSearch(doc))
	})
}

func handleDocument(doc *Document) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sections := doc.Sections
		if sections == nil {
			sections = []Section{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"sections": sections})
	}
}

func handleLatest(doc *Document, framework string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"content": SummarizeHighlightsFor(doc, framework)})
	}
}

type searchResponse struct {
	Keyword string   `json:"keyword"`
	Content string   `json:"content"`
	Match   *Located `json:"match,omitempty"`
}

func handleSearch(doc *Document) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "" {
			http.Error(w, `{"error":"q parameter is required"}`, http.StatusBadRequest)
			return
		}

		resp := searchResponse{Keyword: q, Content: Lookup(q, doc)}
		if loc, ok := Find(q, doc); ok {
			resp.Match = &loc
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

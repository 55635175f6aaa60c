package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/perthos/docpress/internal/apperr"
	"github.com/perthos/docpress/internal/query"
)

// Handler exposes the query service over HTTP.
type Handler struct {
	svc *query.Service
}

// NewHandler creates an API handler around a query service.
func NewHandler(svc *query.Service) *Handler {
	return &Handler{svc: svc}
}

// ListSources handles GET /sources?filter=&stats=true.
func (h *Handler) ListSources(w http.ResponseWriter, r *http.Request) {
	includeStats := r.URL.Query().Get("stats") == "true"
	sources, err := h.svc.ListSources(r.URL.Query().Get("filter"), includeStats)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SourceListResponse{Sources: sources, Total: len(sources)})
}

// GetFile handles GET /files/{slug-or-path}.
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "*")
	result, err := h.svc.GetFile(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Search handles GET /search?q=&source=&limit=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("limit must be an integer"))
			return
		}
		limit = n
	}

	results, err := h.svc.Search(q, r.URL.Query().Get("source"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if results == nil {
		results = []query.SearchResult{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Stats handles GET /stats?detailed=true.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.URL.Query().Get("detailed") == "true")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// writeError maps the query error taxonomy onto HTTP status codes. Absence
// is a 404, malformed parameters are a 400; anything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
	}
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/perthos/docpress/internal/query"
)

// NewRouter creates a chi router with all query routes mounted. Every route
// is read-only; the API has no write access to the store by construction.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(svc *query.Service, authEnabled bool, token string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/sources", h.ListSources)
	r.Get("/files/*", h.GetFile)
	r.Get("/search", h.Search)
	r.Get("/stats", h.Stats)

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("read-only API"))
	})

	return r
}

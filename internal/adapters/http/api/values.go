package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/cockpit/internal/adapters/repository"
)

// ValueReader reads the latest published values.
type ValueReader interface {
	Get(ctx context.Context, category, field string) (repository.Entry, error)
	List(ctx context.Context, category string) []repository.Entry
}

// ValuesHandler serves the value store.
type ValuesHandler struct {
	deps ValueReader
}

// NewValuesHandler creates a new values handler.
func NewValuesHandler(deps ValueReader) *ValuesHandler {
	return &ValuesHandler{deps: deps}
}

type valuesResponse struct {
	Count  int                `json:"count"`
	Values []repository.Entry `json:"values"`
}

// HandleList handles GET /values[?category=] requests.
func (h *ValuesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	entries := h.deps.List(r.Context(), r.URL.Query().Get("category"))
	writeJSON(w, http.StatusOK, valuesResponse{Count: len(entries), Values: entries})
}

// HandleGet handles GET /values/{category}/{field} requests. Field names
// may contain '/', so only the first separator splits the path.
func (h *ValuesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	category, field, ok := strings.Cut(strings.TrimPrefix(r.URL.Path, "/values/"), "/")
	if !ok || category == "" || field == "" {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: want /values/{category}/{field}", ErrBadRequest))
		return
	}
	entry, err := h.deps.Get(r.Context(), category, field)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

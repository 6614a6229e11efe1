package api

import (
	"net/http"

	"github.com/okian/cockpit/internal/domain/binding"
)

// BindingLister lists the active bindings.
type BindingLister interface {
	Bindings() []binding.View
}

// BindingsHandler handles binding requests.
type BindingsHandler struct {
	deps BindingLister
}

// NewBindingsHandler creates a new bindings handler.
func NewBindingsHandler(deps BindingLister) *BindingsHandler {
	return &BindingsHandler{deps: deps}
}

type bindingsResponse struct {
	Count    int            `json:"count"`
	Bindings []binding.View `json:"bindings"`
}

// HandleList handles GET /bindings requests.
func (h *BindingsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	views := h.deps.Bindings()
	writeJSON(w, http.StatusOK, bindingsResponse{Count: len(views), Bindings: views})
}

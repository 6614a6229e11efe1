package api

import (
	"net/http"

	"github.com/okian/cockpit/internal/domain/telemetry"
)

// ContactReader returns the visible RWR contacts.
type ContactReader interface {
	Contacts() []telemetry.RadarContact
}

// ContactsHandler handles contact requests.
type ContactsHandler struct {
	deps ContactReader
}

// NewContactsHandler creates a new contacts handler.
func NewContactsHandler(deps ContactReader) *ContactsHandler {
	return &ContactsHandler{deps: deps}
}

type contactsResponse struct {
	Count    int                      `json:"count"`
	Contacts []telemetry.RadarContact `json:"contacts"`
}

// HandleList handles GET /contacts requests.
func (h *ContactsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	contacts := h.deps.Contacts()
	writeJSON(w, http.StatusOK, contactsResponse{Count: len(contacts), Contacts: contacts})
}

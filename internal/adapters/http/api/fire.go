package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/okian/cockpit/internal/domain/binding"
	"github.com/okian/cockpit/internal/domain/capability"
	"github.com/okian/cockpit/internal/domain/value"
)

// maxFireBody caps POST /fire request bodies.
const maxFireBody = 64 << 10

// Firer fires a registered trigger as if its component had.
type Firer interface {
	Fire(ctx context.Context, source capability.NamedSlot, v value.Value) error
}

// FireHandler injects trigger firings.
type FireHandler struct {
	deps Firer
}

// NewFireHandler creates a new fire handler.
func NewFireHandler(deps Firer) *FireHandler {
	return &FireHandler{deps: deps}
}

// fireRequest mirrors the OpenAPI schema for POST /fire. The kind, unit and
// value members are decoded by value.Value itself.
type fireRequest struct {
	Device string `json:"device"`
	Name   string `json:"name"`
}

func (f fireRequest) validate() error {
	switch {
	case strings.TrimSpace(f.Device) == "":
		return fmt.Errorf("%w: missing device", ErrBadRequest)
	case strings.TrimSpace(f.Name) == "":
		return fmt.Errorf("%w: missing name", ErrBadRequest)
	}
	return nil
}

type fireResponse struct {
	Status string               `json:"status"`
	Source capability.NamedSlot `json:"source"`
	Value  value.Value          `json:"value"`
}

// HandleFire handles POST /fire requests.
func (h *FireHandler) HandleFire(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxFireBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", err)
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	var req fireRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	var v value.Value
	if err := json.Unmarshal(body, &v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: value: %w", ErrBadRequest, err))
		return
	}

	source := capability.Slot(req.Device, req.Name)
	if err := h.deps.Fire(r.Context(), source, v); err != nil {
		if errors.Is(err, binding.ErrUnknownSource) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusBadGateway, "dispatch_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, fireResponse{Status: "fired", Source: source, Value: v})
}

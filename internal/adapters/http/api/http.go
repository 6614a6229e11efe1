// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/cockpit/internal/adapters/repository"
	"github.com/okian/cockpit/internal/domain/capability"
)

// Server wires HTTP routes for the cockpit API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	valuesHandler   *ValuesHandler
	bindingsHandler *BindingsHandler
	fireHandler     *FireHandler
	contactsHandler *ContactsHandler
}

// Dependencies bundles every read and write the handlers need.
type Dependencies interface {
	ValueReader
	BindingLister
	Firer
	ContactReader
	StatsProvider
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(deps),
		valuesHandler:   NewValuesHandler(deps),
		bindingsHandler: NewBindingsHandler(deps),
		fireHandler:     NewFireHandler(deps),
		contactsHandler: NewContactsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/values", MetricsMiddleware(s.valuesHandler.HandleList, "values"))
	mux.HandleFunc("/values/", MetricsMiddleware(s.valuesHandler.HandleGet, "value"))
	mux.HandleFunc("/bindings", MetricsMiddleware(s.bindingsHandler.HandleList, "bindings"))
	mux.HandleFunc("/fire", MetricsMiddleware(s.fireHandler.HandleFire, "fire"))
	mux.HandleFunc("/contacts", MetricsMiddleware(s.contactsHandler.HandleList, "contacts"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before touching the response, so an encoding failure
// still reaches the client as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Code: "encode_failed", Message: err.Error()})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, repository.ErrNotFound) ||
		errors.Is(err, capability.ErrUnknownSlot)
}

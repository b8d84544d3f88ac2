package http

import (
	"context"
	"net/http"
	"time"

	"github.com/worldorder/worldorder/pkg/logger"
)

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RootHandler struct {
	version string
	db      Pinger
	logger  logger.Logger
}

// NewRootHandler serves the root and health endpoints. db may be nil.
func NewRootHandler(version string, db Pinger, logger logger.Logger) *RootHandler {
	return &RootHandler{
		version: version,
		db:      db,
		logger:  logger,
	}
}

func (h *RootHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/healthz", http.HandlerFunc(h.handleHealth))
	mux.Handle("/", http.HandlerFunc(h.Handle))
}

func (h *RootHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteJSONError(w, "Not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "worldorder",
		"status":  "running",
	})
}

func (h *RootHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.WithField("error", err.Error()).Warn("Health check failed to reach database")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "unavailable",
				"version": h.version,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

package handlers

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/club-games-service/internal/http/middleware"
	"github.com/preston-bernstein/club-games-service/internal/logging"
)

// TeamReloader refetches the team list and drops games assembled with the old one.
type TeamReloader interface {
	ReloadTeams(ctx context.Context) error
}

// AdminHandler exposes admin-only endpoints.
type AdminHandler struct {
	reloader TeamReloader
	token    string
	logger   *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. An empty token disables every admin route.
func NewAdminHandler(reloader TeamReloader, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		reloader: reloader,
		token:    token,
		logger:   logger,
	}
}

// ReloadTeams clears the persisted team list and reloads it from upstream.
// Requires "Authorization: Bearer <ADMIN_TOKEN>".
func (h *AdminHandler) ReloadTeams(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(r) {
		logging.Warn(h.logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", middleware.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}
	if h.reloader == nil {
		writeError(w, r, http.StatusServiceUnavailable, "team reload not configured", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	start := time.Now()
	if err := h.reloader.ReloadTeams(r.Context()); err != nil {
		logging.Warn(logger, "admin team reload failed", "err", err)
		writeError(w, r, http.StatusBadGateway, "failed to reload teams", logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	logging.Info(logger, "admin team reload complete",
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}

package http

import (
	nethttp "net/http"

	"github.com/preston-bernstein/club-games-service/internal/http/handlers"
)

// NewRouter registers HTTP routes on a ServeMux. admin may be nil.
func NewRouter(handler *handlers.Handler, admin *handlers.AdminHandler) *nethttp.ServeMux {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("GET /ready", handler.Ready)
	mux.HandleFunc("GET /games", handler.Games)
	mux.HandleFunc("GET /games/upcoming", handler.Upcoming)
	mux.HandleFunc("GET /games/upcoming/count", handler.UpcomingCount)
	mux.HandleFunc("GET /games/current", handler.Current)
	mux.HandleFunc("GET /games/future", handler.Future)
	mux.HandleFunc("GET /games/{id}", handler.GameByID)
	if admin != nil {
		mux.HandleFunc("POST /admin/reference/teams/reload", admin.ReloadTeams)
	}
	return mux
}

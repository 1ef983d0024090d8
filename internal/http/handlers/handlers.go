package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/preston-bernstein/club-games-service/internal/domain/games"
	"github.com/preston-bernstein/club-games-service/internal/gamedata"
	"github.com/preston-bernstein/club-games-service/internal/logging"
	"github.com/preston-bernstein/club-games-service/internal/timeutil"
	"github.com/preston-bernstein/club-games-service/internal/warmer"
)

const maxFutureLimit = 50

// GamesService is the read side of the game data layer.
type GamesService interface {
	GetGames(ctx context.Context, q gamedata.GameQuery) []games.Game
	GetGameByID(ctx context.Context, id string, useCache bool) *games.Game
	GetUpcomingGamesMasterData(ctx context.Context, force bool) []games.Game
	CurrentGame(ctx context.Context) *games.Game
	FutureGames(ctx context.Context, limit int) []games.Game
	UpcomingCount(ctx context.Context) int
	WithCurrentStatus(list []games.Game) []games.Game
}

// GamesResponse wraps a list of games.
type GamesResponse struct {
	Count int          `json:"count"`
	Games []games.Game `json:"games"`
}

// CurrentResponse carries the featured game, null when there is none.
type CurrentResponse struct {
	Game *games.Game `json:"game"`
}

// CountResponse carries a bare count.
type CountResponse struct {
	Count int `json:"count"`
}

// Handler wires HTTP routes to the games service.
type Handler struct {
	svc      GamesService
	logger   *slog.Logger
	statusFn func() warmer.Status
}

// NewHandler constructs a Handler. statusFn may be nil when no warmer runs.
func NewHandler(svc GamesService, logger *slog.Logger, statusFn func() warmer.Status) *Handler {
	return &Handler{
		svc:      svc,
		logger:   logger,
		statusFn: statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic: the warmer must have filled the
// master cache recently.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.statusFn == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ready", "warmer": status}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, http.StatusServiceUnavailable, msg, h.logger)
}

// Games serves a filtered games query.
func (h *Handler) Games(w http.ResponseWriter, r *http.Request) {
	q, err := parseGameQuery(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	list := h.svc.WithCurrentStatus(h.svc.GetGames(r.Context(), q))
	logging.Debug(loggerFromContext(r, h.logger), "served games",
		logging.FieldSignature, gamedata.QueryKey(q),
		logging.FieldCount, len(list),
	)
	writeJSON(w, http.StatusOK, GamesResponse{Count: len(list), Games: list}, h.logger)
}

// Upcoming serves the master upcoming-games snapshot; force=true reloads it.
func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	force, err := boolParam(r, "force", false)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	list := h.svc.WithCurrentStatus(h.svc.GetUpcomingGamesMasterData(r.Context(), force))
	writeJSON(w, http.StatusOK, GamesResponse{Count: len(list), Games: list}, h.logger)
}

// UpcomingCount serves the number of upcoming games in the master snapshot.
func (h *Handler) UpcomingCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CountResponse{Count: h.svc.UpcomingCount(r.Context())}, h.logger)
}

// Current serves the game to feature now.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CurrentResponse{Game: h.current(h.svc.CurrentGame(r.Context()))}, h.logger)
}

// Future serves the next upcoming games after the current one.
func (h *Handler) Future(w http.ResponseWriter, r *http.Request) {
	limit := gamedata.DefaultFutureLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxFutureLimit {
			writeError(w, r, http.StatusBadRequest, "invalid limit", h.logger)
			return
		}
		limit = n
	}
	list := h.svc.WithCurrentStatus(h.svc.FutureGames(r.Context(), limit))
	writeJSON(w, http.StatusOK, GamesResponse{Count: len(list), Games: list}, h.logger)
}

// GameByID serves one game; use_cache=false skips every cache.
func (h *Handler) GameByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" || strings.ContainsAny(id, " \t/") {
		writeError(w, r, http.StatusBadRequest, "invalid game id", h.logger)
		return
	}
	useCache, err := boolParam(r, "use_cache", true)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	game := h.svc.GetGameByID(r.Context(), id, useCache)
	if game == nil {
		writeError(w, r, http.StatusNotFound, "game not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.current(game), h.logger)
}

// current copies g with its status as of now; nil stays nil.
func (h *Handler) current(g *games.Game) *games.Game {
	if g == nil {
		return nil
	}
	return &h.svc.WithCurrentStatus([]games.Game{*g})[0]
}

func parseGameQuery(r *http.Request) (gamedata.GameQuery, error) {
	values := r.URL.Query()
	q := gamedata.GameQuery{
		DateFrom: strings.TrimSpace(values.Get("date_from")),
		DateTo:   strings.TrimSpace(values.Get("date_to")),
		League:   strings.TrimSpace(values.Get("league")),
		Season:   strings.TrimSpace(values.Get("season")),
		Teams:    strings.TrimSpace(values.Get("teams")),
	}
	for name, value := range map[string]string{"date_from": q.DateFrom, "date_to": q.DateTo} {
		if value == "" {
			continue
		}
		if _, err := timeutil.ParseDate(value); err != nil {
			return q, badParam(name + " must be YYYY-MM-DD")
		}
	}
	f2f, err := boolParam(r, "f2f", false)
	if err != nil {
		return q, err
	}
	useCache, err := boolParam(r, "use_cache", true)
	if err != nil {
		return q, err
	}
	q.F2F = f2f
	q.BypassCache = !useCache
	return q, nil
}

func boolParam(r *http.Request, name string, def bool) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, badParam("invalid " + name)
	}
	return v, nil
}

type badParam string

func (e badParam) Error() string { return string(e) }

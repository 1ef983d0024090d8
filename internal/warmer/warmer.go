// Package warmer keeps the master upcoming-games cache hot by force-reloading
// it on an interval.
package warmer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/club-games-service/internal/domain/games"
	"github.com/preston-bernstein/club-games-service/internal/gamedata"
	"github.com/preston-bernstein/club-games-service/internal/logging"
	"github.com/preston-bernstein/club-games-service/internal/metrics"
)

const defaultInterval = 4 * time.Minute

// readyFailureLimit is the number of consecutive failed cycles after which
// the warmer no longer reports ready.
const readyFailureLimit = 3

// MasterLoader reloads the master upcoming-games snapshot.
type MasterLoader interface {
	FetchUpcoming(ctx context.Context, force bool) gamedata.Result[[]games.Game]
}

// Warmer refreshes the master cache on an interval, starting with one
// refresh at boot.
type Warmer struct {
	loader   MasterLoader
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration
	now      func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the warm loop.
type Status struct {
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	LastError           string    `json:"lastError,omitempty"`
	LastAttempt         time.Time `json:"lastAttempt"`
	LastSuccess         time.Time `json:"lastSuccess"`
	LastCount           int       `json:"lastCount"`
}

// IsReady reports whether the warmer has had a success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < readyFailureLimit
}

// New constructs a Warmer. interval <= 0 uses the default.
func New(loader MasterLoader, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Warmer {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Warmer{
		loader:   loader,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start begins warming until the context is cancelled or Stop is called.
func (w *Warmer) Start(ctx context.Context) {
	w.startMu.Lock()
	if w.started {
		w.startMu.Unlock()
		return
	}
	w.started = true
	w.ticker = time.NewTicker(w.interval)
	w.startMu.Unlock()

	go func() {
		logging.Info(w.logger, "cache warmer started", slog.Int64(logging.FieldDurationMS, w.interval.Milliseconds()))
		w.warmOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				w.stopTicker()
				logging.Info(w.logger, "cache warmer stopped")
				return
			case <-w.done:
				w.stopTicker()
				logging.Info(w.logger, "cache warmer stopped")
				return
			case <-w.ticker.C:
				w.warmOnce(ctx)
			}
		}
	}()
}

// Stop halts the warm loop.
func (w *Warmer) Stop(ctx context.Context) error {
	_ = ctx
	w.stopOnce.Do(func() {
		close(w.done)
		w.stopTicker()
	})
	return nil
}

func (w *Warmer) warmOnce(ctx context.Context) {
	if w.loader == nil {
		return
	}
	start := w.now()
	w.recordAttempt(start)

	res := w.loader.FetchUpcoming(ctx, true)
	elapsed := w.now().Sub(start)
	w.metrics.RecordWarmCycle(elapsed, res.Err)
	if !res.OK() {
		logging.Error(w.logger, "cache warm failed", res.Err, logging.FieldDurationMS, elapsed.Milliseconds())
		w.recordFailure(res.Err, start)
		return
	}

	w.recordSuccess(start, len(res.Value))
	logging.Info(w.logger, "cache warmed",
		logging.FieldCount, len(res.Value),
		logging.FieldDurationMS, elapsed.Milliseconds(),
	)
}

func (w *Warmer) stopTicker() {
	w.startMu.Lock()
	defer w.startMu.Unlock()
	if w.ticker != nil {
		w.ticker.Stop()
	}
}

func (w *Warmer) recordAttempt(at time.Time) {
	w.statusMu.Lock()
	defer w.statusMu.Unlock()
	w.status.LastAttempt = at
}

func (w *Warmer) recordSuccess(at time.Time, count int) {
	w.statusMu.Lock()
	defer w.statusMu.Unlock()
	w.status.ConsecutiveFailures = 0
	w.status.LastError = ""
	w.status.LastSuccess = at
	w.status.LastCount = count
}

func (w *Warmer) recordFailure(err error, at time.Time) {
	w.statusMu.Lock()
	defer w.statusMu.Unlock()
	w.status.ConsecutiveFailures++
	if err != nil {
		w.status.LastError = err.Error()
	}
	w.status.LastAttempt = at
}

// Status returns a snapshot of the warmer's recent health.
func (w *Warmer) Status() Status {
	w.statusMu.RLock()
	defer w.statusMu.RUnlock()
	return w.status
}

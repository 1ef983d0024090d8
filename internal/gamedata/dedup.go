package gamedata

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/preston-bernstein/club-games-service/internal/metrics"
)

// Deduplicator collapses concurrent calls sharing a key into one execution.
// The key is forgotten once the call completes, whether it failed or not.
type Deduplicator[T any] struct {
	group    singleflight.Group
	recorder *metrics.Recorder
}

// NewDeduplicator builds a deduplicator that reports joins to recorder.
func NewDeduplicator[T any](recorder *metrics.Recorder) *Deduplicator[T] {
	return &Deduplicator[T]{recorder: recorder}
}

// Do runs fn once per in-flight key and hands every caller the same outcome.
// fn runs detached from the caller's cancellation so one caller giving up does
// not fail the others; a caller whose ctx ends stops waiting and gets ctx.Err().
func (d *Deduplicator[T]) Do(ctx context.Context, key string, fn func(context.Context) (T, error)) (T, error, bool) {
	work := context.WithoutCancel(ctx)
	ch := d.group.DoChan(key, func() (any, error) {
		return fn(work)
	})

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err(), false
	case res := <-ch:
		if res.Shared {
			d.recorder.RecordDedupJoin()
		}
		v, _ := res.Val.(T)
		return v, res.Err, res.Shared
	}
}

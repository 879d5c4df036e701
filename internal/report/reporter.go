// Package report runs the periodic snapshot publisher. The engine itself
// spawns no goroutines; this is the one background loop in the process
// and it only ever reads the aggregates.
package report

import (
	"context"
	"log/slog"
	"time"

	"onemrc.dev/event-stats-backend/internal/sink"
	"onemrc.dev/event-stats-backend/internal/stats"
)

// Reporter publishes the cumulative aggregate snapshot to a sink on a
// fixed interval, skipping intervals where nothing was recorded.
type Reporter struct {
	agg      *stats.Aggregator
	interval time.Duration
	sink     sink.Sink
	logger   *slog.Logger

	nowFn func() time.Time

	// Loop-goroutine owned
	lastTotal uint64

	stop chan struct{}
	done chan struct{}
}

func New(agg *stats.Aggregator, interval time.Duration, s sink.Sink, logger *slog.Logger) *Reporter {
	r := &Reporter{
		agg:      agg,
		interval: interval,
		sink:     s,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	r.nowFn = time.Now

	return r
}

// Start begins the publish loop.
func (r *Reporter) Start(ctx context.Context) {
	go func() {
		defer close(r.done)

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				r.publish(context.Background())
				return
			case <-r.stop:
				r.publish(context.Background())
				return
			case <-ticker.C:
				r.publish(ctx)
			}
		}
	}()
}

// Stop requests the loop to stop and waits for completion.
func (r *Reporter) Stop(ctx context.Context) {
	select {
	case <-r.done:
		return
	default:
	}

	close(r.stop)

	select {
	case <-r.done:
		return
	case <-ctx.Done():
		return
	}
}

func (r *Reporter) publish(ctx context.Context) {
	snap := r.agg.Snapshot()
	// Quiet intervals produce no line.
	if snap.TotalRequests == r.lastTotal {
		return
	}

	r.lastTotal = snap.TotalRequests

	rep := sink.Report{UnixMillis: r.nowFn().UnixMilli(), Stats: snap}
	if err := r.sink.Publish(ctx, rep); err != nil {
		r.logger.Error("failed to publish report",
			slog.String("err", err.Error()),
			slog.Uint64("total_requests", snap.TotalRequests),
		)
	}
}

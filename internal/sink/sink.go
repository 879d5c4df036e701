package sink

import (
	"context"

	"onemrc.dev/event-stats-backend/internal/stats"
)

//go:generate mockgen -source=sink.go -destination=./mocks/mock_sink.go -package=mocks

// Report is a timestamped copy of the cumulative aggregates, emitted
// periodically so operators can follow the totals without querying the
// service.
type Report struct {
	UnixMillis int64          `json:"ts"`
	Stats      stats.Snapshot `json:"stats"`
}

// Sink publishes reports. A JSON writer implementation ships in this
// package; tests substitute their own.
type Sink interface {
	Publish(ctx context.Context, r Report) error
}

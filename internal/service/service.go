package service

//go:generate mockgen -source=service.go -destination=./mocks/mock_service.go -package=mocks

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"

	cfgpkg "onemrc.dev/event-stats-backend/internal/config"
	"onemrc.dev/event-stats-backend/internal/report"
	"onemrc.dev/event-stats-backend/internal/sink"
	"onemrc.dev/event-stats-backend/internal/stats"
)

const instrumentationName = "onemrc.dev/event-stats-backend"

// Recorder is the contract the HTTP layer consumes: record one validated
// event, read the aggregate view, optionally reset it, bump counters.
type Recorder interface {
	Record(ctx context.Context, userID string, value float64)
	Snapshot(ctx context.Context) stats.Snapshot
	Reset(ctx context.Context) bool
	IncrMetric(ctx context.Context, mt MetricType, n int64)
}

// Service holds all instance-scoped dependencies and metrics. One
// instance is built at startup and threaded through the call sites; the
// aggregation engine inside it is the process's single shared mutable
// resource.
type Service struct {
	Cfg    cfgpkg.Config
	Logger *slog.Logger
	Tracer oteltrace.Tracer
	Meter  otelmetric.Meter

	// Metrics
	EventsReceived  otelmetric.Int64Counter
	EventsRecorded  otelmetric.Int64Counter
	EventsRejected  otelmetric.Int64Counter
	SnapshotsServed otelmetric.Int64Counter
	Resets          otelmetric.Int64Counter

	Aggregator *stats.Aggregator

	outSink  sink.Sink
	reporter *report.Reporter

	repCancel context.CancelFunc
}

// Option customizes Service construction.
type Option func(*Service) error

// WithSink overrides the default stdout JSON sink with a custom sink (useful for tests).
func WithSink(s sink.Sink) Option {
	return func(svc *Service) error { svc.outSink = s; return nil }
}

func New(cfg cfgpkg.Config, logger *slog.Logger, opts ...Option) (*Service, error) {
	s := &Service{
		Cfg:    cfg,
		Logger: logger,
		Tracer: otel.Tracer(instrumentationName),
		Meter:  otel.Meter(instrumentationName),
	}

	var err error
	if s.EventsReceived, err = s.Meter.Int64Counter(
		"dev.onemrc.events.received",
		otelmetric.WithDescription("The number of event submissions received by event-stats-backend"),
		otelmetric.WithUnit("{event}"),
	); err != nil {
		return nil, err
	}

	if s.EventsRecorded, err = s.Meter.Int64Counter(
		"dev.onemrc.events.recorded",
		otelmetric.WithDescription("The number of events folded into the aggregates"),
		otelmetric.WithUnit("{event}"),
	); err != nil {
		return nil, err
	}

	if s.EventsRejected, err = s.Meter.Int64Counter(
		"dev.onemrc.events.rejected",
		otelmetric.WithDescription("The number of event submissions rejected before recording"),
		otelmetric.WithUnit("{event}"),
	); err != nil {
		return nil, err
	}

	if s.SnapshotsServed, err = s.Meter.Int64Counter(
		"dev.onemrc.snapshots.served",
		otelmetric.WithDescription("Number of statistics snapshots served"),
		otelmetric.WithUnit("{snapshot}"),
	); err != nil {
		return nil, err
	}

	if s.Resets, err = s.Meter.Int64Counter(
		"dev.onemrc.resets",
		otelmetric.WithDescription("Number of administrative resets performed"),
		otelmetric.WithUnit("{reset}"),
	); err != nil {
		return nil, err
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	// Default sink to stdout JSON if not set
	if s.outSink == nil {
		s.outSink = sink.NewStdoutJSON()
	}

	s.Aggregator = stats.New(cfg.Stripes)

	if cfg.ReportInterval > 0 {
		s.reporter = report.New(s.Aggregator, cfg.ReportInterval, s.outSink, logger)
	}

	return s, nil
}

// Start starts the service's internal components (the periodic reporter).
// It is safe to call more than once; subsequent calls are no-ops until Close.
func (s *Service) Start(ctx context.Context) {
	if s.reporter == nil || s.repCancel != nil {
		return
	}

	ctx, span := s.Tracer.Start(ctx, "service.Start")
	defer span.End()

	s.Logger.DebugContext(ctx, "service.Start: begin")
	repCtx, cancel := context.WithCancel(ctx)
	s.repCancel = cancel
	s.reporter.Start(repCtx)
	s.Logger.DebugContext(ctx, "service.Start: started reporter")
}

// Close stops the reporter and waits for its final flush.
func (s *Service) Close(ctx context.Context) error {
	ctx, span := s.Tracer.Start(ctx, "service.Close")
	defer span.End()

	s.Logger.DebugContext(ctx, "service.Close: begin")

	if s.repCancel != nil {
		s.repCancel()

		if s.reporter != nil {
			s.reporter.Stop(ctx)
		}

		s.repCancel = nil
	}

	s.Logger.DebugContext(ctx, "service.Close: end")

	return nil
}

// Record folds one validated event into the aggregates. This is the hot
// path; per-event spans are left to the HTTP instrumentation layer.
func (s *Service) Record(_ context.Context, userID string, value float64) {
	s.Aggregator.Record(userID, value)
}

// Snapshot returns the current aggregate view.
func (s *Service) Snapshot(ctx context.Context) stats.Snapshot {
	ctx, span := s.Tracer.Start(ctx, "service.Snapshot")
	defer span.End()

	snap := s.Aggregator.Snapshot()
	span.SetAttributes(
		attribute.Int64("stats.total_requests", int64(snap.TotalRequests)),
		attribute.Int64("stats.unique_users", int64(snap.UniqueUsers)),
	)

	return snap
}

// Reset clears the aggregates and reports whether it ran; it is refused
// unless enabled in the configuration. The clear is not atomic across
// fields, so it must only run while no event traffic is in flight.
func (s *Service) Reset(ctx context.Context) bool {
	if !s.Cfg.EnableReset {
		return false
	}

	ctx, span := s.Tracer.Start(ctx, "service.Reset")
	defer span.End()

	s.Aggregator.Reset()
	s.IncrMetric(ctx, MetricResets, 1)
	s.Logger.InfoContext(ctx, "aggregates reset")

	return true
}

// MetricType enumerates service metric counters.
type MetricType int

const (
	MetricEventsReceived MetricType = iota
	MetricEventsRecorded
	MetricEventsRejected
	MetricSnapshotsServed
	MetricResets
)

// IncrMetric increments the selected metric by n (if n > 0).
func (s *Service) IncrMetric(ctx context.Context, mt MetricType, n int64) {
	if n <= 0 {
		return
	}

	switch mt {
	case MetricEventsReceived:
		s.EventsReceived.Add(ctx, n)
	case MetricEventsRecorded:
		s.EventsRecorded.Add(ctx, n)
	case MetricEventsRejected:
		s.EventsRejected.Add(ctx, n)
	case MetricSnapshotsServed:
		s.SnapshotsServed.Add(ctx, n)
	case MetricResets:
		s.Resets.Add(ctx, n)
	}
}

package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"onemrc.dev/event-stats-backend/internal/service"
)

// Event is the ingest payload posted to /event.
type Event struct {
	UserID string  `json:"userId"`
	Value  float64 `json:"value"`
}

// Server decodes and validates incoming events before they reach the
// engine, and serializes snapshots on the way out. It owns all input
// rejection: by contract the engine never sees an empty user id.
type Server struct {
	svc service.Recorder
}

// NewServer returns an HTTP API backed by the provided Recorder.
func NewServer(svc service.Recorder) *Server {
	return &Server{svc: svc}
}

// Handler returns the route mux. The reset route is always registered;
// the service refuses the operation unless it was enabled, and the
// refusal is served as 404 so a production deployment does not advertise
// the endpoint's existence.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/event", s.handleEvent)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/reset", s.handleReset)

	return mux
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	s.svc.IncrMetric(ctx, service.MetricEventsReceived, 1)

	var ev Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		s.svc.IncrMetric(ctx, service.MetricEventsRejected, 1)
		http.Error(w, "invalid JSON body", http.StatusBadRequest)

		return
	}

	if ev.UserID == "" {
		s.svc.IncrMetric(ctx, service.MetricEventsRejected, 1)
		http.Error(w, "userId is required", http.StatusBadRequest)

		return
	}

	s.svc.Record(ctx, ev.UserID, ev.Value)
	s.svc.IncrMetric(ctx, service.MetricEventsRecorded, 1)

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	snap := s.svc.Snapshot(ctx)
	s.svc.IncrMetric(ctx, service.MetricSnapshotsServed, 1)

	// Use the span started by the HTTP OTel middleware.
	span := oteltrace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.Int64("stats.total_requests", int64(snap.TotalRequests)),
		attribute.Int64("stats.unique_users", int64(snap.UniqueUsers)),
	)

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(snap); err != nil {
		slog.ErrorContext(ctx, "failed to encode stats response", slog.String("err", err.Error()))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(map[string]string{"status": "healthy"}); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode health response", slog.String("err", err.Error()))
	}
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	if !s.svc.Reset(ctx) {
		http.NotFound(w, r)
		return
	}

	slog.DebugContext(ctx, "handled administrative reset")
	w.WriteHeader(http.StatusNoContent)
}

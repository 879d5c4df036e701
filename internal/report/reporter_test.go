package report

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"onemrc.dev/event-stats-backend/internal/sink"
	"onemrc.dev/event-stats-backend/internal/sink/mocks"
	"onemrc.dev/event-stats-backend/internal/stats"
)

type fakeSink struct {
	got      atomic.Pointer[sink.Report]
	publishN atomic.Int64
}

func (f *fakeSink) Publish(_ context.Context, r sink.Report) error {
	f.got.Store(&r)
	f.publishN.Add(1)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReporter_PublishesSnapshot(t *testing.T) {
	agg := stats.New(4)
	fs := &fakeSink{}

	r := New(agg, 20*time.Millisecond, fs, discardLogger())
	r.nowFn = func() time.Time { return time.UnixMilli(1700000000000) }

	agg.Record("alice", 10)
	agg.Record("bob", 20)

	r.Start(context.Background())
	defer r.Stop(context.Background())

	require.Eventually(t, func() bool { return fs.got.Load() != nil }, 300*time.Millisecond, 5*time.Millisecond)

	rep := fs.got.Load()
	require.EqualValues(t, 1700000000000, rep.UnixMillis)
	require.EqualValues(t, 2, rep.Stats.TotalRequests)
	require.EqualValues(t, 2, rep.Stats.UniqueUsers)
	require.InDelta(t, 30, rep.Stats.Sum, 0)
}

func TestReporter_SkipsQuietIntervals(t *testing.T) {
	agg := stats.New(4)
	fs := &fakeSink{}

	r := New(agg, 10*time.Millisecond, fs, discardLogger())
	r.Start(context.Background())
	defer r.Stop(context.Background())

	// Nothing recorded: several ticks must pass without a publish.
	time.Sleep(60 * time.Millisecond)
	require.Zero(t, fs.publishN.Load())

	agg.Record("alice", 1)
	require.Eventually(t, func() bool { return fs.publishN.Load() == 1 }, 300*time.Millisecond, 5*time.Millisecond)

	// Totals unchanged after the publish: no further lines.
	time.Sleep(60 * time.Millisecond)
	require.EqualValues(t, 1, fs.publishN.Load())
}

func TestReporter_FinalFlushOnStop(t *testing.T) {
	agg := stats.New(4)
	fs := &fakeSink{}

	// Interval far beyond the test duration; only the stop flush can publish.
	r := New(agg, time.Hour, fs, discardLogger())
	r.Start(context.Background())

	agg.Record("alice", 5)
	r.Stop(context.Background())

	require.EqualValues(t, 1, fs.publishN.Load())
	require.EqualValues(t, 1, fs.got.Load().Stats.TotalRequests)
}

func TestReporter_LogsPublishFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ms := mocks.NewMockSink(ctrl)
	ms.EXPECT().Publish(gomock.Any(), gomock.AssignableToTypeOf(sink.Report{})).
		Return(errors.New("boom")).MinTimes(1)

	agg := stats.New(4)
	agg.Record("alice", 1)

	r := New(agg, time.Hour, ms, discardLogger())
	r.Start(context.Background())
	r.Stop(context.Background())
}

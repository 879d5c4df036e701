package stats

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregator_EmptySnapshot(t *testing.T) {
	snap := New(0).Snapshot()

	require.Zero(t, snap.TotalRequests)
	require.Zero(t, snap.UniqueUsers)
	require.Zero(t, snap.Sum)
	require.Zero(t, snap.Avg) // division guarded, not NaN
}

func TestAggregator_SequentialRecords(t *testing.T) {
	a := New(8)
	a.Record("alice", 10)
	a.Record("bob", 20)
	a.Record("alice", 5)

	snap := a.Snapshot()
	require.EqualValues(t, 3, snap.TotalRequests)
	require.EqualValues(t, 2, snap.UniqueUsers)
	require.InDelta(t, 35, snap.Sum, 0)
	require.InDelta(t, 11.6667, snap.Avg, 1e-4)
}

func TestAggregator_ConcurrentRecords(t *testing.T) {
	const (
		goroutines = 50
		perG       = 20
		userPool   = 75_000
	)

	a := New(0)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)

		go func(g int) {
			defer wg.Done()

			for j := 0; j < perG; j++ {
				i := g*perG + j
				a.Record(fmt.Sprintf("user_%d", i%userPool), float64(i%1000))
			}
		}(g)
	}
	wg.Wait()

	const n = goroutines * perG

	var wantSum float64
	for i := 0; i < n; i++ {
		wantSum += float64(i % 1000)
	}

	snap := a.Snapshot()
	require.EqualValues(t, n, snap.TotalRequests)
	require.EqualValues(t, n, snap.UniqueUsers) // pool larger than n, all distinct
	require.InDelta(t, wantSum, snap.Sum, 0)
	require.InDelta(t, wantSum/n, snap.Avg, 0)
}

func TestAggregator_AvgMatchesSumOverCount(t *testing.T) {
	a := New(4)
	a.Record("u1", 1)
	a.Record("u2", 2)

	snap := a.Snapshot()
	require.InDelta(t, snap.Sum/float64(snap.TotalRequests), snap.Avg, 0)
}

// A reader sampling snapshots during a write burst must never see the
// total go backwards: completed increments stay visible.
func TestAggregator_SnapshotMonotonicUnderLoad(t *testing.T) {
	a := New(0)

	done := make(chan struct{})

	var writers sync.WaitGroup
	for g := 0; g < 8; g++ {
		writers.Add(1)

		go func(g int) {
			defer writers.Done()

			for i := 0; i < 50_000; i++ {
				a.Record(fmt.Sprintf("user_%d", i%100), 1)
			}
		}(g)
	}

	go func() { writers.Wait(); close(done) }()

	var prev Snapshot
	for {
		snap := a.Snapshot()
		assert.GreaterOrEqual(t, snap.TotalRequests, prev.TotalRequests)
		assert.GreaterOrEqual(t, snap.UniqueUsers, prev.UniqueUsers)
		prev = snap

		select {
		case <-done:
			return
		default:
		}
	}
}

func TestAggregator_Reset(t *testing.T) {
	a := New(8)
	a.Record("alice", 10)
	a.Record("bob", 20)
	a.Record("alice", 5)

	a.Reset()

	snap := a.Snapshot()
	require.Zero(t, snap.TotalRequests)
	require.Zero(t, snap.UniqueUsers)
	require.Zero(t, snap.Sum)
	require.Zero(t, snap.Avg)

	// Recording after reset starts from a clean slate.
	a.Record("carol", 7)
	snap = a.Snapshot()
	require.EqualValues(t, 1, snap.TotalRequests)
	require.EqualValues(t, 1, snap.UniqueUsers)
	require.InDelta(t, 7, snap.Sum, 0)
}

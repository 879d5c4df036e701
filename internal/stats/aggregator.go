// Package stats implements the concurrent aggregation engine: a striped
// event counter, a striped value accumulator and a striped set of user
// ids, composed into an Aggregator exposing record and snapshot
// operations.
//
// Nothing here blocks. Writes go through atomic cells or per-stripe locks
// held only for a map probe, and reads combine cells without waiting for
// in-flight writers. Each field is exact with respect to completed record
// calls; there is no atomicity across fields, see Snapshot.
package stats

// Snapshot is the aggregate view at a point in time, in the wire shape
// served to statistics queries. Each field reflects at least every Record
// that completed before the snapshot began; the fields are read
// independently, so a snapshot taken during a write burst can mix
// slightly different subsets of overlapping calls.
type Snapshot struct {
	TotalRequests uint64  `json:"totalRequests"`
	UniqueUsers   uint64  `json:"uniqueUsers"`
	Sum           float64 `json:"sum"`
	Avg           float64 `json:"avg"`
}

// Aggregator composes the striped counter, accumulator and user set into
// one process-wide unit. A single instance is shared by every caller; all
// synchronization lives inside the three components and callers never
// lock around it.
type Aggregator struct {
	count *Counter
	sum   *Accumulator
	users *UserSet
}

// New builds an Aggregator. stripes sizes the internal cell and stripe
// arrays; zero picks a default from the available parallelism.
func New(stripes int) *Aggregator {
	return &Aggregator{
		count: NewCounter(stripes),
		sum:   NewAccumulator(stripes),
		users: NewUserSet(stripes),
	}
}

// Record folds one event into the aggregates. userID is assumed
// non-empty; rejecting malformed input is the transport layer's job. The
// three updates are independent and take no shared lock, so a concurrent
// Snapshot may observe this call in one field before the others.
func (a *Aggregator) Record(userID string, value float64) {
	a.count.Inc()
	a.sum.Add(value)
	a.users.Add(userID)
}

// Snapshot assembles the current aggregate view. Wait-free; never blocks
// a concurrent Record. Avg is 0 when no events have been recorded.
func (a *Aggregator) Snapshot() Snapshot {
	total := a.count.Value()
	sum := a.sum.Value()

	snap := Snapshot{
		TotalRequests: total,
		UniqueUsers:   a.users.Size(),
		Sum:           sum,
	}
	if total > 0 {
		snap.Avg = sum / float64(total)
	}

	return snap
}

// Reset clears the three aggregates one after another with no atomicity
// across them. Under concurrent Records it can leave, say, a zero count
// next to a nonzero sum; it is meant for tests and maintenance windows
// only and stays disabled on the serving surface by default.
func (a *Aggregator) Reset() {
	a.count.Reset()
	a.sum.Reset()
	a.users.Reset()
}

package stats

import (
	"math/rand/v2"
	"runtime"
	"sync/atomic"
)

// cell is a cache-line padded atomic word. The padding keeps neighbouring
// cells on distinct 64-byte lines so writers on different cores never
// false-share.
type cell struct {
	n atomic.Uint64
	_ [56]byte
}

// Counter is an increment-only counter striped across padded cells.
// Each Inc touches a single cell; Value combines all of them. Under heavy
// fan-in this spreads the contention a single atomic word would
// concentrate on one cache line.
//
// The count wraps at the uint64 boundary. That is far outside the
// operational envelope (tens of millions of events) and is not guarded.
type Counter struct {
	cells []cell
}

// NewCounter builds a counter with the given stripe count, rounded up to
// a power of two. stripes <= 0 picks a default sized to the available
// parallelism.
func NewCounter(stripes int) *Counter {
	return &Counter{cells: make([]cell, stripeCount(stripes))}
}

// Inc adds one to a single cell. Wait-free.
func (c *Counter) Inc() {
	c.cells[cellIndex(len(c.cells))].n.Add(1)
}

// Value sums all cells. The result includes every Inc that completed
// before the call began; increments still in flight may or may not be
// seen.
func (c *Counter) Value() uint64 {
	var total uint64
	for i := range c.cells {
		total += c.cells[i].n.Load()
	}

	return total
}

// Reset zeroes the cells one by one. Not atomic with respect to
// concurrent Inc calls; quiesce writers first.
func (c *Counter) Reset() {
	for i := range c.cells {
		c.cells[i].n.Store(0)
	}
}

// stripeCount rounds the requested stripe count up to a power of two so
// cell selection reduces to a mask.
func stripeCount(n int) int {
	if n <= 0 {
		n = 4 * runtime.GOMAXPROCS(0)
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}

// cellIndex picks a stripe through the runtime's per-P random source,
// which costs a few nanoseconds and needs no cross-goroutine state.
func cellIndex(n int) int {
	return int(rand.Uint64() & uint64(n-1))
}

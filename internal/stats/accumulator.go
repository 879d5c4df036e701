package stats

import "math"

// Accumulator is a float64 sum striped across padded cells. Each cell
// holds the bit pattern of a float64 in an atomic uint64; Add CASes the
// bits because float addition is not a single hardware instruction.
//
// The sum stays in float64 end to end. Integer-valued inputs accumulate
// exactly up to 2^53; fractional inputs carry ordinary IEEE-754 rounding.
// Truncating to an integer representation at any call site would silently
// diverge from this and is deliberately not done anywhere.
type Accumulator struct {
	cells []cell
}

// NewAccumulator builds an accumulator with the given stripe count,
// rounded up to a power of two; stripes <= 0 picks the parallelism-sized
// default.
func NewAccumulator(stripes int) *Accumulator {
	return &Accumulator{cells: make([]cell, stripeCount(stripes))}
}

// Add folds delta into one cell. Lock-free: a failed CAS rereads the cell
// and retries, and some writer's CAS always succeeds.
func (a *Accumulator) Add(delta float64) {
	c := &a.cells[cellIndex(len(a.cells))].n
	for {
		old := c.Load()

		next := math.Float64bits(math.Float64frombits(old) + delta)
		if c.CompareAndSwap(old, next) {
			return
		}
	}
}

// Value sums all cells. Same visibility contract as Counter.Value:
// completed Adds are always included, in-flight ones may not be.
func (a *Accumulator) Value() float64 {
	var total float64
	for i := range a.cells {
		total += math.Float64frombits(a.cells[i].n.Load())
	}

	return total
}

// Reset zeroes the cells independently. Float64bits(0) is 0, so a plain
// store suffices. Same caveat as Counter.Reset under concurrent writers.
func (a *Accumulator) Reset() {
	for i := range a.cells {
		a.cells[i].n.Store(0)
	}
}

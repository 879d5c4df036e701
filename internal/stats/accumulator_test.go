package stats

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccumulator_Sequential(t *testing.T) {
	a := NewAccumulator(8)
	require.Zero(t, a.Value())

	a.Add(10)
	a.Add(20)
	a.Add(5)
	require.InDelta(t, 35, a.Value(), 0)

	a.Add(-35)
	require.InDelta(t, 0, a.Value(), 0)
}

// Integer-valued inputs must sum exactly regardless of interleaving: the
// striped cells only ever hold sums of integers well below 2^53, so no
// rounding can occur and every schedule converges to the same total.
func TestAccumulator_ConcurrentExactSum(t *testing.T) {
	const (
		goroutines = 32
		perG       = 5_000
	)

	a := NewAccumulator(0)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)

		go func(g int) {
			defer wg.Done()

			for i := 0; i < perG; i++ {
				a.Add(float64((g*perG + i) % 1000))
			}
		}(g)
	}
	wg.Wait()

	var want float64
	for i := 0; i < goroutines*perG; i++ {
		want += float64(i % 1000)
	}

	require.InDelta(t, want, a.Value(), 0)
}

func TestAccumulator_FractionalValues(t *testing.T) {
	a := NewAccumulator(4)
	for i := 0; i < 1000; i++ {
		a.Add(0.5)
	}

	// 0.5 is exactly representable, so even fractional adds are exact here.
	require.InDelta(t, 500, a.Value(), 0)
}

func TestAccumulator_Reset(t *testing.T) {
	a := NewAccumulator(4)
	a.Add(42.5)

	a.Reset()
	require.Zero(t, a.Value())

	a.Add(1)
	require.InDelta(t, 1, a.Value(), 0)
}

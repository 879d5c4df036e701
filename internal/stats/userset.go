package stats

import (
	"hash/maphash"
	"sync"
	"sync/atomic"
)

// UserSet tracks distinct user ids across independently locked stripes.
// Ids hash to a stripe, so inserts of different ids almost never contend;
// inserts of the same id are serialized by that stripe's lock, which
// makes Add linearizable per key. Each stripe pairs its map with an
// atomic member count so Size never takes a lock.
//
// Stripes are fixed at construction; the per-stripe maps grow natively,
// so no rehash-and-migrate scheme is needed.
type UserSet struct {
	seed    maphash.Seed
	stripes []setStripe
}

type setStripe struct {
	mu      sync.RWMutex
	members map[string]struct{}
	size    atomic.Int64
}

// NewUserSet builds a set with the given stripe count, rounded up to a
// power of two; stripes <= 0 picks the parallelism-sized default.
func NewUserSet(stripes int) *UserSet {
	s := &UserSet{
		seed:    maphash.MakeSeed(),
		stripes: make([]setStripe, stripeCount(stripes)),
	}
	for i := range s.stripes {
		s.stripes[i].members = make(map[string]struct{})
	}

	return s
}

func (s *UserSet) stripeFor(id string) *setStripe {
	return &s.stripes[maphash.String(s.seed, id)&uint64(len(s.stripes)-1)]
}

// Add inserts id if absent and reports whether it was new. Concurrent
// adds of the same id agree: exactly one caller observes true. The fast
// path is a read-locked membership probe; only a genuinely new id takes
// the stripe's write lock.
func (s *UserSet) Add(id string) bool {
	st := s.stripeFor(id)

	st.mu.RLock()
	_, ok := st.members[id]
	st.mu.RUnlock()

	if ok {
		return false
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.members[id]; ok {
		return false
	}

	st.members[id] = struct{}{}
	st.size.Add(1)

	return true
}

// Size reports the number of distinct members by summing the per-stripe
// counters. Wait-free; counts every Add that completed before the call
// began and may lag ones still in flight.
func (s *UserSet) Size() uint64 {
	var total int64
	for i := range s.stripes {
		total += s.stripes[i].size.Load()
	}

	return uint64(total)
}

// Reset discards all members stripe by stripe. Adds racing a Reset may
// land in stripes that were already cleared; quiesce writers first.
func (s *UserSet) Reset() {
	for i := range s.stripes {
		st := &s.stripes[i]

		st.mu.Lock()
		st.members = make(map[string]struct{})
		st.size.Store(0)
		st.mu.Unlock()
	}
}

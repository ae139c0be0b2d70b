// Package idgen hands out record ids.
//
// Ids stay 64-bit integers shaped like millisecond timestamps so records written by
// earlier releases keep sorting alongside new ones.
package idgen

import (
	"sync"
	"sync/atomic"
	"time"
)

// Generator returns a fresh id on every call.
type Generator interface {
	Next() int64
}

// Monotonic issues the current Unix millisecond, bumped past the last issued id so
// two calls in the same millisecond never collide.
type Monotonic struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewMonotonic builds a Monotonic generator. A nil clock defaults to time.Now.
func NewMonotonic(now func() time.Time) *Monotonic {
	if now == nil {
		now = time.Now
	}
	return &Monotonic{now: now}
}

// Next implements Generator.
func (g *Monotonic) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// Sequence counts up from a fixed start. Tests use it for predictable ids.
type Sequence struct {
	next atomic.Int64
}

// NewSequence returns a generator whose first id is start.
func NewSequence(start int64) *Sequence {
	s := &Sequence{}
	s.next.Store(start)
	return s
}

// Next implements Generator.
func (s *Sequence) Next() int64 {
	return s.next.Add(1) - 1
}

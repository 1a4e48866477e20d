package goals

import (
	"sync"
	"time"
)

// IDSource hands out goal identifiers. Implementations must never return the
// same value twice.
type IDSource interface {
	Next() int64
}

// observer is implemented by IDSources that can be told about ids issued
// elsewhere, so that later ids are never below them.
type observer interface {
	Observe(id int64)
}

// Clock returns the current time.
type Clock func() time.Time

// Counter issues millisecond timestamps, bumped by one whenever the clock has
// not advanced past the previous id. Ids therefore stay ordered by creation
// time and cannot collide within a process.
type Counter struct {
	mu   sync.Mutex
	now  Clock
	last int64
}

// NewCounter returns a Counter reading from now (time.Now when nil).
func NewCounter(now Clock) *Counter {
	if now == nil {
		now = time.Now
	}
	return &Counter{now: now}
}

func (c *Counter) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	c.last = id
	return id
}

// Observe raises the floor so the next id is greater than id.
func (c *Counter) Observe(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id > c.last {
		c.last = id
	}
}

// Sequence is a plain incrementing IDSource starting after start. Useful for
// deterministic tests.
type Sequence struct {
	next int64
}

// NewSequence returns a Sequence whose first id is start+1.
func NewSequence(start int64) *Sequence {
	return &Sequence{next: start}
}

func (s *Sequence) Next() int64 {
	s.next++
	return s.next
}

// Observe makes the next id greater than id.
func (s *Sequence) Observe(id int64) {
	if id > s.next {
		s.next = id
	}
}

package ledger

import (
	"strconv"
	"sync"
	"time"
)

// IDGenerator hands out transaction identifiers
type IDGenerator interface {
	NextID() string
}

// ClockIDGenerator derives identifiers from the wall clock in milliseconds.
// IDs are strictly increasing even when the clock stalls or goes backwards.
type ClockIDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewClockIDGenerator creates a generator reading time from now, or time.Now when nil
func NewClockIDGenerator(now func() time.Time) *ClockIDGenerator {
	if now == nil {
		now = time.Now
	}
	return &ClockIDGenerator{now: now}
}

func (g *ClockIDGenerator) NextID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return strconv.FormatInt(id, 10)
}

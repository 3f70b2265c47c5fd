package profiler

import (
	"strings"
	"testing"
	"time"

	"github.com/nalgeon/be"
)

type stepClock struct {
	now  time.Time
	step time.Duration
}

// Now advances by step on every read, so each call looks like work was done.
func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func TestSamplesEveryBatch(t *testing.T) {
	clock := &stepClock{now: time.Unix(0, 0), step: time.Millisecond}
	p := New(3, clock)
	p.Start(0)

	kinds := []string{"Assignment", "Print", "While", "Assignment", "Assignment", "Print", "Print"}
	var hits []Sample
	for i, k := range kinds {
		if s, ok := p.Observe(k, int64(10*(i+1))); ok {
			hits = append(hits, s)
		}
	}

	be.Equal(t, len(hits), 2)
	be.Equal(t, hits[0].Kind, "While")
	be.Equal(t, hits[0].MemDelta, int64(30))
	be.Equal(t, hits[1].Kind, "Print")
	be.Equal(t, hits[1].MemDelta, int64(30))
	be.Equal(t, hits[1].Elapsed, time.Millisecond)
	be.Equal(t, p.Executed(), 7)
	be.Equal(t, len(p.Summary()), 2)
}

func TestSummaryAggregatesPerKind(t *testing.T) {
	clock := &stepClock{now: time.Unix(0, 0), step: time.Second}
	p := New(1, clock)
	p.Start(0)
	p.Observe("Assignment", 8)
	p.Observe("Assignment", 16)
	p.Observe("Print", 16)

	sum := p.Summary()
	be.Equal(t, len(sum), 2)
	be.Equal(t, sum[0].Kind, "Assignment")
	be.Equal(t, sum[0].Samples, 2)
	be.Equal(t, sum[0].Total, 2*time.Second)
	be.Equal(t, sum[0].Average, time.Second)
	be.Equal(t, sum[0].MemDelta, int64(16))
	be.Equal(t, sum[1].Kind, "Print")

	var b strings.Builder
	be.Err(t, WriteTable(&b, sum), nil)
	be.True(t, strings.Contains(b.String(), "Assignment"))
	be.True(t, strings.Contains(b.String(), "+16 B"))
}

func TestNonPositiveBatchSamplesEveryNode(t *testing.T) {
	clock := &stepClock{now: time.Unix(0, 0), step: time.Second}
	p := New(0, clock)
	p.Start(0)
	_, ok := p.Observe("Break", 0)
	be.True(t, ok)
}

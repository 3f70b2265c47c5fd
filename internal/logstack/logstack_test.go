package logstack

import (
	"errors"
	"testing"
	"time"

	"github.com/funvibe/ulto/internal/diagnostics"
	"github.com/nalgeon/be"
)

// tickClock is a logical clock advanced by hand.
type tickClock struct{ now time.Time }

func (c *tickClock) Now() time.Time          { return c.now }
func (c *tickClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *tickClock {
	return &tickClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestPushPopPeekLIFO(t *testing.T) {
	s := New[int](newClock(), nil)
	s.Record("a", 0, false)
	s.Record("a", 1, true)
	s.Record("b", 7, true)

	top, err := s.Peek()
	be.Err(t, err, nil)
	be.Equal(t, top.Name, "b")
	be.Equal(t, s.Len(), 3)

	e, err := s.Pop()
	be.Err(t, err, nil)
	be.Equal(t, e.Prior, 7)
	e, _ = s.Pop()
	be.Equal(t, e.Prior, 1)
	e, _ = s.Pop()
	be.True(t, !e.HasPrior)

	_, err = s.Pop()
	be.True(t, errors.Is(err, diagnostics.ErrEmptyHistory))
	_, err = s.Peek()
	be.True(t, errors.Is(err, diagnostics.ErrEmptyHistory))
}

func TestPopVarSkipsOtherVariables(t *testing.T) {
	s := New[int](newClock(), nil)
	s.Record("a", 10, true)
	s.Record("b", 20, true)
	s.Record("a", 11, true)
	s.Record("b", 21, true)

	e, err := s.PopVar("a")
	be.Err(t, err, nil)
	be.Equal(t, e.Prior, 11)
	be.Equal(t, s.Count("a"), 1)
	be.Equal(t, s.Count("b"), 2)

	e, _ = s.PopVar("a")
	be.Equal(t, e.Prior, 10)

	_, err = s.PopVar("a")
	be.True(t, errors.Is(err, diagnostics.ErrEmptyHistory))
	var de *diagnostics.DiagnosticError
	be.True(t, errors.As(err, &de))
	be.Equal(t, de.Variable, "a")

	top, _ := s.Peek()
	be.Equal(t, top.Prior, 21)
}

func TestHistoryNewestFirstWithoutMutation(t *testing.T) {
	s := New[int](newClock(), nil)
	for i := 0; i < 4; i++ {
		s.Record("v", i, true)
	}
	s.Record("w", 99, true)

	hist := s.History("v", 2)
	be.Equal(t, len(hist), 2)
	be.Equal(t, hist[0].Prior, 3)
	be.Equal(t, hist[1].Prior, 2)
	be.Equal(t, len(s.History("v", 10)), 4)
	be.Equal(t, len(s.History("missing", 3)), 0)
	be.Equal(t, s.Len(), 5)
}

func TestPruneBoundaryIsInclusive(t *testing.T) {
	clock := newClock()
	s := New[int](clock, nil)
	// entries at logical times t0..t10, one second apart
	for i := 0; i <= 10; i++ {
		s.Record("x", i, true)
		if i < 10 {
			clock.Advance(time.Second)
		}
	}
	t10 := clock.Now()

	removed := s.Prune(5 * time.Second)

	// ages 10..6 are removed, age 5 (t5) is retained
	be.Equal(t, removed, 5)
	be.Equal(t, s.Len(), 6)
	be.Equal(t, s.LastPruned(), t10)
	oldest := s.History("x", 100)[5]
	be.Equal(t, oldest.Prior, 5)
	be.Equal(t, t10.Sub(oldest.Timestamp), 5*time.Second)
}

func TestPruneUpdatesLastPrunedWhenNothingRemoved(t *testing.T) {
	clock := newClock()
	s := New[int](clock, nil)
	s.Record("x", 1, true)
	clock.Advance(time.Minute)

	be.Equal(t, s.Prune(time.Hour), 0)
	be.Equal(t, s.LastPruned(), clock.Now())
	be.Equal(t, s.Len(), 1)
}

func TestPruneThenReverseFails(t *testing.T) {
	clock := newClock()
	s := New[int](clock, nil)
	s.Record("x", 1, true)
	clock.Advance(10 * time.Second)

	be.Equal(t, s.Prune(time.Second), 1)
	be.Equal(t, s.Count("x"), 0)
	_, err := s.PopVar("x")
	be.True(t, errors.Is(err, diagnostics.ErrEmptyHistory))
}

func TestMemoryUsage(t *testing.T) {
	s := New[string](newClock(), func(v string) int64 { return int64(len(v)) })
	be.Equal(t, s.MemoryUsage(), int64(0))
	s.Record("ab", "hello", true)
	s.Record("ab", "", false)
	be.Equal(t, s.MemoryUsage(), int64(2*entryOverhead+2+2+5))
}

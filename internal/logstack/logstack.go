// Package logstack records the prior value of every assignment so that
// variables can be reversed or traced later. Entries are kept in one LIFO
// sequence ordered by push time; pruning evicts from the oldest end.
package logstack

import (
	"time"

	"github.com/funvibe/ulto/internal/diagnostics"
	"github.com/funvibe/ulto/internal/token"
)

// Clock supplies timestamps. Tests substitute a logical clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock (with its monotonic component).
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Entry is one recorded assignment: the variable and the value it held
// before. HasPrior is false when the assignment created the variable.
type Entry[V any] struct {
	Name      string
	Prior     V
	HasPrior  bool
	Timestamp time.Time
}

// entryOverhead approximates the fixed bytes retained per entry.
const entryOverhead = 48

// Stack is the history log.
type Stack[V any] struct {
	clock      Clock
	sizeOf     func(V) int64
	entries    []Entry[V]
	counts     map[string]int
	lastPruned time.Time
}

// New creates an empty log. sizeOf estimates the bytes retained by a prior
// value for MemoryUsage; nil counts only the per-entry overhead.
func New[V any](clock Clock, sizeOf func(V) int64) *Stack[V] {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Stack[V]{
		clock:      clock,
		sizeOf:     sizeOf,
		counts:     make(map[string]int),
		lastPruned: clock.Now(),
	}
}

// Push appends an entry.
func (s *Stack[V]) Push(e Entry[V]) {
	s.entries = append(s.entries, e)
	s.counts[e.Name]++
}

// Record pushes an entry for name stamped with the current time.
func (s *Stack[V]) Record(name string, prior V, hasPrior bool) Entry[V] {
	e := Entry[V]{Name: name, Prior: prior, HasPrior: hasPrior, Timestamp: s.clock.Now()}
	s.Push(e)
	return e
}

// Pop removes and returns the most recent entry.
func (s *Stack[V]) Pop() (Entry[V], error) {
	if len(s.entries) == 0 {
		var zero Entry[V]
		return zero, diagnostics.NewError(diagnostics.ErrR002, token.Token{}, "history is empty")
	}
	return s.removeAt(len(s.entries) - 1), nil
}

// Peek returns the most recent entry without removing it.
func (s *Stack[V]) Peek() (Entry[V], error) {
	if len(s.entries) == 0 {
		var zero Entry[V]
		return zero, diagnostics.NewError(diagnostics.ErrR002, token.Token{}, "history is empty")
	}
	return s.entries[len(s.entries)-1], nil
}

// PopVar removes and returns the most recent entry for name.
func (s *Stack[V]) PopVar(name string) (Entry[V], error) {
	if s.counts[name] > 0 {
		for i := len(s.entries) - 1; i >= 0; i-- {
			if s.entries[i].Name == name {
				return s.removeAt(i), nil
			}
		}
	}
	var zero Entry[V]
	return zero, diagnostics.NewError(diagnostics.ErrR002, token.Token{},
		"no history left for %q", name).WithVariable(name)
}

// History returns up to n entries for name, newest first, without removing them.
func (s *Stack[V]) History(name string, n int) []Entry[V] {
	if n <= 0 || s.counts[name] == 0 {
		return nil
	}
	out := make([]Entry[V], 0, min(n, s.counts[name]))
	for i := len(s.entries) - 1; i >= 0 && len(out) < n; i-- {
		if s.entries[i].Name == name {
			out = append(out, s.entries[i])
		}
	}
	return out
}

// Count is the number of entries retained for name.
func (s *Stack[V]) Count(name string) int { return s.counts[name] }

func (s *Stack[V]) Len() int { return len(s.entries) }

// Prune removes entries whose age exceeds retention, starting from the oldest,
// and returns how many were removed. An entry whose age equals retention is
// kept. LastPruned is set to the prune time even when nothing is removed.
func (s *Stack[V]) Prune(retention time.Duration) int {
	now := s.clock.Now()
	cut := 0
	for cut < len(s.entries) && now.Sub(s.entries[cut].Timestamp) > retention {
		s.counts[s.entries[cut].Name]--
		if s.counts[s.entries[cut].Name] == 0 {
			delete(s.counts, s.entries[cut].Name)
		}
		cut++
	}
	if cut > 0 {
		kept := make([]Entry[V], len(s.entries)-cut)
		copy(kept, s.entries[cut:])
		s.entries = kept
	}
	s.lastPruned = now
	return cut
}

func (s *Stack[V]) LastPruned() time.Time { return s.lastPruned }

// MemoryUsage estimates the bytes retained by the log. Reporting only.
func (s *Stack[V]) MemoryUsage() int64 {
	var total int64
	for _, e := range s.entries {
		total += entryOverhead + int64(len(e.Name))
		if e.HasPrior && s.sizeOf != nil {
			total += s.sizeOf(e.Prior)
		}
	}
	return total
}

func (s *Stack[V]) removeAt(i int) Entry[V] {
	e := s.entries[i]
	copy(s.entries[i:], s.entries[i+1:])
	var zero Entry[V]
	s.entries[len(s.entries)-1] = zero
	s.entries = s.entries[:len(s.entries)-1]
	s.counts[e.Name]--
	if s.counts[e.Name] == 0 {
		delete(s.counts, e.Name)
	}
	return e
}

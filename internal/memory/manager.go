// Package memory keeps the simulated memory ledger of an interpreted program.
// The ledger is a quota on the program's own data growth, independent of the
// host process's real allocations.
package memory

import (
	"fmt"

	"github.com/funvibe/ulto/internal/diagnostics"
	"github.com/funvibe/ulto/internal/token"
)

// Manager tracks allocated bytes against a fixed limit.
// Invariant: 0 <= allocated <= limit after every successful call.
type Manager struct {
	limit     int64
	allocated int64
	peak      int64
}

// NewManager creates a ledger with the given byte limit.
func NewManager(limit int64) (*Manager, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("memory limit must be positive, got %d", limit)
	}
	return &Manager{limit: limit}, nil
}

// Allocate reserves n bytes. A rejected allocation leaves the ledger unchanged.
func (m *Manager) Allocate(n int64) error {
	if n < 0 {
		return diagnostics.NewError(diagnostics.ErrR004, token.Token{}, "negative allocation of %d bytes", n)
	}
	if m.allocated+n > m.limit {
		return diagnostics.NewError(diagnostics.ErrR003, token.Token{},
			"program exceeds the memory limit: %d allocated + %d requested > %d", m.allocated, n, m.limit)
	}
	m.allocated += n
	if m.allocated > m.peak {
		m.peak = m.allocated
	}
	return nil
}

// Deallocate releases n bytes. Releasing more than is tracked is an
// accounting fault and leaves the ledger unchanged.
func (m *Manager) Deallocate(n int64) error {
	if n < 0 || n > m.allocated {
		return diagnostics.NewError(diagnostics.ErrR004, token.Token{},
			"deallocation of %d bytes with only %d allocated", n, m.allocated)
	}
	m.allocated -= n
	return nil
}

// Reallocate swaps an old reservation for a new one in a single step: the
// limit is checked against allocated-old+new and nothing changes on failure.
func (m *Manager) Reallocate(old, n int64) error {
	if old < 0 || old > m.allocated {
		return diagnostics.NewError(diagnostics.ErrR004, token.Token{},
			"reallocation releases %d bytes with only %d allocated", old, m.allocated)
	}
	if n < 0 {
		return diagnostics.NewError(diagnostics.ErrR004, token.Token{}, "negative allocation of %d bytes", n)
	}
	next := m.allocated - old + n
	if next > m.limit {
		return diagnostics.NewError(diagnostics.ErrR003, token.Token{},
			"program exceeds the memory limit: %d needed > %d", next, m.limit)
	}
	m.allocated = next
	if next > m.peak {
		m.peak = next
	}
	return nil
}

func (m *Manager) Allocated() int64 { return m.allocated }

func (m *Manager) Remaining() int64 { return m.limit - m.allocated }

func (m *Manager) Limit() int64 { return m.limit }

// Peak is the high-water mark of the ledger.
func (m *Manager) Peak() int64 { return m.peak }

// Package runlog keeps a persistent record of every run in a SQLite file:
// when it ran, how it ended and what it cost.
package runlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/funvibe/ulto/internal/evaluator"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	file         TEXT NOT NULL,
	started_at   INTEGER NOT NULL,
	elapsed_ns   INTEGER NOT NULL,
	state        TEXT NOT NULL,
	assignments  INTEGER NOT NULL,
	evaluations  INTEGER NOT NULL,
	reversals    INTEGER NOT NULL,
	memory_used  INTEGER NOT NULL,
	memory_peak  INTEGER NOT NULL,
	error        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS runs_started_at ON runs (started_at);
`

// Run is one recorded execution.
type Run struct {
	ID          uuid.UUID
	File        string
	StartedAt   time.Time
	Elapsed     time.Duration
	State       string
	Assignments int64
	Evaluations int64
	Reversals   int64
	MemoryUsed  int64
	MemoryPeak  int64
	// Error is the fault message, empty for completed runs.
	Error string
}

// FromResult builds the record of a finished run. runErr is the error the
// run returned, if any.
func FromResult(id uuid.UUID, started time.Time, res *evaluator.Result, runErr error) Run {
	r := Run{ID: id, StartedAt: started, State: evaluator.StateFaulted.String()}
	if runErr != nil {
		r.Error = runErr.Error()
	}
	if res == nil {
		return r
	}
	r.File = res.File
	r.Elapsed = res.Elapsed
	r.State = res.State.String()
	r.Assignments = res.Counters.Assignments
	r.Evaluations = res.Counters.Evaluations
	r.Reversals = res.Counters.Reversals
	r.MemoryUsed = res.MemoryUsed
	r.MemoryPeak = res.MemoryPeak
	return r
}

// Log is an open run log. It is safe for concurrent use.
type Log struct {
	db *sql.DB
}

// Open opens or creates the run log at path.
func Open(path string) (*Log, error) {
	if path == "" {
		return nil, errors.New("runlog: empty path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("runlog: opening %s: %w", path, err)
	}
	// SQLite allows one writer; serialise through a single connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("runlog: creating schema in %s: %w", path, err)
	}
	return &Log{db: db}, nil
}

// Record appends a run. A zero ID is replaced by a fresh one, which is
// returned.
func (l *Log) Record(ctx context.Context, r Run) (uuid.UUID, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (id, file, started_at, elapsed_ns, state, assignments, evaluations,
			reversals, memory_used, memory_peak, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.File, r.StartedAt.UnixNano(), int64(r.Elapsed), r.State,
		r.Assignments, r.Evaluations, r.Reversals, r.MemoryUsed, r.MemoryPeak, r.Error)
	if err != nil {
		return uuid.Nil, fmt.Errorf("runlog: recording run %s: %w", r.ID, err)
	}
	return r.ID, nil
}

// Recent returns up to n runs, newest first.
func (l *Log) Recent(ctx context.Context, n int) ([]Run, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, file, started_at, elapsed_ns, state, assignments, evaluations,
			reversals, memory_used, memory_peak, error
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("runlog: querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			id      string
			started int64
			elapsed int64
		)
		if err := rows.Scan(&id, &r.File, &started, &elapsed, &r.State, &r.Assignments,
			&r.Evaluations, &r.Reversals, &r.MemoryUsed, &r.MemoryPeak, &r.Error); err != nil {
			return nil, fmt.Errorf("runlog: reading run: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("runlog: run id %q: %w", id, err)
		}
		r.StartedAt = time.Unix(0, started)
		r.Elapsed = time.Duration(elapsed)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (l *Log) Close() error {
	return l.db.Close()
}

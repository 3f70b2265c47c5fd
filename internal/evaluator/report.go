package evaluator

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/funvibe/ulto/internal/profiler"
)

// Result is what a run leaves behind, complete or not.
type Result struct {
	File  string
	State State
	// Symbols holds the final plain value of every variable. A thunk whose
	// expression faults is kept as the *Lazy itself.
	Symbols  map[string]Object
	Counters Counters
	Profile  []profiler.KindSummary
	Executed int
	Elapsed  time.Duration

	MemoryUsed  int64
	MemoryPeak  int64
	MemoryLimit int64

	HistoryEntries int
	HistoryBytes   int64
}

func (e *Evaluator) result() *Result {
	r := &Result{
		File:           e.file,
		State:          e.state,
		Counters:       e.counters,
		Profile:        e.prof.Summary(),
		Executed:       e.prof.Executed(),
		Elapsed:        e.elapsed,
		MemoryUsed:     e.mem.Allocated(),
		MemoryPeak:     e.mem.Peak(),
		MemoryLimit:    e.mem.Limit(),
		HistoryEntries: e.history.Len(),
		HistoryBytes:   e.history.MemoryUsage(),
	}
	r.Symbols = e.snapshot()
	return r
}

// snapshot resolves every slot. Thunks are forced quietly: the costs of the
// run are already captured in the result.
func (e *Evaluator) snapshot() map[string]Object {
	saved := e.counters
	out := make(map[string]Object, e.env.Len())
	for _, name := range e.env.Names() {
		obj, _ := e.env.Get(name)
		l, ok := obj.(*Lazy)
		if !ok {
			out[name] = obj
			continue
		}
		if !l.evaluated {
			val, err := e.evalCaptured(l)
			if err != nil {
				out[name] = l
				continue
			}
			l.value, l.evaluated, l.engine, l.scope = val, true, nil, nil
		}
		out[name] = l.value
	}
	e.counters = saved
	return out
}

// Names returns the symbol names in sorted order.
func (r *Result) Names() []string {
	names := make([]string, 0, len(r.Symbols))
	for name := range r.Symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the display form of a final value.
func (r *Result) Lookup(name string) (string, bool) {
	obj, ok := r.Symbols[name]
	if !ok {
		return "", false
	}
	return Display(obj), true
}

// WriteReport prints the computation cost summary.
func (r *Result) WriteReport(w io.Writer) error {
	c := r.Counters
	lines := []string{
		fmt.Sprintf("Execution time: %s", r.Elapsed.Round(time.Microsecond)),
		fmt.Sprintf("Memory used: %s (peak %s of %s)",
			humanize.IBytes(uint64(r.MemoryUsed)), humanize.IBytes(uint64(r.MemoryPeak)), humanize.IBytes(uint64(r.MemoryLimit))),
		fmt.Sprintf("Assignments: %s", humanize.Comma(c.Assignments)),
		fmt.Sprintf("Evaluations: %s (%s condition checks)", humanize.Comma(c.Evaluations), humanize.Comma(c.Conditions)),
		fmt.Sprintf("Reversals: %s", humanize.Comma(c.Reversals)),
		fmt.Sprintf("History: %s entries, %s", humanize.Comma(int64(r.HistoryEntries)), humanize.IBytes(uint64(r.HistoryBytes))),
		fmt.Sprintf("Nodes executed: %s", humanize.Comma(int64(r.Executed))),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if len(r.Profile) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return profiler.WriteTable(w, r.Profile)
}

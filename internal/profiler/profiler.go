// Package profiler samples execution cost every N executed nodes and
// aggregates the samples per node kind.
package profiler

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"
)

type Clock interface {
	Now() time.Time
}

// Sample is one observation: the node kind executing when the batch filled,
// the time elapsed and the ledger delta since the previous sample.
type Sample struct {
	Kind     string
	Elapsed  time.Duration
	MemDelta int64
}

// KindSummary aggregates the samples of one node kind.
type KindSummary struct {
	Kind     string
	Samples  int
	Total    time.Duration
	Average  time.Duration
	MemDelta int64
}

type Profiler struct {
	batch    int
	clock    Clock
	pending  int
	executed int
	lastAt   time.Time
	lastMem  int64
	samples  []Sample
}

// New creates a profiler sampling every batch executed nodes.
func New(batch int, clock Clock) *Profiler {
	if batch <= 0 {
		batch = 1
	}
	return &Profiler{batch: batch, clock: clock}
}

// Start sets the baseline for the first sample.
func (p *Profiler) Start(mem int64) {
	p.lastAt = p.clock.Now()
	p.lastMem = mem
}

// Observe counts one executed node. When the batch fills it records a sample
// keyed by kind and returns it.
func (p *Profiler) Observe(kind string, mem int64) (Sample, bool) {
	p.executed++
	p.pending++
	if p.pending < p.batch {
		return Sample{}, false
	}
	p.pending = 0
	now := p.clock.Now()
	s := Sample{Kind: kind, Elapsed: now.Sub(p.lastAt), MemDelta: mem - p.lastMem}
	p.samples = append(p.samples, s)
	p.lastAt = now
	p.lastMem = mem
	return s, true
}

// Executed is the number of nodes observed so far.
func (p *Profiler) Executed() int { return p.executed }

// Summary aggregates samples per kind, most expensive first.
func (p *Profiler) Summary() []KindSummary {
	byKind := make(map[string]*KindSummary)
	for _, s := range p.samples {
		ks, ok := byKind[s.Kind]
		if !ok {
			ks = &KindSummary{Kind: s.Kind}
			byKind[s.Kind] = ks
		}
		ks.Samples++
		ks.Total += s.Elapsed
		ks.MemDelta += s.MemDelta
	}
	out := make([]KindSummary, 0, len(byKind))
	for _, ks := range byKind {
		ks.Average = ks.Total / time.Duration(ks.Samples)
		out = append(out, *ks)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

// WriteTable renders the summary as an aligned table.
func WriteTable(w io.Writer, summary []KindSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Node\tSamples\tTotal\tAverage\tMemory delta")
	for _, ks := range summary {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%+d B\n", ks.Kind, ks.Samples, ks.Total, ks.Average, ks.MemDelta)
	}
	return tw.Flush()
}

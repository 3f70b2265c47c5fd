package ulto

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunAll runs several programs concurrently, at most limit at a time (no
// limit when limit <= 0). Output is buffered per program and the runs are
// returned in argument order. A failing program does not stop the others;
// only cancellation of ctx does.
func (in *Interpreter) RunAll(ctx context.Context, paths []string, limit int) []*Run {
	runs := make([]*Run, len(paths))
	// workers get copies so in.last is never written concurrently
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, path := range paths {
		worker := in.clone()
		g.Go(func() error {
			runs[i] = worker.buffered(gctx, path)
			return nil
		})
	}
	_ = g.Wait()
	return runs
}

func (in *Interpreter) clone() *Interpreter {
	c := *in
	c.last = nil
	return &c
}

package runlog

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
)

// WriteTable prints runs as an aligned table.
func WriteTable(w io.Writer, runs []Run) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tFILE\tSTATE\tTIME\tASSIGN\tEVAL\tREVERSE\tMEMORY")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID.String()[:8],
			humanize.Time(r.StartedAt),
			r.File,
			r.State,
			r.Elapsed.Round(time.Microsecond),
			humanize.Comma(r.Assignments),
			humanize.Comma(r.Evaluations),
			humanize.Comma(r.Reversals),
			humanize.IBytes(uint64(r.MemoryUsed)))
	}
	return tw.Flush()
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/funvibe/ulto/internal/config"
	"github.com/funvibe/ulto/internal/runlog"
)

// runHistory lists the most recent recorded runs.
func runHistory(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ulto history", flag.ContinueOnError)
	fs.SetOutput(stderr)
	n := fs.Int("n", 20, "number of runs to list")
	dbPath := fs.String("history-db", "", "SQLite run log (default: history_db from ulto.yaml)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	path := *dbPath
	if path == "" {
		found, err := config.FindConfig(".")
		if err != nil {
			fmt.Fprintf(stderr, "Error: %s\n", err)
			return 1
		}
		if found != "" {
			cfg, err := config.LoadConfig(found)
			if err != nil {
				fmt.Fprintf(stderr, "Error: %s\n", err)
				return 1
			}
			path = cfg.HistoryDB
		}
	}
	if path == "" {
		fmt.Fprintln(stderr, "Error: no run log configured; pass -history-db or set history_db in ulto.yaml")
		return 1
	}

	log, err := runlog.Open(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	defer log.Close()
	runs, err := log.Recent(ctx, *n)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	if len(runs) == 0 {
		fmt.Fprintln(stdout, "no runs recorded")
		return 0
	}
	if err := runlog.WriteTable(stdout, runs); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/funvibe/ulto/internal/analyzer"
	"github.com/funvibe/ulto/internal/config"
	"github.com/funvibe/ulto/internal/loader"
	"github.com/funvibe/ulto/internal/pipeline"
	"github.com/funvibe/ulto/internal/prettyprinter"
	"github.com/funvibe/ulto/internal/runlog"
	ulto "github.com/funvibe/ulto/pkg/embed"
)

const usage = `usage: ulto [flags] program.yaml [more.yaml ...]
       ulto history [-n N] [-history-db path]

flags:
`

type options struct {
	configPath  string
	memoryLimit string
	retention   float64
	batch       int
	maxSteps    int64
	historyDB   string
	jobs        int
	verbose     bool
	quiet       bool
	dump        bool
}

func main() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r) // Re-panic to get stack trace
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var code int
	if len(os.Args) >= 2 && os.Args[1] == "history" {
		code = runHistory(ctx, os.Args[2:], os.Stdout, os.Stderr)
	} else {
		code = run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	}
	stop()
	os.Exit(code)
}

// run executes the programs named in args and returns the exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ulto", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	var opts options
	fs.StringVar(&opts.configPath, "config", "", "configuration file (default: ulto.yaml next to the first program or above)")
	fs.StringVar(&opts.memoryLimit, "memory-limit", "", "memory quota, e.g. 50MiB")
	fs.Float64Var(&opts.retention, "retention", 0, "history retention in seconds")
	fs.IntVar(&opts.batch, "batch", 0, "profiling batch size in executed nodes")
	fs.Int64Var(&opts.maxSteps, "max-steps", 0, "abort after this many statements (0 = unlimited)")
	fs.StringVar(&opts.historyDB, "history-db", "", "record runs in this SQLite file")
	fs.IntVar(&opts.jobs, "j", 0, "programs run at the same time (0 = all)")
	fs.BoolVar(&opts.verbose, "v", false, "debug logging")
	fs.BoolVar(&opts.quiet, "quiet", false, "print program output only")
	fs.BoolVar(&opts.dump, "dump", false, "print the analysed program instead of running it")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	paths := fs.Args()
	if len(paths) == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(fs, &opts, paths[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	level := cfg.Level()
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if opts.dump {
		return dump(paths, cfg, stdout, stderr)
	}

	in := ulto.New()
	in.SetConfig(cfg)
	in.SetLogger(logger)

	started := time.Now()
	runs := in.RunAll(ctx, paths, opts.jobs)

	color := painter(colorEnabled(stdout))
	status := 0
	for i, r := range runs {
		if i > 0 {
			fmt.Fprintln(stdout)
		}
		if !opts.quiet {
			fmt.Fprintln(stdout, color.paint(ansiCyan, config.OutputHeader))
		}
		stdout.Write(r.Output)
		if r.Err != nil {
			status = 1
			fmt.Fprintln(stderr, painter(colorEnabled(stderr)).paint(ansiRed, r.Err.Error()))
		}
		if opts.quiet || r.Result == nil {
			continue
		}
		fmt.Fprintln(stdout, color.paint(ansiCyan, config.CostHeader))
		if len(paths) > 1 {
			fmt.Fprintln(stdout, color.paint(ansiBold, r.File))
		}
		if err := r.Result.WriteReport(stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %s\n", err)
			return 1
		}
	}

	if cfg.HistoryDB != "" {
		if err := record(ctx, cfg.HistoryDB, started, runs, logger); err != nil {
			fmt.Fprintf(stderr, "Error: %s\n", err)
			return 1
		}
	}
	return status
}

// loadConfig reads the -config file or the nearest ulto.yaml, then applies
// the flags that were set explicitly.
func loadConfig(fs *flag.FlagSet, opts *options, firstProgram string) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		found, err := config.FindConfig(filepath.Dir(firstProgram))
		if err != nil {
			return nil, err
		}
		path = found
	}
	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "memory-limit":
			n, err := humanize.ParseBytes(opts.memoryLimit)
			if err != nil {
				flagErr = fmt.Errorf("-memory-limit: %w", err)
				return
			}
			cfg.MemoryLimit = config.ByteSize(n)
		case "retention":
			cfg.LogRetentionTime = config.Seconds(opts.retention)
		case "batch":
			cfg.ProfileBatchSize = opts.batch
		case "max-steps":
			cfg.MaxSteps = opts.maxSteps
		case "history-db":
			cfg.HistoryDB = opts.historyDB
		}
	})
	if flagErr != nil {
		return nil, flagErr
	}
	cfg = cfg.WithDefaults()
	return cfg, cfg.Validate()
}

// dump prints each program after analysis and constant folding.
func dump(paths []string, cfg *config.Config, stdout, stderr io.Writer) int {
	status := 0
	for _, path := range paths {
		source, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %s\n", err)
			status = 1
			continue
		}
		ctx := pipeline.NewPipelineContext(path, source)
		ctx.Config = cfg
		ctx = pipeline.New(&loader.TreeLoaderProcessor{}, &analyzer.SemanticAnalyzerProcessor{}).Run(ctx)
		if ctx.Failed() {
			for _, e := range ctx.Errors {
				fmt.Fprintln(stderr, e.Error())
			}
			if ctx.Err != nil {
				fmt.Fprintln(stderr, ctx.Err.Error())
			}
			status = 1
			continue
		}
		if len(paths) > 1 {
			fmt.Fprintf(stdout, "# %s\n", path)
		}
		fmt.Fprint(stdout, prettyprinter.Print(ctx.AstRoot))
	}
	return status
}

func record(ctx context.Context, dbPath string, started time.Time, runs []*ulto.Run, logger *slog.Logger) error {
	log, err := runlog.Open(dbPath)
	if err != nil {
		return err
	}
	defer log.Close()
	for _, r := range runs {
		entry := runlog.FromResult(uuid.New(), started, r.Result, r.Err)
		if entry.File == "" {
			entry.File = r.File
		}
		id, err := log.Record(ctx, entry)
		if err != nil {
			return err
		}
		logger.Debug("run recorded", "id", id.String(), "file", entry.File, "db", dbPath)
	}
	return nil
}

package evaluator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/funvibe/ulto/internal/ast"
	"github.com/funvibe/ulto/internal/config"
	"github.com/funvibe/ulto/internal/diagnostics"
	"github.com/funvibe/ulto/internal/logstack"
	"github.com/funvibe/ulto/internal/memory"
	"github.com/funvibe/ulto/internal/profiler"
	"github.com/funvibe/ulto/internal/token"
)

// State is the lifecycle of one evaluator.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	default:
		return "faulted"
	}
}

// Counters are the cost metrics of a run.
type Counters struct {
	Assignments int64
	Evaluations int64
	Reversals   int64
	// Conditions is the share of Evaluations spent on condition checks.
	Conditions int64
}

// ControlSignal is returned alongside errors by statement execution.
type ControlSignal int

const (
	SignalNone ControlSignal = iota
	SignalBreak
)

type Evaluator struct {
	// Context for cancellation
	Context context.Context

	Out    io.Writer
	Logger *slog.Logger

	cfg *config.Config
	// timer drives profiling and the elapsed time; the injected clock drives
	// history only.
	timer   logstack.Clock
	env     *Environment
	history *logstack.Stack[Object]
	mem     *memory.Manager
	prof    *profiler.Profiler

	// eager names are stored as plain values; everything else may be a thunk.
	eager map[string]bool
	// scope, when set, resolves identifiers while a thunk is forced.
	scope map[string]Object

	counters   Counters
	state      State
	steps      int64
	sincePrune int
	logWarned  bool
	file       string
	elapsed    time.Duration
}

// New creates an evaluator reading the wall clock.
func New(cfg *config.Config) (*Evaluator, error) {
	return NewWithClock(cfg, logstack.SystemClock{})
}

// NewWithClock creates an evaluator whose history timestamps and pruning use
// clock. Zero values in cfg select the defaults.
func NewWithClock(cfg *config.Config, clock logstack.Clock) (*Evaluator, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mem, err := memory.NewManager(int64(cfg.MemoryLimit))
	if err != nil {
		return nil, err
	}
	timer := logstack.SystemClock{}
	return &Evaluator{
		Context: context.Background(),
		Out:     os.Stdout,
		Logger:  slog.New(slog.DiscardHandler),
		cfg:     cfg,
		timer:   timer,
		env:     NewEnvironment(),
		history: logstack.New(clock, SizeOf),
		mem:     mem,
		prof:    profiler.New(cfg.ProfileBatchSize, timer),
		eager:   make(map[string]bool),
	}, nil
}

// SizeOf is the ledger cost of a value, zero for nil.
func SizeOf(obj Object) int64 {
	if obj == nil {
		return 0
	}
	return obj.Size()
}

func (e *Evaluator) Memory() *memory.Manager { return e.mem }

// Run executes a validated program once. eager names the variables whose
// assignments are evaluated immediately. On a runtime fault the partial
// result is returned together with the error.
func (e *Evaluator) Run(program *ast.Program, eager map[string]bool) (*Result, error) {
	if e.state != StateIdle {
		return nil, fmt.Errorf("evaluator already %s", e.state)
	}
	e.state = StateRunning
	e.file = program.File
	for name := range eager {
		e.eager[name] = true
	}

	start := e.timer.Now()
	e.prof.Start(e.mem.Allocated())
	e.Logger.Debug("run started", "file", e.file, "statements", len(program.Statements), "eager", len(e.eager))

	var runErr error
	for _, stmt := range program.Statements {
		if _, err := e.execStatement(stmt); err != nil {
			runErr = e.locate(err, stmt.GetToken())
			break
		}
	}
	e.elapsed = e.timer.Now().Sub(start)

	if runErr != nil {
		e.state = StateFaulted
		e.Logger.Debug("run faulted", "file", e.file, "error", runErr)
	} else {
		e.state = StateCompleted
		e.Logger.Debug("run completed", "file", e.file, "elapsed", e.elapsed)
	}
	return e.result(), runErr
}

// locate fills in the file and, when missing, the position of a fault.
func (e *Evaluator) locate(err error, tok token.Token) error {
	var de *diagnostics.DiagnosticError
	if !errors.As(err, &de) {
		return err
	}
	if de.Token.Line == 0 {
		de.Token = tok
	}
	if de.File == "" {
		de.File = e.file
	}
	return de
}

// checkHost enforces cancellation and the step budget between statements.
func (e *Evaluator) checkHost(tok token.Token) error {
	if e.Context != nil {
		if err := e.Context.Err(); err != nil {
			return diagnostics.NewError(diagnostics.ErrR006, tok, "run cancelled: %v", err)
		}
	}
	if e.cfg.MaxSteps > 0 && e.steps > e.cfg.MaxSteps {
		return diagnostics.NewError(diagnostics.ErrR007, tok,
			"step budget of %d statements exceeded", e.cfg.MaxSteps)
	}
	return nil
}

// observe accounts one executed node for profiling and pruning.
func (e *Evaluator) observe(kind string) {
	if s, ok := e.prof.Observe(kind, e.mem.Allocated()); ok {
		e.Logger.Debug("profile sample", "kind", s.Kind, "elapsed", s.Elapsed, "mem_delta", s.MemDelta)
	}
	e.sincePrune++
	if e.sincePrune >= e.cfg.PruneEvery() {
		e.sincePrune = 0
		e.prune()
	}
}

func (e *Evaluator) prune() {
	removed := e.history.Prune(e.cfg.LogRetentionTime.Duration())
	usage := e.history.MemoryUsage()
	if removed > 0 {
		e.Logger.Debug("history pruned", "removed", removed, "remaining", e.history.Len())
	}
	if usage > int64(e.cfg.LogWarningBytes) && !e.logWarned {
		e.logWarned = true
		e.Logger.Warn("history log is large", "bytes", usage, "threshold", int64(e.cfg.LogWarningBytes))
	}
}


package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/funvibe/ulto/internal/config"
)

func writeProgram(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	be.Err(t, os.WriteFile(path, []byte(src), 0o644), nil)
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

const countdown = `
- assign: a
  value: 3
- while: {">": [a, 0]}
  do:
    - print: a
    - assign: a
      op: "-="
      value: 1
`

func TestRunPrintsOutputAndReport(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "count.yaml", countdown)
	code, out, _ := runCLI(t, path)
	be.Equal(t, code, 0)
	be.True(t, strings.HasPrefix(out, config.OutputHeader+"\n3\n2\n1\n"))
	be.True(t, strings.Contains(out, config.CostHeader))
	be.True(t, strings.Contains(out, "Assignments: 4"))
	// a bytes.Buffer is never a terminal
	be.True(t, !strings.Contains(out, "\x1b["))
}

func TestRunQuiet(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "count.yaml", countdown)
	code, out, _ := runCLI(t, "-quiet", path)
	be.Equal(t, code, 0)
	be.Equal(t, out, "3\n2\n1\n")
}

func TestRunFaultExitsNonZero(t *testing.T) {
	src := "- assign: a\n  value: 1\n- print: {\"/\": [a, 0]}\n"
	path := writeProgram(t, t.TempDir(), "div.yaml", src)
	code, _, errOut := runCLI(t, "-quiet", path)
	be.Equal(t, code, 1)
	be.True(t, strings.Contains(errOut, "R001"))
}

func TestRunAnalysisErrorExitsNonZero(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "undef.yaml", "- print: x\n")
	code, out, errOut := runCLI(t, path)
	be.Equal(t, code, 1)
	be.True(t, strings.Contains(errOut, "S001"))
	be.True(t, !strings.Contains(out, config.CostHeader))
}

func TestRunFlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	writeProgram(t, dir, "ulto.yaml", "max_steps: 1000\n")
	path := writeProgram(t, dir, "count.yaml", countdown)

	code, _, errOut := runCLI(t, "-quiet", "-max-steps", "3", path)
	be.Equal(t, code, 1)
	be.True(t, strings.Contains(errOut, "R007"))

	code, _, _ = runCLI(t, "-quiet", path)
	be.Equal(t, code, 0)
}

func TestRunRejectsBadFlags(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "count.yaml", countdown)
	code, _, errOut := runCLI(t, "-memory-limit", "lots", path)
	be.Equal(t, code, 1)
	be.True(t, strings.Contains(errOut, "-memory-limit"))

	code, _, _ = runCLI(t)
	be.Equal(t, code, 2)
}

func TestRunMultiplePrograms(t *testing.T) {
	dir := t.TempDir()
	first := writeProgram(t, dir, "a.yaml", "- print: 1\n")
	second := writeProgram(t, dir, "b.yaml", "- print: 2\n")
	code, out, _ := runCLI(t, "-quiet", "-j", "1", first, second)
	be.Equal(t, code, 0)
	be.Equal(t, out, "1\n\n2\n")
}

func TestDump(t *testing.T) {
	src := "- assign: a\n  value: {\"+\": [1, 2]}\n- print: {\"*\": [a, 2]}\n"
	path := writeProgram(t, t.TempDir(), "fold.yaml", src)
	code, out, _ := runCLI(t, "-dump", path)
	be.Equal(t, code, 0)
	be.Equal(t, out, "a = 3\nprint a * 2\n")
}

func TestHistoryRecording(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "runs.db")
	path := writeProgram(t, dir, "count.yaml", countdown)

	code, _, _ := runCLI(t, "-quiet", "-history-db", db, path)
	be.Equal(t, code, 0)

	var stdout, stderr bytes.Buffer
	code = runHistory(context.Background(), []string{"-history-db", db}, &stdout, &stderr)
	be.Equal(t, code, 0)
	be.True(t, strings.Contains(stdout.String(), "count.yaml"))
	be.True(t, strings.Contains(stdout.String(), "completed"))
}

func TestHistoryNeedsDatabase(t *testing.T) {
	t.Chdir(t.TempDir())
	var stdout, stderr bytes.Buffer
	code := runHistory(context.Background(), nil, &stdout, &stderr)
	be.Equal(t, code, 1)
	be.True(t, strings.Contains(stderr.String(), "no run log configured"))
}

func TestZeroFlagsSelectDefaults(t *testing.T) {
	src := `
- assign: a
  value: 1
- assign: a
  value: 2
- reverse: a
`
	path := writeProgram(t, t.TempDir(), "zero.yaml", src)
	code, out, errOut := runCLI(t, "-quiet", "-batch", "0", "-memory-limit", "0", "-retention", "0", path)
	be.Equal(t, code, 0)
	be.Equal(t, errOut, "")
	// a zero retention would have pruned the entry the reverse needs
	be.Equal(t, out, "a -> 1\n")
}

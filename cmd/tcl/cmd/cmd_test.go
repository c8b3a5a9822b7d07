package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestRunShellEvaluatesFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "ok.tcl", `puts hello`)
	if err := runShell(nil, []string{path}); err != nil {
		t.Fatalf("runShell: %v", err)
	}
}

func TestRunShellReportsScriptError(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "bad.tcl", `break`)
	if err := runShell(nil, []string{path}); err == nil {
		t.Fatal("expected an error from a script that breaks at top level")
	}
}

func TestRunTestReportsFailureCount(t *testing.T) {
	dir := t.TempDir()
	good := writeScript(t, dir, "good.tcl", `proc noop {} { return ok }
noop`)
	bad := writeScript(t, dir, "bad.tcl", `continue`)

	if err := runTest(nil, []string{good}); err != nil {
		t.Errorf("expected the passing script to report success, got %v", err)
	}
	if err := runTest(nil, []string{bad}); err == nil {
		t.Error("expected the failing script to report an error")
	}
	if err := runTest(nil, []string{good, bad}); err == nil {
		t.Error("expected a mixed batch with one failure to report an error")
	} else if got, want := err.Error(), "1 of 2 script(s) failed"; got != want {
		t.Errorf("mixed batch error = %q, want %q", got, want)
	}
}

func TestRunBenchRunsScriptCountTimes(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "loop.tcl", `proc noop {} { return ok }
noop`)
	benchCount = 3
	defer func() { benchCount = 1 }()
	if err := runBench(nil, []string{path}); err != nil {
		t.Fatalf("runBench: %v", err)
	}
}

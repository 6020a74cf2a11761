package run

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

// logRecorder collects rendered log lines; safe for concurrent batches.
type logRecorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *logRecorder) logf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *logRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func newRunner(rec *logRecorder) *Runner {
	return New(Options{Debug: true, Logger: rec.logf})
}

// task returns a unit that logs a begin/done pair and yields status.
func task(rec *logRecorder, name string, status int) Unit {
	return Func(func() (int, error) {
		rec.logf("%s begin", name)
		rec.logf("%s done.", name)
		return status, nil
	})
}

func TestRunSequential(t *testing.T) {
	t.Parallel()
	rec := &logRecorder{}
	r := newRunner(rec)

	status, err := r.Run("build", Sequential,
		task(rec, "1", 0), task(rec, "2", 0), task(rec, "3", 0))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if status != 0 {
		t.Errorf("Run() = %d, want 0", status)
	}

	want := []string{
		"[run] build...",
		"1 begin",
		"1 done.",
		"2 begin",
		"2 done.",
		"3 begin",
		"3 done.",
		"[run] build done.",
	}
	got := rec.all()
	if len(got) != len(want) {
		t.Fatalf("log lines = %d, want %d: %q", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRunConcurrent(t *testing.T) {
	t.Parallel()
	rec := &logRecorder{}
	r := newRunner(rec)

	status, err := r.Run("parallel batch", Concurrent,
		task(rec, "a", 0), task(rec, "b", 0), task(rec, "c", 0))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if status != 0 {
		t.Errorf("Run() = %d, want 0", status)
	}

	got := rec.all()
	if len(got) != 9 {
		t.Fatalf("log lines = %d, want 9: %q", len(got), got)
	}
	// Only the batch framing and the dispatch line are ordered; unit lines
	// may interleave.
	if got[0] != "[run] parallel batch..." {
		t.Errorf("first line = %q", got[0])
	}
	if !strings.HasPrefix(got[1], "dispatching 3 unit(s) across ") {
		t.Errorf("second line = %q, want dispatch diagnostics", got[1])
	}
	if got[len(got)-1] != "[run] parallel batch done." {
		t.Errorf("last line = %q", got[len(got)-1])
	}
}

func TestRunConcurrentNoDebugLine(t *testing.T) {
	t.Parallel()
	rec := &logRecorder{}
	r := New(Options{Logger: rec.logf})

	if _, err := r.Run("batch", Concurrent, task(rec, "a", 0)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, line := range rec.all() {
		if strings.HasPrefix(line, "dispatching") {
			t.Errorf("dispatch diagnostics logged without debug: %q", line)
		}
	}
}

func TestRunNonZeroStatus(t *testing.T) {
	t.Parallel()
	rec := &logRecorder{}
	r := newRunner(rec)

	ran3 := false
	status, err := r.Run("23", Sequential,
		task(rec, "1", 0),
		task(rec, "42", 9),
		Func(func() (int, error) {
			ran3 = true
			return 0, nil
		}))
	if err == nil {
		t.Fatal("Run() error = nil, want non-zero status error")
	}
	if err.Error() != "0 expected, but got: 9" {
		t.Errorf("error = %q, want %q", err.Error(), "0 expected, but got: 9")
	}
	if status != 9 {
		t.Errorf("Run() = %d, want 9", status)
	}
	if ran3 {
		t.Error("third unit ran after sequential failure")
	}

	got := rec.all()
	if got[len(got)-1] == "[run] 23 done." {
		t.Error("done marker logged for a failed batch")
	}
}

func TestRunConcurrentNonZeroStatus(t *testing.T) {
	t.Parallel()
	rec := &logRecorder{}
	r := newRunner(rec)

	var mu sync.Mutex
	completed := 0
	unit := func(status int) Unit {
		return Func(func() (int, error) {
			mu.Lock()
			completed++
			mu.Unlock()
			return status, nil
		})
	}

	_, err := r.Run("mixed", Concurrent, unit(0), unit(9), unit(0))
	if err == nil || err.Error() != "0 expected, but got: 9" {
		t.Fatalf("error = %v, want 0 expected, but got: 9", err)
	}
	if completed != 3 {
		t.Errorf("completed units = %d, want 3 (dispatched units run to completion)", completed)
	}
}

func TestRunUnitError(t *testing.T) {
	t.Parallel()
	rec := &logRecorder{}
	r := newRunner(rec)

	boom := errors.New("spawn failed")
	_, err := r.Run("broken", Sequential, Func(func() (int, error) {
		return 0, boom
	}))
	if !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want %v", err, boom)
	}
}

func TestRunUnit(t *testing.T) {
	t.Parallel()
	rec := &logRecorder{}
	r := newRunner(rec)

	status, err := r.RunUnit("single", task(rec, "only", 0))
	if err != nil {
		t.Fatalf("RunUnit() error = %v", err)
	}
	if status != 0 {
		t.Errorf("RunUnit() = %d, want 0", status)
	}

	want := []string{"[run] single...", "only begin", "only done.", "[run] single done."}
	got := rec.all()
	if len(got) != len(want) {
		t.Fatalf("log lines = %q, want %q", got, want)
	}
}

func TestRunnerQuiet(t *testing.T) {
	t.Parallel()
	rec := &logRecorder{}
	r := New(Options{Quiet: true, Logger: rec.logf})

	r.Log("log %s", "1")
	r.Debug("debug %s", "1")
	if len(rec.all()) != 0 {
		t.Errorf("quiet runner logged %q", rec.all())
	}
}

func TestRunnerDebugGating(t *testing.T) {
	t.Parallel()
	rec := &logRecorder{}

	r := New(Options{Debug: true, Logger: rec.logf})
	r.Debug("debug %s", "1")

	r = New(Options{Debug: false, Logger: rec.logf})
	r.Debug("debug %s", "2")

	got := rec.all()
	if len(got) != 1 || got[0] != "debug 1" {
		t.Errorf("debug lines = %q, want [debug 1]", got)
	}
}

func TestRunnerReusable(t *testing.T) {
	t.Parallel()
	rec := &logRecorder{}
	r := newRunner(rec)

	if _, err := r.Run("first", Sequential, task(rec, "x", 0)); err != nil {
		t.Fatalf("first batch: %v", err)
	}
	if _, err := r.Run("second", Sequential, task(rec, "y", 0)); err != nil {
		t.Fatalf("second batch: %v", err)
	}
}

func TestParallelWorkers(t *testing.T) {
	tests := []struct {
		env  string
		want int // 0 means "at least 1"
	}{
		{"", 0},
		{"4", 4},
		{"1", 1},
		{"256", 256},
		{"invalid", 0},
		{"0", 0},
		{"-1", 0},
		{"257", 0},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("FOUNDRY_PARALLEL", tt.env)
			got := parallelWorkers()
			if tt.want == 0 {
				if got < 1 {
					t.Errorf("parallelWorkers() = %d, want >= 1", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("parallelWorkers() = %d, want %d", got, tt.want)
			}
		})
	}
}

// Package run executes named batches of runnable units and enforces the
// all-zero-exit contract.
package run

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"
)

// Logger is the sink for rendered log lines. Each call emits exactly one line.
// A Logger handed to a concurrent batch must tolerate calls from multiple
// goroutines.
type Logger func(format string, args ...any)

// Unit is anything invocable that yields an integer exit status.
// A zero status means success. A non-nil error is an infrastructure
// failure (the unit could not run at all), not a non-zero status.
type Unit interface {
	Run() (int, error)
}

// Func adapts a plain function to a Unit.
type Func func() (int, error)

// Run invokes the function.
func (f Func) Run() (int, error) { return f() }

// Mode selects how a batch dispatches its units.
type Mode int

const (
	// Sequential runs units strictly in declaration order.
	Sequential Mode = iota
	// Concurrent runs units on a bounded worker pool.
	Concurrent
)

const (
	// minWorkers prevents semaphore deadlock when runtime.NumCPU() misbehaves
	// in containerized environments.
	minWorkers = 1

	// maxWorkers caps FOUNDRY_PARALLEL. Unit execution is I/O-bound
	// (subprocess spawning, network transfers); more workers than this only
	// add scheduling overhead.
	maxWorkers = 256
)

// Options configures a Runner. Quiet suppresses all logging, Debug enables
// debug-level lines. Both are explicit fields rather than process-wide state
// so runners stay independently testable.
type Options struct {
	Quiet  bool
	Debug  bool
	Logger Logger
}

// Runner executes named batches of units. A Runner carries no batch-scoped
// state and is reusable across independent batches.
type Runner struct {
	opts Options
}

// New creates a Runner with the given options.
func New(opts Options) *Runner {
	return &Runner{opts: opts}
}

// Log emits a line through the configured logger unless quiet mode is on.
func (r *Runner) Log(format string, args ...any) {
	if r.opts.Quiet || r.opts.Logger == nil {
		return
	}
	r.opts.Logger(format, args...)
}

// Debug emits a debug line; dropped unless Debug is set and Quiet is not.
func (r *Runner) Debug(format string, args ...any) {
	if !r.opts.Debug {
		return
	}
	r.Log(format, args...)
}

// ExitError reports a unit that completed with a non-zero status.
type ExitError struct {
	Status int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("0 expected, but got: %d", e.Status)
}

// Run executes the named batch and returns 0 iff every unit returned 0.
// The batch is framed by "[run] {name}..." and "[run] {name} done." markers;
// the done marker is not emitted when the batch fails.
//
// In Sequential mode units run in declaration order and the batch fails fast
// after the first offending unit. In Concurrent mode all units are dispatched
// to a bounded worker pool and run to completion before statuses are
// aggregated; the first non-zero status in declaration order wins.
func (r *Runner) Run(name string, mode Mode, units ...Unit) (int, error) {
	r.Log("[run] %s...", name)

	var err error
	switch mode {
	case Concurrent:
		err = r.runConcurrent(units)
	default:
		err = r.runSequential(units)
	}
	if err != nil {
		return statusOf(err), err
	}

	r.Log("[run] %s done.", name)
	return 0, nil
}

// RunUnit executes a single unit as a one-element sequential batch.
func (r *Runner) RunUnit(name string, unit Unit) (int, error) {
	return r.Run(name, Sequential, unit)
}

func (r *Runner) runSequential(units []Unit) error {
	for _, u := range units {
		status, err := u.Run()
		if err != nil {
			return err
		}
		if status != 0 {
			return &ExitError{Status: status}
		}
	}
	return nil
}

func (r *Runner) runConcurrent(units []Unit) error {
	workers := parallelWorkers()
	r.Debug("dispatching %d unit(s) across %d worker(s)", len(units), workers)
	sem := make(chan struct{}, workers)

	statuses := make([]int, len(units))
	errs := make([]error, len(units))

	var wg sync.WaitGroup
	for i, u := range units {
		wg.Add(1)
		go func(i int, u Unit) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			statuses[i], errs[i] = u.Run()
		}(i, u)
	}
	wg.Wait()

	// Already-dispatched units all ran to completion; report the first
	// failure in declaration order.
	for i := range units {
		if errs[i] != nil {
			return errs[i]
		}
		if statuses[i] != 0 {
			return &ExitError{Status: statuses[i]}
		}
	}
	return nil
}

// statusOf extracts the offending status for the Runner's return value.
// Infrastructure failures surface as -1 since no child status exists.
func statusOf(err error) int {
	if ee, ok := err.(*ExitError); ok {
		return ee.Status
	}
	return -1
}

// parallelWorkers returns the concurrent-batch pool size. Invalid
// FOUNDRY_PARALLEL values fall back to the CPU count.
func parallelWorkers() int {
	env := os.Getenv("FOUNDRY_PARALLEL")
	if env == "" {
		return defaultWorkers()
	}

	n, err := strconv.Atoi(env)
	if err != nil || n < minWorkers || n > maxWorkers {
		return defaultWorkers()
	}
	return n
}

func defaultWorkers() int {
	return max(minWorkers, runtime.NumCPU())
}

package errors

import (
	stderrors "errors"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  *FoundryError
		want string
	}{
		{"plain", New("boom"), "boom"},
		{"formatted", Newf("bad status %d", 9), "bad status 9"},
		{"task scoped", TaskError("build", "compile failed"), "[build] compile failed"},
		{"not found", NotFound("task", "deploy"), "task not found: deploy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  *FoundryError
		want int
	}{
		{"runtime", New("boom"), ExitRuntimeError},
		{"config", Config("bad config"), ExitConfigError},
		{"environment", Environment("no shell"), ExitEnvironmentError},
		{"not found", NotFound("task", "x"), ExitRuntimeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetExitCode(t *testing.T) {
	t.Parallel()
	if got := GetExitCode(nil); got != ExitSuccess {
		t.Errorf("GetExitCode(nil) = %d, want %d", got, ExitSuccess)
	}
	if got := GetExitCode(Config("x")); got != ExitConfigError {
		t.Errorf("GetExitCode(config) = %d, want %d", got, ExitConfigError)
	}
	if got := GetExitCode(stderrors.New("plain")); got != ExitRuntimeError {
		t.Errorf("GetExitCode(plain) = %d, want %d", got, ExitRuntimeError)
	}
}

func TestWrapUnwrap(t *testing.T) {
	t.Parallel()
	cause := stderrors.New("root cause")
	err := Wrap(cause, "context")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error does not match cause via errors.Is")
	}
	if err.Error() != "context" {
		t.Errorf("Error() = %q, want %q", err.Error(), "context")
	}
}

package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintln(t *testing.T) {
	t.Parallel()
	var out, errOut bytes.Buffer
	w := NewWithWriters(&out, &errOut, false)

	w.Println("hello %s", "world")
	if out.String() != "hello world\n" {
		t.Errorf("stdout = %q", out.String())
	}
	if errOut.Len() != 0 {
		t.Errorf("stderr = %q, want empty", errOut.String())
	}
}

func TestInfoRespectsQuiet(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	w := NewWithWriters(&out, &bytes.Buffer{}, false)

	w.SetQuiet(true)
	w.Info("suppressed")
	if out.Len() != 0 {
		t.Errorf("quiet info wrote %q", out.String())
	}

	w.SetQuiet(false)
	w.Info("visible")
	if out.String() != "visible\n" {
		t.Errorf("stdout = %q", out.String())
	}
}

func TestErrorPrefix(t *testing.T) {
	t.Parallel()
	var errOut bytes.Buffer
	w := NewWithWriters(&bytes.Buffer{}, &errOut, false)

	w.ErrorPrefix("something broke: %d", 9)
	if got := errOut.String(); got != "foundry: something broke: 9\n" {
		t.Errorf("stderr = %q", got)
	}
}

func TestWarning(t *testing.T) {
	t.Parallel()
	var errOut bytes.Buffer
	w := NewWithWriters(&bytes.Buffer{}, &errOut, false)

	w.Warning("cache dir missing")
	if got := errOut.String(); got != "warning: cache dir missing\n" {
		t.Errorf("stderr = %q", got)
	}
}

func TestSuccessWithColor(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	w := NewWithWriters(&out, &bytes.Buffer{}, true)

	w.Success("done")
	got := out.String()
	if !strings.Contains(got, "done") || !strings.Contains(got, "\033[32m") {
		t.Errorf("stdout = %q, want colored done", got)
	}
}

func TestTableAlignment(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	w := NewWithWriters(&out, &bytes.Buffer{}, false)

	w.Table([][2]string{
		{"build", "compile the project"},
		{"ci", "full pipeline"},
	})

	want := "  build  compile the project\n  ci     full pipeline\n"
	if out.String() != want {
		t.Errorf("table = %q, want %q", out.String(), want)
	}
}

// Package command represents an external program invocation as a runnable
// unit: a tool name, an ordered argument list, stream redirection, and a
// resolution hook that maps the tool name to a concrete executable at launch
// time.
package command

import (
	"io"
	"os"
	"os/exec"
	"strings"

	foundryerrors "github.com/rkuzmin/foundry/internal/errors"
	"github.com/rkuzmin/foundry/internal/run"
)

// Resolver maps an abstract tool name to a concrete executable path.
// A false return means no mapping exists and the name is used as-is.
type Resolver interface {
	Resolve(name string) (string, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(name string) (string, bool)

// Resolve calls the function.
func (f ResolverFunc) Resolve(name string) (string, bool) { return f(name) }

// Command is a buildable external-process invocation. Mutators return the
// same instance so configuration chains. Each Command is owned by a single
// caller; re-invocation re-resolves the tool each time.
type Command struct {
	tool     string
	args     []string
	dir      string
	stdout   io.Writer
	stderr   io.Writer
	log      run.Logger
	resolver Resolver
}

// New creates a Command for the given tool name. Output streams default to
// the caller's stdout and stderr.
func New(tool string) *Command {
	return &Command{
		tool:   tool,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// Add appends arguments, preserving order.
func (c *Command) Add(args ...string) *Command {
	c.args = append(c.args, args...)
	return c
}

// SetStreams redirects the child's standard output and error.
func (c *Command) SetStreams(stdout, stderr io.Writer) *Command {
	c.stdout = stdout
	c.stderr = stderr
	return c
}

// SetDir overrides the child's working directory.
func (c *Command) SetDir(dir string) *Command {
	c.dir = dir
	return c
}

// SetLogger installs the log sink for invocation diagnostics.
func (c *Command) SetLogger(log run.Logger) *Command {
	c.log = log
	return c
}

// SetResolver installs the tool-name resolution hook.
func (c *Command) SetResolver(r Resolver) *Command {
	c.resolver = r
	return c
}

// Tool returns the configured tool name.
func (c *Command) Tool() string { return c.tool }

// Args returns the configured arguments.
func (c *Command) Args() []string { return c.args }

func (c *Command) logf(format string, args ...any) {
	if c.log != nil {
		c.log(format, args...)
	}
}

// Run launches the resolved program with the configured arguments, blocks
// until it terminates, and returns its exit status unchanged. Interpreting
// the status is the caller's job. Failure to start the program is fatal and
// returned as an error.
func (c *Command) Run() (int, error) {
	c.logf("running %s with %d argument(s)", c.tool, len(c.args))
	c.logf("%s", strings.Join(append([]string{c.tool}, c.args...), "\n"))

	program := c.resolve()

	cmd := exec.Command(program, c.args...)
	cmd.Dir = c.dir
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	if ee, ok := err.(*exec.ExitError); ok {
		return ee.ExitCode(), nil
	}
	return -1, foundryerrors.Environmentf("starting `%s` failed: %v", program, err)
}

// resolve maps the tool name through the resolver hook. Resolution happens
// once per invocation, immediately before launch.
func (c *Command) resolve() string {
	if c.resolver == nil {
		return c.tool
	}
	program, ok := c.resolver.Resolve(c.tool)
	if !ok || program == c.tool {
		return c.tool
	}
	c.logf("replaced executable `%s` with program `%s`", c.tool, program)
	return program
}

// Package cli provides command-line interface functionality for foundry.
package cli

import (
	"fmt"
	"strings"

	"github.com/rkuzmin/foundry/internal/errors"
	"github.com/rkuzmin/foundry/internal/output"
)

// Version is set at build time.
var Version = "dev"

// out is the shared output writer for CLI commands.
var out = output.New()

// GlobalOptions holds flags shared by all commands.
type GlobalOptions struct {
	Quiet    bool // Minimal output, suppresses the run/fetch log trail
	Debug    bool // Debug-level log lines
	Offline  bool // Forbid network access during fetch
	Parallel bool // Force concurrent execution for every task
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 0
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return 0
	case "--version", "version":
		fmt.Printf("foundry %s\n", Version)
		return 0
	}

	opts, remaining, err := parseGlobalFlags(args)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitConfigError
	}
	if len(remaining) == 0 {
		printUsage()
		return 0
	}

	out.SetQuiet(opts.Quiet)

	cmd := remaining[0]
	cmdArgs := remaining[1:]

	switch cmd {
	case "run":
		return cmdRun(cmdArgs, opts)
	case "exec":
		return cmdExec(cmdArgs, opts)
	case "fetch":
		return cmdFetch(cmdArgs, opts)
	case "tasks":
		return cmdTasks(cmdArgs)
	case "tools":
		return cmdTools(cmdArgs)
	case "config":
		return cmdConfig(cmdArgs)
	default:
		out.ErrorPrefix("unknown command: %s", cmd)
		printUsage()
		return errors.ExitConfigError
	}
}

// parseGlobalFlags extracts global flags from the argument list. Arguments
// after a bare "--" are passed through untouched.
func parseGlobalFlags(args []string) (GlobalOptions, []string, error) {
	var opts GlobalOptions
	var remaining []string

	passthrough := false
	for _, arg := range args {
		if passthrough {
			remaining = append(remaining, arg)
			continue
		}
		switch arg {
		case "--":
			passthrough = true
		case "-q", "--quiet":
			opts.Quiet = true
		case "-d", "--debug":
			opts.Debug = true
		case "--offline":
			opts.Offline = true
		case "--parallel":
			opts.Parallel = true
		default:
			if strings.HasPrefix(arg, "-") && len(remaining) == 0 {
				return opts, nil, fmt.Errorf("unknown flag: %s", arg)
			}
			remaining = append(remaining, arg)
		}
	}

	return opts, remaining, nil
}

// Package foundry provides public constants for external tools integrating
// with Foundry.
package foundry

// Exit codes returned by the foundry CLI.
// These constants allow external tools to check exit codes symbolically
// rather than using magic numbers.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure (task failed, transfer failed, etc.).
	ExitFailure = 1

	// ExitConfigError indicates a configuration error (invalid config, unknown task, etc.).
	ExitConfigError = 2

	// ExitEnvError indicates an environment error (missing executable, offline cache miss, etc.).
	ExitEnvError = 3
)

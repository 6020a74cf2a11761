package cli

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Help text alignment widths for consistent formatting.
const (
	helpCommandWidth = 18
	helpFlagWidth    = 14
)

// printUsage prints the top-level help text.
func printUsage() {
	out.HelpTitle("foundry - minimal build automation")

	out.HelpSection("Usage:")
	out.HelpUsage("foundry [options] <command> [args]")

	out.HelpSection("Commands:")
	out.HelpCommand("run <task>", "Run a task and its dependencies", helpCommandWidth)
	out.HelpCommand("exec <tool> [args]", "Run a single tool under the zero-exit contract", helpCommandWidth)
	out.HelpCommand("fetch [uri...]", "Materialize resources into the cache", helpCommandWidth)
	out.HelpCommand("tasks", "List declared tasks", helpCommandWidth)
	out.HelpCommand("tools", "List the tool catalog", helpCommandWidth)
	out.HelpCommand("config", "Show or validate the configuration", helpCommandWidth)
	out.HelpCommand("version", "Print the foundry version", helpCommandWidth)
	out.HelpCommand("help", "Show this help", helpCommandWidth)

	printGlobalOptions()

	out.HelpSection("Examples:")
	out.HelpExample("foundry run build", "Run the build task")
	out.HelpExample("foundry --offline run build", "Run without network access")
	out.HelpExample("foundry fetch", "Fetch all declared resources")
	out.Println("")
}

func printGlobalOptions() {
	out.HelpSection("Global Options:")
	out.HelpFlag("-q, --quiet", "Minimal output (errors only)", helpFlagWidth)
	out.HelpFlag("-d, --debug", "Debug-level log lines", helpFlagWidth)
	out.HelpFlag("--offline", "Forbid network access during fetch", helpFlagWidth)
	out.HelpFlag("--parallel", "Force concurrent execution for every task", helpFlagWidth)
	out.HelpFlag("-h, --help", "Show help", helpFlagWidth)
}

// printTaskExamples prints examples for a task-oriented command, with the
// command verb title-cased in the description.
func printTaskExamples(cmd string) {
	titleCase := cases.Title(language.English)
	out.HelpSection("Examples:")
	out.HelpExample(fmt.Sprintf("foundry %s build", cmd), fmt.Sprintf("%s the build task", titleCase.String(cmd)))
	out.HelpExample(fmt.Sprintf("foundry --parallel %s build", cmd), fmt.Sprintf("%s with concurrent steps", titleCase.String(cmd)))
	out.Println("")
}

func printRunUsage() {
	out.HelpTitle("foundry run - run a task")

	out.HelpSection("Usage:")
	out.HelpUsage("foundry [options] run <task>")

	out.HelpSection("Description:")
	out.Println("  Fetches declared resources, then runs the task and its")
	out.Println("  dependencies in dependency order. Every step must exit")
	out.Println("  with status 0 for the task to succeed.")

	printGlobalOptions()
	printTaskExamples("run")
}

func printExecUsage() {
	out.HelpTitle("foundry exec - run a single tool")

	out.HelpSection("Usage:")
	out.HelpUsage("foundry [options] exec <tool> [args...]")

	out.HelpSection("Description:")
	out.Println("  Resolves the tool name through the project catalog and runs")
	out.Println("  it with the given arguments. A non-zero exit status fails")
	out.Println("  the command.")
	out.Println("")
}

func printFetchUsage() {
	out.HelpTitle("foundry fetch - materialize resources")

	out.HelpSection("Usage:")
	out.HelpUsage("foundry [options] fetch [uri...]")

	out.HelpSection("Description:")
	out.Println("  Downloads the given URIs (or all declared resources) into the")
	out.Println("  cache directory, skipping transfers when the cached copy still")
	out.Println("  matches the remote metadata.")
	out.Println("")
}

func printTasksUsage() {
	out.HelpTitle("foundry tasks - list declared tasks")

	out.HelpSection("Usage:")
	out.HelpUsage("foundry tasks")
	out.Println("")
}

func printToolsUsage() {
	out.HelpTitle("foundry tools - list the tool catalog")

	out.HelpSection("Usage:")
	out.HelpUsage("foundry tools")
	out.Println("")
}

func printConfigUsage() {
	out.HelpTitle("foundry config - inspect the configuration")

	out.HelpSection("Usage:")
	out.HelpUsage("foundry config [show|validate]")
	out.Println("")
}

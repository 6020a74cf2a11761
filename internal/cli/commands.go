package cli

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rkuzmin/foundry/internal/command"
	"github.com/rkuzmin/foundry/internal/config"
	"github.com/rkuzmin/foundry/internal/errors"
	"github.com/rkuzmin/foundry/internal/fetch"
	"github.com/rkuzmin/foundry/internal/project"
	"github.com/rkuzmin/foundry/internal/run"
	"github.com/rkuzmin/foundry/internal/taskgraph"
	"github.com/rkuzmin/foundry/internal/toolchain"
)

// loadProject loads the project configuration and handles errors uniformly.
// Returns the project and exit code 0 on success, or nil and the appropriate
// exit code on failure.
func loadProject() (*project.Project, int) {
	proj, err := project.Load()
	if err != nil {
		out.ErrorPrefix("%v", err)
		return nil, errors.GetExitCode(err)
	}
	return proj, 0
}

// logLine is the raw line sink handed to Runner and Downloader; both apply
// their own quiet/debug gating before a line reaches it. Commands get
// runner.Log instead so they share the runner's gate.
func logLine(format string, args ...any) {
	out.Println(format, args...)
}

func newRunner(opts GlobalOptions) *run.Runner {
	return run.New(run.Options{
		Quiet:  opts.Quiet,
		Debug:  opts.Debug,
		Logger: logLine,
	})
}

func newDownloader(proj *project.Project, opts GlobalOptions) *fetch.Downloader {
	return fetch.New(fetch.Options{
		Offline: opts.Offline || proj.Config.Offline,
		Quiet:   opts.Quiet,
		Debug:   opts.Debug,
		Logger:  logLine,
	})
}

func newCatalog(proj *project.Project) *toolchain.Catalog {
	toolsDir := proj.Config.ToolsDir
	if toolsDir != "" && !filepath.IsAbs(toolsDir) {
		toolsDir = filepath.Join(proj.Root, toolsDir)
	}
	return toolchain.NewCatalog(proj.Config.Tools, toolsDir)
}

// fetchResources materializes every declared resource into the cache
// directory before any task runs.
func fetchResources(proj *project.Project, d *fetch.Downloader) error {
	if len(proj.Config.Resources) == 0 {
		return nil
	}
	cacheDir := proj.CacheDir()
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return errors.Wrap(err, "creating cache directory failed")
	}
	for _, uri := range proj.Config.Resources {
		if _, err := d.Fetch(uri, cacheDir); err != nil {
			return err
		}
	}
	return nil
}

// buildUnits turns a task's steps into runnable command units. Command
// diagnostics go through the runner's logger so quiet mode silences them too.
func buildUnits(proj *project.Project, task config.TaskConfig, catalog *toolchain.Catalog, runner *run.Runner) []run.Unit {
	units := make([]run.Unit, 0, len(task.Steps))
	for _, step := range task.Steps {
		dir := proj.Root
		if step.Dir != "" {
			dir = filepath.Join(proj.Root, step.Dir)
		}
		c := command.New(step.Tool).
			Add(step.Args...).
			SetDir(dir).
			SetLogger(runner.Log).
			SetResolver(catalog)
		units = append(units, c)
	}
	return units
}

func taskMode(task config.TaskConfig, opts GlobalOptions) run.Mode {
	if opts.Parallel || task.Mode == config.ModeParallel {
		return run.Concurrent
	}
	return run.Sequential
}

// cmdRun handles 'foundry run <task>'.
func cmdRun(args []string, opts GlobalOptions) int {
	if wantsHelp(args) {
		printRunUsage()
		return 0
	}
	if len(args) == 0 {
		out.ErrorPrefix("task name required")
		printRunUsage()
		return errors.ExitConfigError
	}
	taskName := args[0]

	proj, code := loadProject()
	if proj == nil {
		return code
	}

	graph := make(taskgraph.Graph, len(proj.Config.Tasks))
	for name, task := range proj.Config.Tasks {
		graph[name] = task.Depends
	}
	order, err := taskgraph.Order(graph, taskName)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitConfigError
	}

	d := newDownloader(proj, opts)
	if err := fetchResources(proj, d); err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}

	catalog := newCatalog(proj)
	runner := newRunner(opts)

	for _, name := range order {
		task := proj.Config.Tasks[name]
		if len(task.Steps) == 0 {
			continue
		}
		units := buildUnits(proj, task, catalog, runner)
		if _, err := runner.Run(name, taskMode(task, opts), units...); err != nil {
			out.ErrorPrefix("task %s failed: %v", name, err)
			return errors.GetExitCode(err)
		}
	}

	return errors.ExitSuccess
}

// cmdExec handles 'foundry exec <tool> [args...]': a single external tool
// run under the zero-exit contract.
func cmdExec(args []string, opts GlobalOptions) int {
	if wantsHelp(args) {
		printExecUsage()
		return 0
	}
	if len(args) == 0 {
		out.ErrorPrefix("tool name required")
		printExecUsage()
		return errors.ExitConfigError
	}
	tool := args[0]
	toolArgs := args[1:]

	// exec works outside a project too; the catalog is just empty then.
	var catalog *toolchain.Catalog
	if proj, err := project.Load(); err == nil {
		catalog = newCatalog(proj)
	} else if err != project.ErrNoProjectRoot {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	} else {
		catalog = toolchain.NewCatalog(nil, "")
	}

	runner := newRunner(opts)
	runner.Log("[run] %s [%s]", tool, strings.Join(toolArgs, ", "))

	c := command.New(tool).
		Add(toolArgs...).
		SetLogger(runner.Log).
		SetResolver(catalog)

	status, err := c.Run()
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
	if status != 0 {
		err := &run.ExitError{Status: status}
		out.ErrorPrefix("%v", err)
		return errors.ExitRuntimeError
	}
	return errors.ExitSuccess
}

// cmdFetch handles 'foundry fetch [uri...]'. Without arguments it
// materializes every resource declared in the configuration.
func cmdFetch(args []string, opts GlobalOptions) int {
	if wantsHelp(args) {
		printFetchUsage()
		return 0
	}

	proj, code := loadProject()
	if proj == nil {
		return code
	}

	uris := args
	if len(uris) == 0 {
		uris = proj.Config.Resources
	}
	if len(uris) == 0 {
		out.Info("no resources declared")
		return errors.ExitSuccess
	}

	cacheDir := proj.CacheDir()
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		out.ErrorPrefix("creating cache directory failed: %v", err)
		return errors.ExitRuntimeError
	}

	d := newDownloader(proj, opts)
	for _, uri := range uris {
		path, err := d.Fetch(uri, cacheDir)
		if err != nil {
			out.ErrorPrefix("%v", err)
			return errors.GetExitCode(err)
		}
		out.Println("%s", path)
	}
	return errors.ExitSuccess
}

// cmdTasks handles 'foundry tasks': lists declared tasks.
func cmdTasks(args []string) int {
	if wantsHelp(args) {
		printTasksUsage()
		return 0
	}

	proj, code := loadProject()
	if proj == nil {
		return code
	}

	names := make([]string, 0, len(proj.Config.Tasks))
	for name := range proj.Config.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][2]string, 0, len(names))
	for _, name := range names {
		task := proj.Config.Tasks[name]
		detail := task.Mode + ", " + strconv.Itoa(len(task.Steps)) + " step(s)"
		if len(task.Depends) > 0 {
			detail += ", depends on " + strings.Join(task.Depends, ", ")
		}
		rows = append(rows, [2]string{name, detail})
	}
	out.Table(rows)
	return errors.ExitSuccess
}

// cmdTools handles 'foundry tools': lists the tool catalog.
func cmdTools(args []string) int {
	if wantsHelp(args) {
		printToolsUsage()
		return 0
	}

	proj, code := loadProject()
	if proj == nil {
		return code
	}

	catalog := newCatalog(proj)
	names := catalog.Names()
	if len(names) == 0 && proj.Config.ToolsDir == "" {
		out.Info("no tools configured; names resolve via PATH")
		return errors.ExitSuccess
	}

	rows := make([][2]string, 0, len(names))
	for _, name := range names {
		program, _ := catalog.Resolve(name)
		rows = append(rows, [2]string{name, program})
	}
	out.Table(rows)
	if proj.Config.ToolsDir != "" {
		out.Info("unmapped names are probed in %s before falling back to PATH", proj.Config.ToolsDir)
	}
	return errors.ExitSuccess
}

// cmdConfig handles 'foundry config [show|validate]'.
func cmdConfig(args []string) int {
	if wantsHelp(args) {
		printConfigUsage()
		return 0
	}

	sub := "show"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "show":
		proj, code := loadProject()
		if proj == nil {
			return code
		}
		cfg := proj.Config
		out.Table([][2]string{
			{"project", cfg.Project},
			{"root", proj.Root},
			{"cache_dir", proj.CacheDir()},
			{"offline", strconv.FormatBool(cfg.Offline)},
			{"tools", strconv.Itoa(len(cfg.Tools))},
			{"resources", strconv.Itoa(len(cfg.Resources))},
			{"tasks", strconv.Itoa(len(cfg.Tasks))},
		})
		return errors.ExitSuccess
	case "validate":
		if _, code := loadProject(); code != 0 {
			return code
		}
		out.Success("configuration is valid")
		return errors.ExitSuccess
	default:
		out.ErrorPrefix("unknown config subcommand: %s", sub)
		printConfigUsage()
		return errors.ExitConfigError
	}
}

// wantsHelp returns true if args contain -h or --help before any -- separator.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
		if arg == "--" {
			return false
		}
	}
	return false
}

package config

import (
	foundryerrors "github.com/rkuzmin/foundry/internal/errors"
	"github.com/rkuzmin/foundry/internal/taskgraph"
)

// Validate performs semantic checks the schema cannot express:
// dependency references, cycles, and per-task step sanity.
func Validate(cfg *Config) error {
	if cfg.Project == "" {
		return foundryerrors.Config("project name is required")
	}

	graph := make(taskgraph.Graph, len(cfg.Tasks))
	for name, task := range cfg.Tasks {
		graph[name] = task.Depends
	}
	if err := taskgraph.Validate(graph); err != nil {
		return foundryerrors.Configf("invalid task dependencies: %v", err)
	}

	for name, task := range cfg.Tasks {
		if task.Mode != ModeSequential && task.Mode != ModeParallel {
			return foundryerrors.Configf("task %q: unknown mode %q", name, task.Mode)
		}
		if len(task.Steps) == 0 && len(task.Depends) == 0 {
			return foundryerrors.Configf("task %q declares neither steps nor dependencies", name)
		}
		for i, step := range task.Steps {
			if step.Tool == "" {
				return foundryerrors.Configf("task %q: step %d has no tool", name, i+1)
			}
		}
	}
	return nil
}

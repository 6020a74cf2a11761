// Package taskgraph orders tasks by their declared dependencies.
package taskgraph

import (
	"fmt"
	"sort"
)

// Graph maps a task name to the names of the tasks it depends on.
type Graph map[string][]string

// Order returns root and its transitive dependencies with dependencies
// ahead of dependents. Returns an error on cycles or undeclared tasks.
func Order(g Graph, root string) ([]string, error) {
	if _, ok := g[root]; !ok {
		return nil, fmt.Errorf("task %q not found", root)
	}

	var ordered []string
	done := make(map[string]bool)
	active := make(map[string]bool)

	var walk func(name string) error
	walk = func(name string) error {
		if active[name] {
			return fmt.Errorf("circular dependency detected involving task %q", name)
		}
		if done[name] {
			return nil
		}

		deps, ok := g[name]
		if !ok {
			return fmt.Errorf("task %q not found", name)
		}

		active[name] = true
		for _, dep := range deps {
			if err := walk(dep); err != nil {
				return err
			}
		}
		active[name] = false

		done[name] = true
		ordered = append(ordered, name)
		return nil
	}

	if err := walk(root); err != nil {
		return nil, err
	}
	return ordered, nil
}

// Validate checks every declared dependency for self-references, unknown
// tasks, and cycles.
func Validate(g Graph) error {
	for name, deps := range g {
		for _, dep := range deps {
			if dep == name {
				return fmt.Errorf("task %q depends on itself", name)
			}
			if _, ok := g[dep]; !ok {
				return fmt.Errorf("task %q depends on undefined task %q", name, dep)
			}
		}
	}

	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := Order(g, name); err != nil {
			return err
		}
	}
	return nil
}

// Package toolchain maps abstract tool names to installed executables.
// The catalog is consumed by commands through a single resolution hook;
// unmapped names pass through untouched and resolve via PATH at launch.
package toolchain

import (
	"os"
	"path/filepath"
	"sort"
)

// Catalog resolves tool names against explicit configuration mappings first,
// then a configured tools directory.
type Catalog struct {
	tools    map[string]string
	toolsDir string
}

// NewCatalog creates a catalog from configured mappings and an optional
// tools directory.
func NewCatalog(tools map[string]string, toolsDir string) *Catalog {
	c := &Catalog{
		tools:    make(map[string]string, len(tools)),
		toolsDir: toolsDir,
	}
	for name, program := range tools {
		c.tools[name] = program
	}
	return c
}

// Resolve maps a tool name to a concrete executable path.
// Explicit mappings win; otherwise the tools directory is probed.
// A false return means the name should be used as-is.
func (c *Catalog) Resolve(name string) (string, bool) {
	if program, ok := c.tools[name]; ok {
		return program, true
	}
	if c.toolsDir != "" {
		candidate := filepath.Join(c.toolsDir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// Names returns the explicitly mapped tool names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.tools))
	for name := range c.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

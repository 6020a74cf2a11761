// Package project provides project discovery and loading functionality.
package project

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/rkuzmin/foundry/internal/config"
)

// ErrNoProjectRoot is returned when foundry.yaml is not found.
var ErrNoProjectRoot = errors.New("foundry.yaml not found: not a foundry project (or any parent up to the root)")

// Project is a discovered project root together with its parsed configuration.
type Project struct {
	Root   string
	Config *config.Config
}

// FindRoot walks up from the current working directory until it finds foundry.yaml.
func FindRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindRootFrom(cwd)
}

// FindRootFrom walks up from the given directory until it finds foundry.yaml.
func FindRootFrom(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		configPath := filepath.Join(dir, config.FileName)
		if _, err := os.Stat(configPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", ErrNoProjectRoot
		}
		dir = parent
	}
}

// Load discovers the project root from the current working directory and
// loads its validated configuration.
func Load() (*Project, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return LoadFrom(cwd)
}

// LoadFrom discovers the project root from startDir and loads its validated
// configuration.
func LoadFrom(startDir string) (*Project, error) {
	root, err := FindRootFrom(startDir)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadAndValidate(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, err
	}

	return &Project{Root: root, Config: cfg}, nil
}

// CacheDir returns the absolute cache directory for fetched resources.
func (p *Project) CacheDir() string {
	if filepath.IsAbs(p.Config.CacheDir) {
		return p.Config.CacheDir
	}
	return filepath.Join(p.Root, p.Config.CacheDir)
}

// Package config loads and validates the foundry.yaml project configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	foundryerrors "github.com/rkuzmin/foundry/internal/errors"
	"github.com/rkuzmin/foundry/internal/schema"
)

// FileName is the name of the project configuration file.
const FileName = "foundry.yaml"

// Config is the root of foundry.yaml.
type Config struct {
	Project   string                `yaml:"project"`
	CacheDir  string                `yaml:"cache_dir"`
	Offline   bool                  `yaml:"offline"`
	ToolsDir  string                `yaml:"tools_dir"`
	Tools     map[string]string     `yaml:"tools"`
	Resources []string              `yaml:"resources"`
	Tasks     map[string]TaskConfig `yaml:"tasks"`
}

// TaskConfig declares one named batch of steps.
type TaskConfig struct {
	Mode    string       `yaml:"mode"` // sequential (default) or parallel
	Depends []string     `yaml:"depends"`
	Steps   []StepConfig `yaml:"steps"`
}

// StepConfig declares one external-tool invocation inside a task.
type StepConfig struct {
	Tool string   `yaml:"tool"`
	Args []string `yaml:"args"`
	Dir  string   `yaml:"dir"`
}

// Execution modes accepted in task declarations.
const (
	ModeSequential = "sequential"
	ModeParallel   = "parallel"
)

// Load reads and parses a foundry.yaml configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses configuration data without touching the filesystem.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// LoadAndValidate reads a config file, checks it against the embedded schema,
// applies defaults, and runs semantic validation.
func LoadAndValidate(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := schema.ValidateConfig(data); err != nil {
		return nil, foundryerrors.Configf("%v", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/viper"
)

type Config struct {
	Version        string `json:"version" mapstructure:"version"`
	ProjectRoot    string `json:"project_root" mapstructure:"project_root"`
	DefinitionsDir string `json:"definitions_dir" mapstructure:"definitions_dir"`
	OutputDir      string `json:"output_dir" mapstructure:"output_dir"`
	Author         string `json:"author,omitempty" mapstructure:"author"`
	Target         string `json:"target" mapstructure:"target"`
	LogLevel       string `json:"log_level,omitempty" mapstructure:"log_level"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set defaults
	if cfg.Version == "" {
		cfg.Version = "1"
	}
	if cfg.ProjectRoot == "" {
		cfg.ProjectRoot = "."
	}
	if cfg.DefinitionsDir == "" {
		cfg.DefinitionsDir = "definitions"
	}
	if cfg.OutputDir == "" {
		// Exports land where the engine loads plugins from.
		cfg.OutputDir = filepath.Join(cfg.ProjectRoot, "js", "plugins")
	}
	if cfg.Target == "" {
		cfg.Target = "MZ"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	supportedTargets := []string{"MZ", "MV"}
	supported := false
	for _, target := range supportedTargets {
		if c.Target == target {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported target engine: %s. Supported targets: %v", c.Target, supportedTargets)
	}

	if c.DefinitionsDir == "" {
		return fmt.Errorf("definitions_dir cannot be empty")
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}

	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.DefinitionsDir,
		c.OutputDir,
	}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Logger builds the process logger from the configured level. An
// unknown level falls back to warn rather than failing startup.
func (c *Config) Logger() hclog.Logger {
	level := hclog.LevelFromString(c.LogLevel)
	if level == hclog.NoLevel {
		level = hclog.Warn
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:  "mzsmith",
		Level: level,
	})
}

// DefinitionFiles returns all definition files in the definitions
// directory, sorted by name for consistent ordering.
func (c *Config) DefinitionFiles() ([]string, error) {
	entries, err := os.ReadDir(c.DefinitionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read definitions directory %s: %w", c.DefinitionsDir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".yaml") || strings.HasSuffix(entry.Name(), ".yml") {
			files = append(files, filepath.Join(c.DefinitionsDir, entry.Name()))
		}
	}
	sort.Strings(files)

	return files, nil
}

// DefinitionPath returns where the definition for a plugin of the
// given name lives.
func (c *Config) DefinitionPath(name string) string {
	return filepath.Join(c.DefinitionsDir, name+".yaml")
}

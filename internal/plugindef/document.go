package plugindef

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Recognized target engine tags.
const (
	TargetMZ = "MZ"
	TargetMV = "MV"
)

// New returns an empty definition with a fresh identity and engine
// defaults.
func New(name string) *Plugin {
	return &Plugin{
		ID: uuid.NewString(),
		Meta: Meta{
			Name:    name,
			Version: "1.0.0",
			Target:  TargetMZ,
		},
	}
}

// Load reads one definition document from disk.
func Load(path string) (*Plugin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	var p Plugin
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse definition %s: %w", path, err)
	}
	if p.ID == "" {
		// Definitions written by hand may omit the id; mint one so it
		// survives the next save.
		p.ID = uuid.NewString()
	}
	return &p, nil
}

// Save writes the definition document, creating parent directories as
// needed.
func (p *Plugin) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode definition: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create definitions directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write definition: %w", err)
	}
	return nil
}

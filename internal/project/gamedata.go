package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mzsmith/mzsmith/internal/plugindef"
)

// dataFiles maps each database-reference parameter kind to the data
// file holding its entries. Switches and variables live in System.json
// and are handled separately.
var dataFiles = map[plugindef.ParamType]string{
	plugindef.TypeActor:       "Actors.json",
	plugindef.TypeClass:       "Classes.json",
	plugindef.TypeSkill:       "Skills.json",
	plugindef.TypeItem:        "Items.json",
	plugindef.TypeWeapon:      "Weapons.json",
	plugindef.TypeArmor:       "Armors.json",
	plugindef.TypeEnemy:       "Enemies.json",
	plugindef.TypeTroop:       "Troops.json",
	plugindef.TypeState:       "States.json",
	plugindef.TypeAnimation:   "Animations.json",
	plugindef.TypeTileset:     "Tilesets.json",
	plugindef.TypeCommonEvent: "CommonEvents.json",
}

// DataNames returns the display names of the database entries a
// reference parameter of the given kind points at, indexed by id.
// Index 0 is empty because the engine numbers entries from 1.
func (p *Project) DataNames(kind plugindef.ParamType) ([]string, error) {
	switch kind {
	case plugindef.TypeSwitch, plugindef.TypeVariable:
		return p.systemNames(kind)
	}

	file, ok := dataFiles[kind]
	if !ok {
		return nil, fmt.Errorf("parameter type '%s' does not reference the database", kind)
	}
	data, err := os.ReadFile(filepath.Join(p.DataDir(), file))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	// Database arrays hold null at index 0 and objects after it.
	var entries []*struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", file, err)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		if e != nil {
			names[i] = e.Name
		}
	}
	return names, nil
}

func (p *Project) systemNames(kind plugindef.ParamType) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(p.DataDir(), "System.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read System.json: %w", err)
	}
	var system struct {
		Switches  []string `json:"switches"`
		Variables []string `json:"variables"`
	}
	if err := json.Unmarshal(data, &system); err != nil {
		return nil, fmt.Errorf("failed to decode System.json: %w", err)
	}
	if kind == plugindef.TypeSwitch {
		return system.Switches, nil
	}
	return system.Variables, nil
}

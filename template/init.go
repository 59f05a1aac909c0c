package template

import "fmt"

type EngineTarget string

const (
	MZ EngineTarget = "MZ"
	MV EngineTarget = "MV"
)

type ProjectTemplate struct {
	Target EngineTarget
}

type engineConfig struct {
	target   string
	decl     string
	helpNote string
}

var engineConfigs = map[EngineTarget]engineConfig{
	MZ: {
		target:   "MZ",
		decl:     "const",
		helpNote: "Requires RPG Maker MZ.",
	},
	MV: {
		target:   "MV",
		decl:     "var",
		helpNote: "Requires RPG Maker MV 1.6.0 or later.",
	},
}

func NewProjectTemplate(target EngineTarget) *ProjectTemplate {
	return &ProjectTemplate{Target: target}
}

func (pt *ProjectTemplate) GetWorkspaceConfig(author string) string {
	cfg := engineConfigs[pt.Target]
	return fmt.Sprintf(`{
  "project_root": ".",
  "definitions_dir": "definitions",
  "output_dir": "js/plugins",
  "author": "%s",
  "target": "%s",
  "log_level": "warn"
}`, author, cfg.target)
}

// GetSampleDefinition returns a small but complete starter definition:
// two parameters, localized help and a scene hook in the custom code,
// enough to exercise the whole build pipeline on a fresh workspace.
func (pt *ProjectTemplate) GetSampleDefinition(author string) string {
	cfg := engineConfigs[pt.Target]

	return fmt.Sprintf(`meta:
  name: Greeting
  version: 1.0.0
  description: Shows a one-time greeting when the map first loads.
  author: %s
  target: %s
  help: |
    Shows the configured message once, the first time a map scene
    starts. %s

parameters:
  - id: message
    text: Message
    description: The greeting to display.
    type: string
    default: Hello, adventurer!

  - id: showOnLoad
    text: Show on load
    type: boolean
    on: Show
    off: Skip
    default: "true"

code: |
  %s _Scene_Map_start = Scene_Map.prototype.start;
  Scene_Map.prototype.start = function() {
      _Scene_Map_start.call(this);
      if (showOnLoad && !$gameSystem._greeted) {
          $gameSystem._greeted = true;
          $gameMessage.add(message);
      }
  };
`, author, cfg.target, cfg.helpNote, cfg.decl)
}

func (pt *ProjectTemplate) GetEnvTemplate() string {
	return "MZSMITH_PROJECT_ROOT=.\n"
}

func (pt *ProjectTemplate) GetDirectoryStructure() []string {
	return []string{"definitions"}
}

func ValidateTarget(target string) EngineTarget {
	targets := map[string]EngineTarget{
		"mz": MZ,
		"MZ": MZ,
		"mv": MV,
		"MV": MV,
	}

	if et, exists := targets[target]; exists {
		return et
	}
	return MZ
}

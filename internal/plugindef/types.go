package plugindef

// Plugin is the full definition of one engine plugin: metadata, typed
// parameters, commands, reusable structs and the author's code. It is
// the unit the generator compiles and the validator checks.
type Plugin struct {
	ID         string      `yaml:"id" json:"id"`
	Meta       Meta        `yaml:"meta" json:"meta"`
	Parameters []Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Commands   []Command   `yaml:"commands,omitempty" json:"commands,omitempty"`
	Structs    []Struct    `yaml:"structs,omitempty" json:"structs,omitempty"`
	CustomCode string      `yaml:"code,omitempty" json:"code,omitempty"`

	// RawSource holds the original text of an imported plugin. Set once
	// at import time; raw-mode generation keeps its body verbatim.
	RawSource string `yaml:"rawSource,omitempty" json:"rawSource,omitempty"`
}

type Meta struct {
	Name         string               `yaml:"name" json:"name"`
	Version      string               `yaml:"version,omitempty" json:"version,omitempty"`
	Author       string               `yaml:"author,omitempty" json:"author,omitempty"`
	URL          string               `yaml:"url,omitempty" json:"url,omitempty"`
	Desc         string               `yaml:"description,omitempty" json:"description,omitempty"`
	Help         string               `yaml:"help,omitempty" json:"help,omitempty"`
	Locales      map[string]Localized `yaml:"locales,omitempty" json:"locales,omitempty"`
	Dependencies []string             `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	OrderAfter   []string             `yaml:"orderAfter,omitempty" json:"orderAfter,omitempty"`
	OrderBefore  []string             `yaml:"orderBefore,omitempty" json:"orderBefore,omitempty"`
	NoteParams   []NoteParam          `yaml:"noteParams,omitempty" json:"noteParams,omitempty"`
	Target       string               `yaml:"target,omitempty" json:"target,omitempty"`
}

// Localized carries the per-language variants of the description and
// help text, keyed by language tag in Meta.Locales.
type Localized struct {
	Desc string `yaml:"description,omitempty" json:"description,omitempty"`
	Help string `yaml:"help,omitempty" json:"help,omitempty"`
}

// NoteParam declares a custom note tag whose value names a project
// resource, so deployment packaging keeps the referenced files.
type NoteParam struct {
	Name     string `yaml:"name" json:"name"`
	Kind     string `yaml:"kind,omitempty" json:"kind,omitempty"`
	Dir      string `yaml:"dir,omitempty" json:"dir,omitempty"`
	Data     string `yaml:"data,omitempty" json:"data,omitempty"`
	Required bool   `yaml:"required,omitempty" json:"required,omitempty"`
}

// Parameter describes one typed input. ID is the annotation key the
// engine hands back at runtime; it must be unique within its scope
// (plugin, command or struct). Only the optional fields legal for the
// declared type may be populated.
type Parameter struct {
	ID       string   `yaml:"id" json:"id"`
	Text     string   `yaml:"text,omitempty" json:"text,omitempty"`
	Desc     string   `yaml:"description,omitempty" json:"description,omitempty"`
	Type     TypeSpec `yaml:"type" json:"type"`
	Default  string   `yaml:"default,omitempty" json:"default,omitempty"`
	Min      *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max      *float64 `yaml:"max,omitempty" json:"max,omitempty"`
	Decimals *int     `yaml:"decimals,omitempty" json:"decimals,omitempty"`
	Options  []Option `yaml:"options,omitempty" json:"options,omitempty"`
	Dir      string   `yaml:"dir,omitempty" json:"dir,omitempty"`
	Parent   string   `yaml:"parent,omitempty" json:"parent,omitempty"`
	On       string   `yaml:"on,omitempty" json:"on,omitempty"`
	Off      string   `yaml:"off,omitempty" json:"off,omitempty"`
}

type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
}

// Command is an editor-invocable plugin command; its arguments follow
// the same shape and uniqueness rules as parameters.
type Command struct {
	ID   string      `yaml:"id" json:"id"`
	Text string      `yaml:"text,omitempty" json:"text,omitempty"`
	Desc string      `yaml:"description,omitempty" json:"description,omitempty"`
	Args []Parameter `yaml:"args,omitempty" json:"args,omitempty"`
}

// Struct is a named, reusable group of fields. Struct-typed parameters
// reference it by Name, not ID.
type Struct struct {
	ID     string      `yaml:"id" json:"id"`
	Name   string      `yaml:"name" json:"name"`
	Params []Parameter `yaml:"params,omitempty" json:"params,omitempty"`
}

// StructByName resolves a struct reference, nil when undefined.
func (p *Plugin) StructByName(name string) *Struct {
	for i := range p.Structs {
		if p.Structs[i].Name == name {
			return &p.Structs[i]
		}
	}
	return nil
}

// AttachRawSource records the original text of an imported plugin.
// The original is kept for raw-mode regeneration and never replaced
// once present; returns false when a raw source was already attached.
func (p *Plugin) AttachRawSource(src string) bool {
	if p.RawSource != "" {
		return false
	}
	p.RawSource = src
	return true
}

// Package validate inspects plugin definitions for structural problems.
// Errors block export; warnings are advisory and never affect validity.
package validate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/mzsmith/mzsmith/internal/plugindef"
)

// Result is the outcome of one check. Valid is false exactly when
// Errors is non-empty.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Check validates a definition. knownPlugins is the set of plugin names
// currently present in the project, used opportunistically to warn about
// dependencies that resolve nowhere; pass nil to skip that check.
func Check(p *plugindef.Plugin, knownPlugins []string) Result {
	c := &checker{plugin: p}

	c.checkMeta(knownPlugins)
	c.checkParameters("", p.Parameters)
	c.checkCommands()
	c.checkStructs()
	c.checkStructCycles()

	return Result{
		Valid:    len(c.errors) == 0,
		Errors:   c.errors,
		Warnings: c.warnings,
	}
}

type checker struct {
	plugin   *plugindef.Plugin
	errors   []string
	warnings []string
}

func (c *checker) errorf(format string, args ...interface{}) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

func (c *checker) warnf(format string, args ...interface{}) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

func (c *checker) checkMeta(knownPlugins []string) {
	meta := c.plugin.Meta
	if strings.TrimSpace(meta.Name) == "" {
		c.errorf("plugin name must not be empty")
	}
	if meta.Desc == "" {
		c.warnf("plugin has no description")
	}
	if meta.Help == "" {
		c.warnf("plugin has no help text")
	}
	if meta.Target == plugindef.TargetMV && len(c.plugin.Commands) > 0 {
		c.warnf("plugin commands are ignored on MV, the command dispatcher exists only on MZ")
	}

	tags := make([]string, 0, len(meta.Locales))
	for tag := range meta.Locales {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		if _, err := language.Parse(tag); err != nil {
			c.warnf("locale '%s' is not a recognizable language tag", tag)
		}
	}

	if knownPlugins != nil {
		known := make(map[string]bool, len(knownPlugins))
		for _, name := range knownPlugins {
			known[name] = true
		}
		for _, dep := range meta.Dependencies {
			if !known[dep] {
				c.warnf("dependency '%s' is not present in the project", dep)
			}
		}
	}
}

// checkParameters validates one parameter scope. scope is empty for the
// plugin's own parameter list and a description like "command 'x'" for
// nested scopes.
func (c *checker) checkParameters(scope string, params []plugindef.Parameter) {
	seen := make(map[string]bool, len(params))
	for _, prm := range params {
		label := describe(scope, prm.ID)
		if prm.ID == "" {
			c.errorf("%s has an empty id", label)
		} else if seen[prm.ID] {
			c.errorf("duplicate id '%s'%s", prm.ID, inScope(scope))
		}
		seen[prm.ID] = true
		c.checkParam(label, prm)
	}
}

func (c *checker) checkParam(label string, prm plugindef.Parameter) {
	c.checkTypeSpec(label, prm.Type)

	info, _ := prm.Type.BaseKind().Info()

	if !info.Numeric {
		if prm.Min != nil || prm.Max != nil || prm.Decimals != nil {
			c.errorf("%s: min/max/decimals are not valid for type '%s'", label, prm.Type)
		}
	} else {
		if prm.Min != nil && prm.Max != nil && *prm.Min > *prm.Max {
			c.errorf("%s: min %s is greater than max %s", label, formatNumber(*prm.Min), formatNumber(*prm.Max))
		}
		if prm.Decimals != nil && *prm.Decimals < 0 {
			c.errorf("%s: decimals must not be negative", label)
		}
		if def, err := strconv.ParseFloat(prm.Default, 64); err == nil {
			if prm.Min != nil && def < *prm.Min {
				c.errorf("%s: default %s is below min %s", label, prm.Default, formatNumber(*prm.Min))
			}
			if prm.Max != nil && def > *prm.Max {
				c.errorf("%s: default %s is above max %s", label, prm.Default, formatNumber(*prm.Max))
			}
		}
	}

	if !info.Options && len(prm.Options) > 0 {
		c.errorf("%s: options are not valid for type '%s'", label, prm.Type)
	}
	if info.Options {
		for i, o := range prm.Options {
			if o.Value == "" {
				c.errorf("%s: option %d has an empty value", label, i+1)
			}
		}
	}
	if !info.Dir && prm.Dir != "" {
		c.errorf("%s: a directory hint is not valid for type '%s'", label, prm.Type)
	}
	if !info.OnOff && (prm.On != "" || prm.Off != "") {
		c.errorf("%s: on/off captions are not valid for type '%s'", label, prm.Type)
	}
}

func (c *checker) checkTypeSpec(label string, spec plugindef.TypeSpec) {
	switch spec.Kind {
	case plugindef.TypeArray:
		if spec.Elem == nil {
			c.errorf("%s: array type is missing an element type", label)
			return
		}
		c.checkTypeSpec(label, *spec.Elem)
	case plugindef.TypeStruct:
		if spec.Struct == "" {
			c.errorf("%s: struct type is missing a struct name", label)
			return
		}
		if c.plugin.StructByName(spec.Struct) == nil {
			c.errorf("%s: references undefined struct '%s'", label, spec.Struct)
		}
	default:
		if _, ok := spec.Kind.Info(); !ok {
			c.errorf("%s: unrecognized type '%s'", label, spec.Kind)
		}
	}
}

func (c *checker) checkCommands() {
	seen := make(map[string]bool, len(c.plugin.Commands))
	for _, cmd := range c.plugin.Commands {
		if cmd.ID == "" {
			c.errorf("command has an empty id")
		} else if seen[cmd.ID] {
			c.errorf("duplicate command id '%s'", cmd.ID)
		}
		seen[cmd.ID] = true
		c.checkParameters(fmt.Sprintf("command '%s'", cmd.ID), cmd.Args)
	}
}

func (c *checker) checkStructs() {
	seen := make(map[string]bool, len(c.plugin.Structs))
	for _, s := range c.plugin.Structs {
		if s.Name == "" {
			c.errorf("struct has an empty name")
		} else if seen[s.Name] {
			c.errorf("duplicate struct name '%s'", s.Name)
		}
		seen[s.Name] = true
		c.checkParameters(fmt.Sprintf("struct '%s'", s.Name), s.Params)
	}
}

// checkStructCycles rejects struct definitions that reference themselves
// directly or transitively, which would make generation and runtime
// parsing non-terminating.
func (c *checker) checkStructCycles() {
	const (
		unseen = iota
		visiting
		done
	)
	state := make(map[string]int, len(c.plugin.Structs))
	var path []string

	var visit func(name string)
	visit = func(name string) {
		switch state[name] {
		case visiting:
			i := 0
			for ; i < len(path); i++ {
				if path[i] == name {
					break
				}
			}
			cycle := append(append([]string{}, path[i:]...), name)
			c.errorf("struct reference cycle: %s", strings.Join(cycle, " -> "))
			return
		case done:
			return
		}
		s := c.plugin.StructByName(name)
		if s == nil {
			// Dangling references are reported per parameter.
			return
		}
		state[name] = visiting
		path = append(path, name)
		for _, f := range s.Params {
			if ref := structRef(f.Type); ref != "" {
				visit(ref)
			}
		}
		path = path[:len(path)-1]
		state[name] = done
	}

	for _, s := range c.plugin.Structs {
		visit(s.Name)
	}
}

func structRef(spec plugindef.TypeSpec) string {
	cur := spec
	for cur.Kind == plugindef.TypeArray && cur.Elem != nil {
		cur = *cur.Elem
	}
	if cur.Kind == plugindef.TypeStruct {
		return cur.Struct
	}
	return ""
}

func describe(scope, id string) string {
	if id == "" {
		id = "?"
	}
	if scope == "" {
		return fmt.Sprintf("parameter '%s'", id)
	}
	return fmt.Sprintf("%s: parameter '%s'", scope, id)
}

func inScope(scope string) string {
	if scope == "" {
		return ""
	}
	return " in " + scope
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

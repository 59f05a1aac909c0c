// Package importer lifts an existing annotated plugin file back into a
// definition. Parsing is deliberately lenient: hand-written plugins are
// full of small irregularities, and a tag the importer cannot make
// sense of should cost that tag its detail, not the whole import. The
// validator judges the result afterwards.
package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mzsmith/mzsmith/internal/annotation"
	"github.com/mzsmith/mzsmith/internal/plugindef"
)

// Parse reads annotated plugin source into a definition. The name is
// the plugin's file base name. The source is attached to the returned
// definition so later exports can preserve the hand-written body. The
// only unrecoverable input is source without a default annotation
// block, since nothing identifies it as a plugin.
func Parse(name, source string) (*plugindef.Plugin, error) {
	blocks := annotation.Blocks(source)
	main := annotation.Find(blocks, "", "")
	if main == nil {
		return nil, fmt.Errorf("no plugin annotation block found in %s", name)
	}

	p := &plugindef.Plugin{
		ID: uuid.NewString(),
		Meta: plugindef.Meta{
			Name:    name,
			Version: "1.0.0",
			Target:  plugindef.TargetMZ,
		},
	}

	m := newTagMachine()
	for _, tag := range main.Tags {
		if m.feed(tag.Name, tag.Value) {
			continue
		}
		switch tag.Name {
		case "target":
			if v := firstLine(tag.Value); v != "" {
				p.Meta.Target = v
			}
		case "plugindesc":
			p.Meta.Desc = tag.Value
		case "version":
			if v := firstLine(tag.Value); v != "" {
				p.Meta.Version = v
			}
		case "author":
			p.Meta.Author = firstLine(tag.Value)
		case "url":
			p.Meta.URL = firstLine(tag.Value)
		case "help":
			p.Meta.Help = tag.Value
		case "base":
			if v := firstLine(tag.Value); v != "" {
				p.Meta.Dependencies = append(p.Meta.Dependencies, v)
			}
		case "orderAfter":
			if v := firstLine(tag.Value); v != "" {
				p.Meta.OrderAfter = append(p.Meta.OrderAfter, v)
			}
		case "orderBefore":
			if v := firstLine(tag.Value); v != "" {
				p.Meta.OrderBefore = append(p.Meta.OrderBefore, v)
			}
		}
	}
	m.finish()
	p.Parameters = m.params
	p.Commands = m.commands
	p.Meta.NoteParams = m.notes

	for _, blk := range blocks {
		if blk.Struct != "" || blk.Locale == "" {
			continue
		}
		var loc plugindef.Localized
		for _, tag := range blk.Tags {
			switch tag.Name {
			case "plugindesc":
				loc.Desc = tag.Value
			case "help":
				loc.Help = tag.Value
			}
		}
		if loc.Desc == "" && loc.Help == "" {
			continue
		}
		if p.Meta.Locales == nil {
			p.Meta.Locales = make(map[string]plugindef.Localized)
		}
		p.Meta.Locales[blk.Locale] = loc
	}

	for _, blk := range blocks {
		if blk.Struct == "" {
			continue
		}
		sm := newTagMachine()
		for _, tag := range blk.Tags {
			sm.feed(tag.Name, tag.Value)
		}
		sm.finish()
		p.Structs = append(p.Structs, plugindef.Struct{
			ID:     uuid.NewString(),
			Name:   blk.Struct,
			Params: sm.params,
		})
	}

	p.AttachRawSource(source)
	return p, nil
}

// tagMachine folds the linear tag stream of a block into parameters,
// commands and note params. A @param, @arg, @command or @noteParam tag
// opens an entry; the detail tags that follow attach to it until the
// next opener.
type tagMachine struct {
	params   []plugindef.Parameter
	commands []plugindef.Command
	notes    []plugindef.NoteParam

	pending      *plugindef.Parameter
	pendingIsArg bool
	curCmd       int
	pendingNote  *plugindef.NoteParam
}

func newTagMachine() *tagMachine {
	return &tagMachine{curCmd: -1}
}

func (m *tagMachine) feed(name, value string) bool {
	switch name {
	case "param":
		m.flushParam()
		m.pending = newParameter(firstLine(value))
		m.pendingIsArg = false
	case "arg":
		m.flushParam()
		m.pending = newParameter(firstLine(value))
		m.pendingIsArg = true
	case "command":
		m.flushParam()
		m.commands = append(m.commands, plugindef.Command{ID: firstLine(value)})
		m.curCmd = len(m.commands) - 1
	case "noteParam":
		m.flushParam()
		m.flushNote()
		m.pendingNote = &plugindef.NoteParam{Name: firstLine(value)}
	case "noteRequire":
		if m.pendingNote != nil && firstLine(value) == "1" {
			m.pendingNote.Required = true
		}
	case "noteDir":
		if m.pendingNote != nil {
			m.pendingNote.Dir = firstLine(value)
		}
	case "noteType":
		if m.pendingNote != nil {
			m.pendingNote.Kind = firstLine(value)
		}
	case "noteData":
		if m.pendingNote != nil {
			m.pendingNote.Data = firstLine(value)
		}
	case "text":
		if m.pending != nil {
			m.pending.Text = value
		} else if m.curCmd >= 0 {
			m.commands[m.curCmd].Text = value
		}
	case "desc":
		if m.pending != nil {
			m.pending.Desc = value
		} else if m.curCmd >= 0 {
			m.commands[m.curCmd].Desc = value
		}
	case "type":
		if m.pending != nil {
			spec, err := plugindef.ParseTypeSpec(firstLine(value))
			if err != nil {
				// Unknown editors invent types; degrade to a plain
				// string parameter rather than refusing the plugin.
				spec = plugindef.TypeSpec{Kind: plugindef.TypeString}
			}
			m.pending.Type = spec
		}
	case "parent":
		if m.pending != nil {
			m.pending.Parent = firstLine(value)
		}
	case "on":
		if m.pending != nil {
			m.pending.On = value
		}
	case "off":
		if m.pending != nil {
			m.pending.Off = value
		}
	case "min":
		if m.pending != nil {
			if v, err := strconv.ParseFloat(firstLine(value), 64); err == nil {
				m.pending.Min = &v
			}
		}
	case "max":
		if m.pending != nil {
			if v, err := strconv.ParseFloat(firstLine(value), 64); err == nil {
				m.pending.Max = &v
			}
		}
	case "decimals":
		if m.pending != nil {
			if v, err := strconv.Atoi(firstLine(value)); err == nil {
				m.pending.Decimals = &v
			}
		}
	case "dir":
		if m.pending != nil {
			m.pending.Dir = firstLine(value)
		}
	case "default":
		if m.pending != nil {
			m.pending.Default = value
		}
	case "option":
		if m.pending != nil {
			m.pending.Options = append(m.pending.Options, plugindef.Option{Label: value})
		}
	case "value":
		if m.pending != nil && len(m.pending.Options) > 0 {
			m.pending.Options[len(m.pending.Options)-1].Value = firstLine(value)
		}
	default:
		return false
	}
	return true
}

func (m *tagMachine) finish() {
	m.flushParam()
	m.flushNote()
}

func (m *tagMachine) flushParam() {
	if m.pending == nil {
		return
	}
	prm := *m.pending
	for i := range prm.Options {
		if prm.Options[i].Value == "" {
			prm.Options[i].Value = prm.Options[i].Label
		}
		if prm.Options[i].Label == prm.Options[i].Value {
			prm.Options[i].Label = ""
		}
	}
	if m.pendingIsArg && m.curCmd >= 0 {
		cmd := &m.commands[m.curCmd]
		cmd.Args = append(cmd.Args, prm)
	} else {
		m.params = append(m.params, prm)
	}
	m.pending = nil
}

func (m *tagMachine) flushNote() {
	if m.pendingNote == nil {
		return
	}
	m.notes = append(m.notes, *m.pendingNote)
	m.pendingNote = nil
}

func newParameter(id string) *plugindef.Parameter {
	return &plugindef.Parameter{
		ID:   id,
		Type: plugindef.TypeSpec{Kind: plugindef.TypeString},
	}
}

func firstLine(value string) string {
	if i := strings.IndexByte(value, '\n'); i >= 0 {
		value = value[:i]
	}
	return strings.TrimSpace(value)
}

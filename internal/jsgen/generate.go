// Package jsgen compiles plugin definitions into the annotated plugin
// source files the engine's plugin loader consumes.
package jsgen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mzsmith/mzsmith/internal/annotation"
	"github.com/mzsmith/mzsmith/internal/gencommon"
	"github.com/mzsmith/mzsmith/internal/plugindef"
)

// Generate renders a definition into full plugin source: annotation
// header, parameter/command boilerplate, then the author's code inside
// the same isolating scope. Identical definitions yield byte-identical
// output. Generate never panics; an internal failure degrades to a
// single diagnostic comment so a preview always has something to show.
func Generate(p *plugindef.Plugin) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("/* generation failed: %v */\n", r)
		}
	}()

	b := gencommon.GetBuilder()
	defer gencommon.PutBuilder(b)

	writeHeader(b, p)
	writeBody(b, p)
	return b.String()
}

// GenerateRaw regenerates only the annotation header of an imported
// plugin and splices the original source around it byte-for-byte, so a
// metadata edit never reformats hand-written code. preserved reports
// whether the original body was located; when it cannot be (no header,
// or annotation blocks interleaved with code), the result falls back
// to full generation instead of producing corrupted output.
func GenerateRaw(p *plugindef.Plugin) (out string, preserved bool) {
	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("/* generation failed: %v */\n", r)
			preserved = false
		}
	}()

	if p.RawSource == "" {
		return Generate(p), false
	}
	start, end, ok := annotation.HeaderRegion(p.RawSource)
	if !ok {
		return Generate(p), false
	}

	b := gencommon.GetBuilder()
	defer gencommon.PutBuilder(b)

	b.WriteString(p.RawSource[:start])
	writeHeader(b, p)
	b.WriteString(p.RawSource[end:])
	return b.String(), true
}

func writeHeader(b *strings.Builder, p *plugindef.Plugin) {
	w := annotation.NewWriter(b)

	w.Begin("")
	if p.Meta.Target != "" {
		w.Tag("target", p.Meta.Target)
	}
	if p.Meta.Desc != "" {
		w.Tag("plugindesc", p.Meta.Desc)
	}
	if p.Meta.Version != "" {
		w.Tag("version", p.Meta.Version)
	}
	if p.Meta.Author != "" {
		w.Tag("author", p.Meta.Author)
	}
	if p.Meta.URL != "" {
		w.Tag("url", p.Meta.URL)
	}
	if p.Meta.Help != "" {
		w.Blank()
		w.Tag("help", p.Meta.Help)
	}
	for _, dep := range p.Meta.Dependencies {
		w.Tag("base", dep)
	}
	for _, name := range p.Meta.OrderAfter {
		w.Tag("orderAfter", name)
	}
	for _, name := range p.Meta.OrderBefore {
		w.Tag("orderBefore", name)
	}
	for _, np := range p.Meta.NoteParams {
		w.Blank()
		writeNoteParam(w, np)
	}
	for _, prm := range p.Parameters {
		w.Blank()
		writeParamTags(w, "param", prm, p)
	}
	for _, cmd := range p.Commands {
		w.Blank()
		writeCommand(w, cmd, p)
	}
	w.End()

	for _, tag := range localeTags(p.Meta.Locales) {
		loc := p.Meta.Locales[tag]
		b.WriteString("\n\n")
		w.Begin(tag)
		if loc.Desc != "" {
			w.Tag("plugindesc", loc.Desc)
		}
		if loc.Help != "" {
			w.Tag("help", loc.Help)
		}
		w.End()
	}

	for _, s := range p.Structs {
		b.WriteString("\n\n")
		w.BeginStruct(s.Name)
		for i, f := range s.Params {
			if i > 0 {
				w.Blank()
			}
			writeParamTags(w, "param", f, p)
		}
		w.End()
	}
}

func writeParamTags(w *annotation.Writer, tag string, prm plugindef.Parameter, p *plugindef.Plugin) {
	w.Tag(tag, prm.ID)
	if prm.Text != "" {
		w.Tag("text", prm.Text)
	}
	if prm.Desc != "" {
		w.Tag("desc", prm.Desc)
	}
	writeTypeTag(w, prm.Type, p)
	if prm.Parent != "" {
		w.Tag("parent", prm.Parent)
	}
	if info, ok := prm.Type.BaseKind().Info(); ok {
		if info.OnOff {
			if prm.On != "" {
				w.Tag("on", prm.On)
			}
			if prm.Off != "" {
				w.Tag("off", prm.Off)
			}
		}
		if info.Numeric {
			if prm.Min != nil {
				w.Tag("min", formatNumber(*prm.Min))
			}
			if prm.Max != nil {
				w.Tag("max", formatNumber(*prm.Max))
			}
			if prm.Decimals != nil {
				w.Tag("decimals", strconv.Itoa(*prm.Decimals))
			}
		}
		if info.Options {
			for _, o := range prm.Options {
				label := o.Label
				if label == "" {
					label = o.Value
				}
				w.Tag("option", label)
				w.Tag("value", o.Value)
			}
		}
		if info.Dir && prm.Dir != "" {
			w.Tag("dir", prm.Dir)
		}
	}
	if prm.Default != "" {
		w.Tag("default", prm.Default)
	}
}

// writeTypeTag emits the @type line. A struct reference that resolves
// nowhere degrades to an untyped declaration so generation survives;
// the validator reports the dangling name.
func writeTypeTag(w *annotation.Writer, spec plugindef.TypeSpec, p *plugindef.Plugin) {
	if spec.Kind == "" {
		return
	}
	if base := spec.BaseKind(); base == plugindef.TypeStruct {
		if name := structName(spec); p.StructByName(name) == nil {
			return
		}
	}
	w.Tag("type", spec.String())
}

func structName(spec plugindef.TypeSpec) string {
	cur := spec
	for cur.Kind == plugindef.TypeArray && cur.Elem != nil {
		cur = *cur.Elem
	}
	return cur.Struct
}

func writeCommand(w *annotation.Writer, cmd plugindef.Command, p *plugindef.Plugin) {
	w.Tag("command", cmd.ID)
	if cmd.Text != "" {
		w.Tag("text", cmd.Text)
	}
	if cmd.Desc != "" {
		w.Tag("desc", cmd.Desc)
	}
	for _, arg := range cmd.Args {
		w.Blank()
		writeParamTags(w, "arg", arg, p)
	}
}

func writeNoteParam(w *annotation.Writer, np plugindef.NoteParam) {
	w.Tag("noteParam", np.Name)
	if np.Required {
		w.Tag("noteRequire", "1")
	}
	if np.Dir != "" {
		w.Tag("noteDir", np.Dir)
	}
	if np.Kind != "" {
		w.Tag("noteType", np.Kind)
	}
	if np.Data != "" {
		w.Tag("noteData", np.Data)
	}
}

func localeTags(locales map[string]plugindef.Localized) []string {
	tags := make([]string, 0, len(locales))
	for tag := range locales {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

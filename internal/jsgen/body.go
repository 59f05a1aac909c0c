package jsgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mzsmith/mzsmith/internal/plugindef"
)

// writeBody emits the executable region: an isolating scope that parses
// the plugin's registered parameters into typed values, registers each
// command with the dispatcher, then carries the author's code verbatim.
// Identifiers declared here or in the author's code stay out of global
// scope. MV targets get ES5 syntax, everything else the modern form.
func writeBody(b *strings.Builder, p *plugindef.Plugin) {
	es5 := p.Meta.Target == plugindef.TargetMV

	if es5 {
		b.WriteString("\n\n(function() {\n")
	} else {
		b.WriteString("\n\n(() => {\n")
	}
	b.WriteString("    'use strict';\n\n")

	decl := "const"
	if es5 {
		decl = "var"
	}
	fmt.Fprintf(b, "    %s pluginName = %s;\n", decl, jsString(p.Meta.Name))

	if len(p.Parameters) > 0 {
		fmt.Fprintf(b, "    %s parameters = PluginManager.parameters(pluginName);\n", decl)
		for _, prm := range p.Parameters {
			fmt.Fprintf(b, "    %s %s = %s;\n", decl, jsIdent(prm.ID), parseExpr("parameters", prm))
		}
	}

	for _, cmd := range p.Commands {
		b.WriteString("\n")
		if es5 {
			fmt.Fprintf(b, "    PluginManager.registerCommand(pluginName, %s, function(args) {\n", jsString(cmd.ID))
		} else {
			fmt.Fprintf(b, "    PluginManager.registerCommand(pluginName, %s, args => {\n", jsString(cmd.ID))
		}
		for _, arg := range cmd.Args {
			fmt.Fprintf(b, "        %s %s = %s;\n", decl, jsIdent(arg.ID), parseExpr("args", arg))
		}
		b.WriteString("    });\n")
	}

	if code := strings.TrimRight(p.CustomCode, "\n"); strings.TrimSpace(code) != "" {
		b.WriteString("\n")
		b.WriteString(code)
		b.WriteString("\n")
	}
	b.WriteString("})();\n")
}

// parseExpr builds the runtime conversion of one raw value, per the
// kind's parse strategy. src is the object the engine hands the raw
// strings in ("parameters" or "args").
func parseExpr(src string, prm plugindef.Parameter) string {
	raw := src + "[" + jsString(prm.ID) + "]"

	switch prm.Type.Strategy() {
	case plugindef.ParseNumber:
		def := "0"
		if _, err := strconv.ParseFloat(prm.Default, 64); err == nil {
			def = prm.Default
		}
		return fmt.Sprintf("Number(%s || %s)", raw, def)
	case plugindef.ParseBool:
		if prm.Default == "true" {
			return fmt.Sprintf("(%s || 'true') === 'true'", raw)
		}
		return fmt.Sprintf("%s === 'true'", raw)
	case plugindef.ParseJSON:
		def := prm.Default
		if def == "" {
			if prm.Type.Kind == plugindef.TypeArray {
				def = "[]"
			} else {
				def = "{}"
			}
		}
		return fmt.Sprintf("JSON.parse(%s || %s)", raw, jsString(def))
	default:
		return fmt.Sprintf("String(%s || %s)", raw, jsString(prm.Default))
	}
}

func jsString(s string) string {
	return strconv.Quote(s)
}

// jsIdent derives a safe binding name from an annotation key. Keys are
// normally identifiers already; anything else is folded to one so the
// emitted declarations stay parseable.
func jsIdent(id string) string {
	var b strings.Builder
	for i, r := range id {
		switch {
		case r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := b.String()
	if s == "" {
		s = "_"
	}
	if jsReserved[s] {
		s += "_"
	}
	return s
}

// Reserved words plus the bindings the boilerplate itself declares.
var jsReserved = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true,
	"const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "else": true, "export": true,
	"extends": true, "finally": true, "for": true, "function": true,
	"if": true, "import": true, "in": true, "instanceof": true,
	"let": true, "new": true, "return": true, "static": true,
	"super": true, "switch": true, "this": true, "throw": true,
	"try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true, "yield": true,
	"arguments": true, "eval": true,
	"args": true, "parameters": true, "pluginName": true,
}

// Package depgraph audits the load order of a plugin set. Each
// plugin's annotation header declares hard requirements (@base) and
// soft ordering hints (@orderAfter, @orderBefore); the analyzer builds
// the implied graph and reports missing dependencies, order violations
// and cycles without modifying anything.
package depgraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mzsmith/mzsmith/internal/annotation"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type Health string

const (
	HealthOK       Health = "ok"
	HealthWarnings Health = "warnings"
	HealthErrors   Health = "errors"
)

// PluginHeader is the dependency-relevant slice of one plugin's
// annotation header. Plugins that could not be read or carry no
// annotation block travel with Err set; the analyzer reports them and
// keeps going.
type PluginHeader struct {
	Name        string
	Base        []string
	OrderAfter  []string
	OrderBefore []string
	Err         error
}

// Issue is one finding. Plugins names the plugins involved, the
// depending plugin first.
type Issue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Plugins  []string `json:"plugins,omitempty"`
}

// Report is the outcome of one analysis. PluginNames lists the plugins
// that were inspected successfully, in load order. Health is the worst
// severity found across all issues.
type Report struct {
	Issues      []Issue  `json:"issues"`
	PluginNames []string `json:"plugins"`
	Health      Health   `json:"health"`
}

// ParseHeader extracts the dependency tags from a plugin source. The
// name is the plugin's file base name, which is what the tags of other
// plugins refer to.
func ParseHeader(name, source string) PluginHeader {
	h := PluginHeader{Name: name}
	block := annotation.Find(annotation.Blocks(source), "", "")
	if block == nil {
		h.Err = fmt.Errorf("no plugin annotation block found")
		return h
	}
	for _, tag := range block.Tags {
		value := firstLine(tag.Value)
		if value == "" {
			continue
		}
		switch tag.Name {
		case "base":
			h.Base = append(h.Base, value)
		case "orderAfter":
			h.OrderAfter = append(h.OrderAfter, value)
		case "orderBefore":
			h.OrderBefore = append(h.OrderBefore, value)
		}
	}
	return h
}

// Analyze checks the given headers, in load order, against the
// dependency graph their tags declare. A missing @base target is an
// error; a violated ordering is a warning; a cycle among the declared
// edges is an error. Ordering hints that point at plugins not in the
// project are ignored, since the engine ignores them too.
func Analyze(headers []PluginHeader) Report {
	report := Report{Health: HealthOK}

	pos := make(map[string]int)
	var loaded []PluginHeader
	for _, h := range headers {
		if h.Err != nil {
			report.Issues = append(report.Issues, Issue{
				Severity: SeverityError,
				Message:  fmt.Sprintf("failed to inspect plugin '%s': %v", h.Name, h.Err),
				Plugins:  []string{h.Name},
			})
			continue
		}
		pos[h.Name] = len(loaded)
		loaded = append(loaded, h)
		report.PluginNames = append(report.PluginNames, h.Name)
	}

	// edges[A][B] means A must load before B.
	edges := make(map[string]map[string]bool)
	addEdge := func(from, to string) {
		if edges[from] == nil {
			edges[from] = make(map[string]bool)
		}
		edges[from][to] = true
	}

	for _, h := range loaded {
		for _, dep := range dedupe(h.Base) {
			depPos, ok := pos[dep]
			if !ok {
				report.Issues = append(report.Issues, Issue{
					Severity: SeverityError,
					Message:  fmt.Sprintf("plugin '%s' requires '%s', which is not in the project", h.Name, dep),
					Plugins:  []string{h.Name, dep},
				})
				continue
			}
			if depPos > pos[h.Name] {
				report.Issues = append(report.Issues, Issue{
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("plugin '%s' must load after '%s' but currently loads first", h.Name, dep),
					Plugins:  []string{h.Name, dep},
				})
			}
			addEdge(dep, h.Name)
		}
		for _, dep := range dedupe(h.OrderAfter) {
			depPos, ok := pos[dep]
			if !ok {
				continue
			}
			if depPos > pos[h.Name] {
				report.Issues = append(report.Issues, Issue{
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("plugin '%s' should load after '%s' but currently loads first", h.Name, dep),
					Plugins:  []string{h.Name, dep},
				})
			}
			addEdge(dep, h.Name)
		}
		for _, dep := range dedupe(h.OrderBefore) {
			depPos, ok := pos[dep]
			if !ok {
				continue
			}
			if depPos < pos[h.Name] {
				report.Issues = append(report.Issues, Issue{
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("plugin '%s' should load before '%s' but currently loads after it", h.Name, dep),
					Plugins:  []string{h.Name, dep},
				})
			}
			addEdge(h.Name, dep)
		}
	}

	// Topological sort using Kahn's algorithm over the declared edges.
	// The declared order can be satisfiable even when the current order
	// violates it; only an unsatisfiable graph is an error.
	inDegree := make(map[string]int)
	for _, h := range loaded {
		inDegree[h.Name] = 0
	}
	for _, tos := range edges {
		for to := range tos {
			inDegree[to]++
		}
	}

	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	drained := 0
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		drained++

		for to := range edges[name] {
			inDegree[to]--
			if inDegree[to] == 0 {
				// Insert in sorted position to keep the drain order
				// deterministic.
				insertPos := 0
				for insertPos < len(queue) && queue[insertPos] < to {
					insertPos++
				}
				queue = append(queue[:insertPos], append([]string{to}, queue[insertPos:]...)...)
			}
		}
	}

	if drained != len(loaded) {
		var circular []string
		for name, degree := range inDegree {
			if degree > 0 {
				circular = append(circular, name)
			}
		}
		sort.Strings(circular)
		report.Issues = append(report.Issues, Issue{
			Severity: SeverityError,
			Message:  fmt.Sprintf("circular load-order dependency detected among plugins: %v", circular),
			Plugins:  circular,
		})
	}

	for _, issue := range report.Issues {
		switch issue.Severity {
		case SeverityError:
			report.Health = HealthErrors
		case SeverityWarning:
			if report.Health != HealthErrors {
				report.Health = HealthWarnings
			}
		}
	}
	return report
}

func firstLine(value string) string {
	if i := strings.IndexByte(value, '\n'); i >= 0 {
		value = value[:i]
	}
	return strings.TrimSpace(value)
}

func dedupe(names []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

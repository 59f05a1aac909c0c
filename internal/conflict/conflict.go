// Package conflict scans the raw source of every plugin in a project
// for method-override collisions: two or more plugins reassigning the
// same class or prototype method. The scan is a text heuristic, not an
// interpreter; dynamically computed method names and indirect
// assignments are invisible to it, so its findings are advisory.
package conflict

import (
	"fmt"
	"regexp"
	"sort"
	"sync"
)

// Source is one plugin file handed to the detector, in project load
// order. A read failure travels in Err; the file is then skipped and
// reported instead of aborting the scan.
type Source struct {
	Name string
	Text string
	Err  error
}

type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Conflict is one method identifier touched by two or more plugins.
// Plugins lists the touching plugin names in load order.
type Conflict struct {
	Method   string   `json:"method"`
	Severity Severity `json:"severity"`
	Plugins  []string `json:"plugins"`
}

// Report is the outcome of one project scan. TotalOverrides counts
// every method touch in every plugin, conflicting or not. Skipped names
// the files that could not be scanned.
type Report struct {
	Conflicts      []Conflict `json:"conflicts"`
	TotalOverrides int        `json:"totalOverrides"`
	Skipped        []string   `json:"skipped,omitempty"`
}

var (
	protoAssignRe   *regexp.Regexp
	protoCaptureRe  *regexp.Regexp
	staticAssignRe  *regexp.Regexp
	staticCaptureRe *regexp.Regexp
	scanOnce        sync.Once
)

func initScanRegex() {
	// Direct reassignment: Scene_Map.prototype.update = ...
	protoAssignRe = regexp.MustCompile(`(?m)^[ \t]*([A-Za-z_$][\w$]*)\.prototype\.([A-Za-z_$][\w$]*)\s*=\s*[^=]`)
	// Alias capture: const _update = Scene_Map.prototype.update;
	protoCaptureRe = regexp.MustCompile(`(?:var|let|const)\s+[A-Za-z_$][\w$]*\s*=\s*([A-Za-z_$][\w$]*)\.prototype\.([A-Za-z_$][\w$]*)\s*[;,\r\n]`)
	// Static manager methods have no prototype: DataManager.loadDatabase = function...
	// The function keyword keeps plain value assignments out.
	staticAssignRe = regexp.MustCompile(`(?m)^[ \t]*([A-Z][\w$]*)\.([A-Za-z_$][\w$]*)\s*=\s*(?:async\s+)?function\b`)
	staticCaptureRe = regexp.MustCompile(`(?:var|let|const)\s+[A-Za-z_$][\w$]*\s*=\s*([A-Z][\w$]*)\.([A-Za-z_$][\w$]*)\s*[;,\r\n]`)
}

type touch struct {
	method   string
	plugin   string
	captured bool
}

// Detect scans the given sources in order and groups method touches
// across plugins. An identifier touched by two or more distinct plugins
// becomes one Conflict. A touch counts as capturing when an alias of
// the same identifier is taken earlier in the same file; a chain whose
// later touches all captured the prior implementation is reported as
// info, anything less traceable as warning.
func Detect(sources []Source) Report {
	scanOnce.Do(initScanRegex)

	var report Report
	var order []string
	chains := make(map[string][]touch)

	for _, src := range sources {
		if src.Err != nil {
			report.Skipped = append(report.Skipped, fmt.Sprintf("%s: %v", src.Name, src.Err))
			continue
		}
		touches := scanFile(src.Name, src.Text)
		report.TotalOverrides += len(touches)
		for _, t := range touches {
			if _, seen := chains[t.method]; !seen {
				order = append(order, t.method)
			}
			chains[t.method] = append(chains[t.method], t)
		}
	}

	for _, method := range order {
		ts := chains[method]
		plugins := touchingPlugins(ts)
		if len(plugins) < 2 {
			continue
		}
		severity := SeverityInfo
		for _, t := range ts[1:] {
			if !t.captured {
				severity = SeverityWarning
				break
			}
		}
		report.Conflicts = append(report.Conflicts, Conflict{
			Method:   method,
			Severity: severity,
			Plugins:  plugins,
		})
	}
	return report
}

// scanFile extracts the method touches of one plugin source in order
// of appearance.
func scanFile(plugin, text string) []touch {
	captures := make(map[string][]int)
	for _, re := range []*regexp.Regexp{protoCaptureRe, staticCaptureRe} {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			method := text[m[2]:m[3]] + "." + text[m[4]:m[5]]
			captures[method] = append(captures[method], m[0])
		}
	}

	type assign struct {
		method string
		pos    int
	}
	var assigns []assign
	for _, re := range []*regexp.Regexp{protoAssignRe, staticAssignRe} {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			assigns = append(assigns, assign{
				method: text[m[2]:m[3]] + "." + text[m[4]:m[5]],
				pos:    m[0],
			})
		}
	}
	sort.Slice(assigns, func(i, j int) bool { return assigns[i].pos < assigns[j].pos })

	touches := make([]touch, 0, len(assigns))
	for _, a := range assigns {
		captured := false
		for _, cpos := range captures[a.method] {
			if cpos < a.pos {
				captured = true
				break
			}
		}
		touches = append(touches, touch{method: a.method, plugin: plugin, captured: captured})
	}
	return touches
}

// touchingPlugins collapses a touch chain to the distinct plugin names
// in first-touch order.
func touchingPlugins(ts []touch) []string {
	var plugins []string
	seen := make(map[string]bool)
	for _, t := range ts {
		if !seen[t.plugin] {
			seen[t.plugin] = true
			plugins = append(plugins, t.plugin)
		}
	}
	return plugins
}

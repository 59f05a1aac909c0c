// Package project reads the on-disk layout of an engine project: the
// plugin scripts under js/plugins, the load order declared in
// js/plugins.js and the database names under data/. Everything here is
// read-only; exporting into a project goes through the build pipeline.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
)

type Project struct {
	Root string
	log  hclog.Logger
}

// Open checks that root looks like a project directory and returns a
// handle on it. A nil logger disables logging.
func Open(root string, logger hclog.Logger) (*Project, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open project: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", root)
	}
	return &Project{Root: root, log: logger}, nil
}

func (p *Project) PluginsDir() string {
	return filepath.Join(p.Root, "js", "plugins")
}

func (p *Project) DataDir() string {
	return filepath.Join(p.Root, "data")
}

// pluginEntry is one element of the $plugins array in js/plugins.js.
type pluginEntry struct {
	Name   string `json:"name"`
	Status bool   `json:"status"`
}

// PluginNames returns the project's plugins in load order. The order
// comes from js/plugins.js when present, because that is the order the
// engine loads; entries switched off there are excluded for the same
// reason. Scripts on disk that plugins.js does not list are appended
// in name order. Without a usable plugins.js the whole listing falls
// back to the directory in name order.
func (p *Project) PluginNames() ([]string, error) {
	onDisk, err := p.listScripts()
	if err != nil {
		return nil, err
	}

	entries, ok := p.readLoadOrder()
	if !ok {
		return onDisk, nil
	}

	listed := make(map[string]bool)
	var names []string
	for _, e := range entries {
		if e.Name == "" || listed[e.Name] {
			continue
		}
		listed[e.Name] = true
		if !e.Status {
			p.log.Debug("plugin is switched off", "plugin", e.Name)
			continue
		}
		names = append(names, e.Name)
	}
	for _, name := range onDisk {
		if !listed[name] {
			names = append(names, name)
		}
	}
	return names, nil
}

// File is one plugin script. A read failure travels in Err so one bad
// file degrades to a reported entry instead of aborting the project
// walk.
type File struct {
	Name   string
	Path   string
	Source string
	Err    error
}

// Files reads every plugin script in load order.
func (p *Project) Files() ([]File, error) {
	names, err := p.PluginNames()
	if err != nil {
		return nil, err
	}
	files := make([]File, 0, len(names))
	for _, name := range names {
		path := filepath.Join(p.PluginsDir(), name+".js")
		f := File{Name: name, Path: path}
		data, err := os.ReadFile(path)
		if err != nil {
			f.Err = err
			p.log.Warn("failed to read plugin", "plugin", name, "error", err)
		} else {
			f.Source = string(data)
		}
		files = append(files, f)
	}
	return files, nil
}

// ReadSource reads one plugin script by name.
func (p *Project) ReadSource(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(p.PluginsDir(), name+".js"))
	if err != nil {
		return "", fmt.Errorf("failed to read plugin %s: %w", name, err)
	}
	return string(data), nil
}

func (p *Project) listScripts() ([]string, error) {
	entries, err := os.ReadDir(p.PluginsDir())
	if err != nil {
		return nil, fmt.Errorf("failed to read plugins directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".js") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".js"))
	}
	sort.Strings(names)
	return names, nil
}

// readLoadOrder extracts the $plugins array from js/plugins.js. The
// file is JavaScript, but the array literal the editor writes is plain
// JSON, so the slice between the brackets decodes directly.
func (p *Project) readLoadOrder() ([]pluginEntry, bool) {
	path := filepath.Join(p.Root, "js", "plugins.js")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	src := string(data)

	at := strings.Index(src, "$plugins")
	if at < 0 {
		p.log.Warn("plugins.js does not declare $plugins, using directory order", "path", path)
		return nil, false
	}
	open := strings.Index(src[at:], "[")
	end := strings.LastIndex(src, "]")
	if open < 0 || end < at+open {
		p.log.Warn("plugins.js is malformed, using directory order", "path", path)
		return nil, false
	}

	var entries []pluginEntry
	if err := json.Unmarshal([]byte(src[at+open:end+1]), &entries); err != nil {
		p.log.Warn("failed to decode plugins.js, using directory order", "path", path, "error", err)
		return nil, false
	}
	return entries, true
}

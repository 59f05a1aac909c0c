package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mzsmith/mzsmith/internal/config"
	"github.com/mzsmith/mzsmith/internal/conflict"
	"github.com/mzsmith/mzsmith/internal/depgraph"
	"github.com/mzsmith/mzsmith/internal/importer"
	"github.com/mzsmith/mzsmith/internal/project"
	"github.com/spf13/cobra"
)

var scanJSONFlag bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Inventory the game project and run every analyzer",
	Long: `Walks the game project's plugins in load order, shows what each one
declares in its annotation header, then runs the dependency audit and
the method-override scan over the whole set.`,
	Run: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVar(&scanJSONFlag, "json", false, "Emit the full report as JSON")
}

type scanEntry struct {
	Name       string `json:"name"`
	Version    string `json:"version,omitempty"`
	Desc       string `json:"description,omitempty"`
	Parameters int    `json:"parameters"`
	Commands   int    `json:"commands"`
	Error      string `json:"error,omitempty"`
}

type scanReport struct {
	Plugins      []scanEntry     `json:"plugins"`
	Dependencies depgraph.Report `json:"dependencies"`
	Conflicts    conflict.Report `json:"conflicts"`
}

func runScan(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		color.Red("❌ Failed to load configuration: %v", err)
		os.Exit(1)
	}

	proj, err := project.Open(cfg.ProjectRoot, cfg.Logger())
	if err != nil {
		color.Red("❌ %v", err)
		os.Exit(1)
	}
	files, err := proj.Files()
	if err != nil {
		color.Red("❌ %v", err)
		os.Exit(1)
	}

	report := scanProject(files)

	if scanJSONFlag {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			color.Red("❌ Failed to encode report: %v", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		if report.Dependencies.Health == depgraph.HealthErrors {
			os.Exit(1)
		}
		return
	}

	printScanReport(proj, report)

	if report.Dependencies.Health == depgraph.HealthErrors {
		os.Exit(1)
	}
}

// scanProject reads each plugin once and feeds the same snapshot to the
// inventory, the dependency analyzer and the conflict detector.
func scanProject(files []project.File) scanReport {
	var report scanReport

	headers := make([]depgraph.PluginHeader, 0, len(files))
	sources := make([]conflict.Source, 0, len(files))
	for _, f := range files {
		entry := scanEntry{Name: f.Name}
		sources = append(sources, conflict.Source{Name: f.Name, Text: f.Source, Err: f.Err})
		if f.Err != nil {
			entry.Error = f.Err.Error()
			headers = append(headers, depgraph.PluginHeader{Name: f.Name, Err: f.Err})
			report.Plugins = append(report.Plugins, entry)
			continue
		}
		headers = append(headers, depgraph.ParseHeader(f.Name, f.Source))

		if plugin, err := importer.Parse(f.Name, f.Source); err != nil {
			entry.Error = err.Error()
		} else {
			entry.Version = plugin.Meta.Version
			entry.Desc = firstDescLine(plugin.Meta.Desc)
			entry.Parameters = len(plugin.Parameters)
			entry.Commands = len(plugin.Commands)
		}
		report.Plugins = append(report.Plugins, entry)
	}

	report.Dependencies = depgraph.Analyze(headers)
	report.Conflicts = conflict.Detect(sources)
	return report
}

func printScanReport(proj *project.Project, report scanReport) {
	color.Cyan("🔎 %d plugin(s) in %s", len(report.Plugins), proj.PluginsDir())
	fmt.Println()

	nameWidth := 0
	for _, e := range report.Plugins {
		if len(e.Name) > nameWidth {
			nameWidth = len(e.Name)
		}
	}
	for _, e := range report.Plugins {
		if e.Error != "" {
			color.Yellow("⚠️  %-*s %s", nameWidth, e.Name, e.Error)
			continue
		}
		fmt.Printf("   %-*s %-8s %d param(s), %d command(s)",
			nameWidth, e.Name, e.Version, e.Parameters, e.Commands)
		if e.Desc != "" {
			fmt.Printf("  %s", e.Desc)
		}
		fmt.Println()
	}

	fmt.Println()
	color.Cyan("🔗 Load order")
	for _, issue := range report.Dependencies.Issues {
		if issue.Severity == depgraph.SeverityError {
			color.Red("❌ %s", issue.Message)
		} else {
			color.Yellow("⚠️  %s", issue.Message)
		}
	}
	if report.Dependencies.Health == depgraph.HealthOK {
		color.Green("✅ Load order satisfies every declared dependency")
	}

	fmt.Println()
	color.Cyan("🔀 Method overrides (%d total)", report.Conflicts.TotalOverrides)
	for _, c := range report.Conflicts.Conflicts {
		chain := strings.Join(c.Plugins, " → ")
		if c.Severity == conflict.SeverityWarning {
			color.Yellow("⚠️  %s is overridden blindly by: %s", c.Method, chain)
		} else {
			color.White("ℹ️  %s is extended in order by: %s", c.Method, chain)
		}
	}
	for _, skipped := range report.Conflicts.Skipped {
		color.Yellow("⚠️  skipped %s", skipped)
	}
	if len(report.Conflicts.Conflicts) == 0 {
		color.Green("✅ No plugins override the same method")
	}
}

func firstDescLine(desc string) string {
	desc = strings.TrimSpace(desc)
	if i := strings.IndexByte(desc, '\n'); i >= 0 {
		desc = desc[:i]
	}
	return desc
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mzsmith/mzsmith/internal/config"
	"github.com/mzsmith/mzsmith/internal/depgraph"
	"github.com/mzsmith/mzsmith/internal/project"
	"github.com/spf13/cobra"
)

var depsJSONFlag bool

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Audit plugin dependencies and load order",
	Long: `Reads the @base, @orderAfter and @orderBefore tags of every plugin in
the game project and checks the current load order against them.
Missing required plugins and dependency cycles are errors; a load
order that merely contradicts the declared hints is a warning.`,
	Run: runDeps,
}

func init() {
	rootCmd.AddCommand(depsCmd)

	depsCmd.Flags().BoolVar(&depsJSONFlag, "json", false, "Emit the report as JSON")
}

func runDeps(cmd *cobra.Command, args []string) {
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

	headers := make([]depgraph.PluginHeader, 0, len(files))
	for _, f := range files {
		if f.Err != nil {
			headers = append(headers, depgraph.PluginHeader{Name: f.Name, Err: f.Err})
			continue
		}
		headers = append(headers, depgraph.ParseHeader(f.Name, f.Source))
	}
	report := depgraph.Analyze(headers)

	if depsJSONFlag {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			color.Red("❌ Failed to encode report: %v", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		if report.Health == depgraph.HealthErrors {
			os.Exit(1)
		}
		return
	}

	color.Cyan("🔗 Checked load order of %d plugin(s)", len(report.PluginNames))
	fmt.Println()

	for _, issue := range report.Issues {
		if issue.Severity == depgraph.SeverityError {
			color.Red("❌ %s", issue.Message)
		} else {
			color.Yellow("⚠️  %s", issue.Message)
		}
	}

	switch report.Health {
	case depgraph.HealthOK:
		color.Green("✅ Load order satisfies every declared dependency")
	case depgraph.HealthWarnings:
		fmt.Println()
		color.Yellow("💡 Reorder the plugins in the editor's Plugin Manager to silence")
		color.White("   the warnings; the declared order is satisfiable.")
	case depgraph.HealthErrors:
		fmt.Println()
		color.Yellow("💡 Install the missing plugins or remove the tags that refer to")
		color.White("   them, then rerun 'mzsmith deps'.")
		os.Exit(1)
	}
}

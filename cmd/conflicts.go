package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mzsmith/mzsmith/internal/config"
	"github.com/mzsmith/mzsmith/internal/conflict"
	"github.com/mzsmith/mzsmith/internal/project"
	"github.com/spf13/cobra"
)

var conflictsJSONFlag bool

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Scan the project for plugins overriding the same methods",
	Long: `Scans every plugin in the game project for reassignments of the same
class or prototype method. Chains where each later plugin captured the
previous implementation usually compose fine and are reported as info;
blind overrides are reported as warnings.

The scan reads source text, it does not run the plugins, so treat the
findings as leads rather than verdicts.`,
	Run: runConflicts,
}

func init() {
	rootCmd.AddCommand(conflictsCmd)

	conflictsCmd.Flags().BoolVar(&conflictsJSONFlag, "json", false, "Emit the report as JSON")
}

func runConflicts(cmd *cobra.Command, args []string) {
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

	sources := make([]conflict.Source, 0, len(files))
	for _, f := range files {
		sources = append(sources, conflict.Source{Name: f.Name, Text: f.Source, Err: f.Err})
	}
	report := conflict.Detect(sources)

	if conflictsJSONFlag {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			color.Red("❌ Failed to encode report: %v", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	color.Cyan("🔎 Scanned %d plugin(s), %d method override(s) found", len(sources), report.TotalOverrides)
	fmt.Println()

	if len(report.Conflicts) == 0 {
		color.Green("✅ No plugins override the same method")
	}
	for _, c := range report.Conflicts {
		chain := strings.Join(c.Plugins, " → ")
		if c.Severity == conflict.SeverityWarning {
			color.Yellow("⚠️  %s is overridden blindly by: %s", c.Method, chain)
		} else {
			color.White("ℹ️  %s is extended in order by: %s", c.Method, chain)
		}
	}
	for _, skipped := range report.Skipped {
		color.Yellow("⚠️  skipped %s", skipped)
	}

	if len(report.Conflicts) > 0 {
		fmt.Println()
		color.Yellow("💡 Warnings usually mean the load order matters; try moving the")
		color.White("   overriding plugin below the one it replaces and retest.")
	}
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mzsmith/mzsmith/internal/config"
	"github.com/mzsmith/mzsmith/internal/plugindef"
	"github.com/mzsmith/mzsmith/internal/validate"
	"github.com/spf13/cobra"
)

var checkJSONFlag bool

var checkCmd = &cobra.Command{
	Use:   "check [name...]",
	Short: "Validate plugin definitions",
	Long: `Runs every definition through validation and reports errors and
warnings. Errors make the definition unexportable; warnings are
advisory.`,
	Run: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkJSONFlag, "json", false, "Emit the report as JSON")
}

type checkEntry struct {
	Name string `json:"name"`
	File string `json:"file"`
	validate.Result
}

func runCheck(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		color.Red("❌ Failed to load configuration: %v", err)
		os.Exit(1)
	}

	files, err := cfg.DefinitionFiles()
	if err != nil {
		color.Red("❌ %v", err)
		os.Exit(1)
	}
	files = selectDefinitions(files, args)
	if len(files) == 0 {
		color.Yellow("💡 No definitions to check. Run 'mzsmith new <name>' to create one.")
		return
	}

	known := knownPluginNames(cfg, files)

	var entries []checkEntry
	failed := 0
	for _, file := range files {
		plugin, err := plugindef.Load(file)
		if err != nil {
			entries = append(entries, checkEntry{
				Name: file,
				File: file,
				Result: validate.Result{
					Valid:  false,
					Errors: []string{err.Error()},
				},
			})
			failed++
			continue
		}
		result := validate.Check(plugin, known)
		entries = append(entries, checkEntry{Name: plugin.Meta.Name, File: file, Result: result})
		if !result.Valid {
			failed++
		}
	}

	if checkJSONFlag {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			color.Red("❌ Failed to encode report: %v", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	} else {
		printCheckReport(entries, failed)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func printCheckReport(entries []checkEntry, failed int) {
	for _, entry := range entries {
		switch {
		case !entry.Valid:
			color.Red("❌ %s", entry.Name)
		case len(entry.Warnings) > 0:
			color.Yellow("⚠️  %s", entry.Name)
		default:
			color.Green("✅ %s", entry.Name)
		}
		for _, e := range entry.Errors {
			color.Red("   error: %s", e)
		}
		for _, w := range entry.Warnings {
			color.Yellow("   warning: %s", w)
		}
	}

	fmt.Println()
	if failed == 0 {
		color.Green("✅ All %d definition(s) are valid", len(entries))
	} else {
		color.Red("❌ %d of %d definition(s) failed validation", failed, len(entries))
	}
}

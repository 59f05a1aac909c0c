package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mzsmith/mzsmith/internal/config"
	"github.com/mzsmith/mzsmith/internal/importer"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.js>...",
	Short: "Import existing plugin files as definitions",
	Long: `Reads annotated plugin files and turns each one into a definition.
The original source is kept inside the definition, so a later build
regenerates the header but leaves the plugin body untouched.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		color.Red("❌ Failed to load configuration: %v", err)
		os.Exit(1)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		color.Red("❌ %v", err)
		os.Exit(1)
	}

	force, _ := cmd.Flags().GetBool("force")

	color.Cyan("📥 Importing %d plugin file(s)...", len(args))
	fmt.Println()

	failed := 0
	for _, arg := range args {
		name := strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))

		data, err := os.ReadFile(arg)
		if err != nil {
			color.Red("❌ %s: %v", arg, err)
			failed++
			continue
		}

		plugin, err := importer.Parse(name, string(data))
		if err != nil {
			color.Red("❌ %s: %v", arg, err)
			failed++
			continue
		}

		path := cfg.DefinitionPath(plugin.Meta.Name)
		if _, err := os.Stat(path); err == nil && !force {
			color.Red("❌ %s: definition %s already exists (use --force to overwrite)", arg, path)
			failed++
			continue
		}

		if err := plugin.Save(path); err != nil {
			color.Red("❌ %s: %v", arg, err)
			failed++
			continue
		}

		color.Green("✅ %s → %s (%d parameter(s), %d command(s))",
			arg, path, len(plugin.Parameters), len(plugin.Commands))
	}

	fmt.Println()
	if failed > 0 {
		color.Red("❌ %d file(s) could not be imported", failed)
		os.Exit(1)
	}
	color.Yellow("💡 Next steps:")
	color.White("   1. Run 'mzsmith check' to validate the imported definitions")
	color.White("   2. Run 'mzsmith build' to re-export them")
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mzsmith/mzsmith/internal/config"
	"github.com/mzsmith/mzsmith/internal/gencommon"
	"github.com/mzsmith/mzsmith/internal/jsgen"
	"github.com/mzsmith/mzsmith/internal/plugindef"
	"github.com/mzsmith/mzsmith/internal/project"
	"github.com/mzsmith/mzsmith/internal/validate"
	"github.com/spf13/cobra"
)

var fullFlag bool

var buildCmd = &cobra.Command{
	Use:   "build [name...]",
	Short: "Export plugin definitions as engine-ready JavaScript",
	Long: `Validates every definition and writes the generated plugin files
into the output directory. Definitions with validation errors are
skipped unless --force is given.

Imported plugins keep their original body and only get their header
regenerated; pass --full to regenerate the body from the definition.`,
	Run: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().BoolVar(&fullFlag, "full", false, "Regenerate imported plugin bodies instead of preserving them")
}

func runBuild(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		color.Red("❌ Failed to load configuration: %v", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		color.Red("❌ %v", err)
		os.Exit(1)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		color.Red("❌ %v", err)
		os.Exit(1)
	}

	files, err := cfg.DefinitionFiles()
	if err != nil {
		color.Red("❌ %v", err)
		os.Exit(1)
	}
	files = selectDefinitions(files, args)
	if len(files) == 0 {
		color.Yellow("💡 No definitions to build. Run 'mzsmith new <name>' to create one.")
		return
	}

	force, _ := cmd.Flags().GetBool("force")
	known := knownPluginNames(cfg, files)

	color.Cyan("🔧 Building %d plugin definition(s)...", len(files))
	fmt.Println()

	var written, unchanged, skipped int
	for _, file := range files {
		plugin, err := plugindef.Load(file)
		if err != nil {
			color.Red("❌ %s: %v", file, err)
			skipped++
			continue
		}

		result := validate.Check(plugin, known)
		for _, warning := range result.Warnings {
			color.Yellow("⚠️  %s: %s", plugin.Meta.Name, warning)
		}
		if !result.Valid {
			for _, e := range result.Errors {
				color.Red("❌ %s: %s", plugin.Meta.Name, e)
			}
			if !force {
				skipped++
				continue
			}
			color.Yellow("⚠️  %s: building anyway (--force)", plugin.Meta.Name)
		}

		source, preserved := generateSource(plugin)
		outPath := filepath.Join(cfg.OutputDir, plugin.Meta.Name+".js")
		changed, err := gencommon.WriteFileIfChanged(outPath, []byte(source))
		if err != nil {
			color.Red("❌ %s: %v", plugin.Meta.Name, err)
			skipped++
			continue
		}

		note := ""
		if plugin.RawSource != "" && !fullFlag {
			if preserved {
				note = " (body preserved)"
			} else {
				note = " (body regenerated, original header unreadable)"
			}
		}
		if changed {
			color.Green("✅ %s%s", outPath, note)
			written++
		} else {
			color.White("   %s unchanged", outPath)
			unchanged++
		}
	}

	fmt.Println()
	color.Cyan("📦 %d written, %d unchanged, %d skipped", written, unchanged, skipped)
	if skipped > 0 {
		fmt.Println()
		color.Yellow("💡 Run 'mzsmith check' for the full validation report")
		os.Exit(1)
	}
}

// generateSource picks the generation mode for one definition. Imported
// plugins keep their body unless --full asks for a clean rebuild.
func generateSource(plugin *plugindef.Plugin) (string, bool) {
	if plugin.RawSource != "" && !fullFlag {
		return jsgen.GenerateRaw(plugin)
	}
	return jsgen.Generate(plugin), true
}

// selectDefinitions filters the definition files down to the names
// requested on the command line; no names means everything.
func selectDefinitions(files, names []string) []string {
	if len(names) == 0 {
		return files
	}
	requested := make(map[string]bool, len(names))
	for _, name := range names {
		requested[name] = true
	}
	var selected []string
	for _, file := range files {
		base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		if requested[base] {
			selected = append(selected, file)
			delete(requested, base)
		}
	}
	for name := range requested {
		color.Yellow("⚠️  No definition named %s", name)
	}
	return selected
}

// knownPluginNames collects every plugin name a dependency tag could
// legitimately point at: plugins already in the game project plus the
// definitions being built.
func knownPluginNames(cfg *config.Config, files []string) []string {
	var known []string
	if proj, err := project.Open(cfg.ProjectRoot, cfg.Logger()); err == nil {
		if names, err := proj.PluginNames(); err == nil {
			known = append(known, names...)
		}
	}
	for _, file := range files {
		known = append(known, strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)))
	}
	if len(known) == 0 {
		return nil
	}
	return known
}

package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mzsmith/mzsmith/internal/config"
	"github.com/mzsmith/mzsmith/internal/plugindef"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new plugin definition",
	Long: `Creates a fresh definition file in the definitions directory.

The name becomes both the definition file name and the exported
plugin file name, so pick an identifier like "TorchLight".`,
	Args: cobra.ExactArgs(1),
	Run:  runNew,
}

func init() {
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) {
	name := args[0]

	cfg, err := config.Load()
	if err != nil {
		color.Red("❌ Failed to load configuration: %v", err)
		os.Exit(1)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		color.Red("❌ %v", err)
		os.Exit(1)
	}

	path := cfg.DefinitionPath(name)
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		color.Red("❌ Definition %s already exists (use --force to overwrite)", path)
		os.Exit(1)
	}

	plugin := plugindef.New(name)
	plugin.Meta.Author = cfg.Author
	if cfg.Target != "" {
		plugin.Meta.Target = cfg.Target
	}

	if err := plugin.Save(path); err != nil {
		color.Red("❌ %v", err)
		os.Exit(1)
	}

	color.Green("✅ Created definition %s", path)
	fmt.Println()
	color.Yellow("💡 Next steps:")
	color.White("   1. Describe parameters and commands in %s", path)
	color.White("   2. Run 'mzsmith check' to validate the definition")
	color.White("   3. Run 'mzsmith build' to export the plugin")
}

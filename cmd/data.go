package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mzsmith/mzsmith/internal/config"
	"github.com/mzsmith/mzsmith/internal/plugindef"
	"github.com/mzsmith/mzsmith/internal/project"
	"github.com/spf13/cobra"
)

var dataCmd = &cobra.Command{
	Use:   "data <kind>",
	Short: "List database entries a reference parameter can point at",
	Long: `Shows the id and name of every database entry behind a reference
parameter kind, read from the game project's data files. Useful for
picking defaults for actor, item, switch and similar parameters.

Kinds: actor, class, skill, item, weapon, armor, enemy, troop, state,
animation, tileset, common_event, switch, variable.`,
	Args: cobra.ExactArgs(1),
	Run:  runData,
}

func init() {
	rootCmd.AddCommand(dataCmd)
}

func runData(cmd *cobra.Command, args []string) {
	kind := plugindef.ParamType(args[0])

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

	names, err := proj.DataNames(kind)
	if err != nil {
		color.Red("❌ %v", err)
		os.Exit(1)
	}

	color.Cyan("📇 %d %s entries", countNamed(names), kind)
	fmt.Println()
	// Entry ids start at 1; index 0 is the engine's unused slot.
	for id := 1; id < len(names); id++ {
		if names[id] == "" {
			continue
		}
		fmt.Printf("   %4d  %s\n", id, names[id])
	}
}

func countNamed(names []string) int {
	count := 0
	for id := 1; id < len(names); id++ {
		if names[id] != "" {
			count++
		}
	}
	return count
}

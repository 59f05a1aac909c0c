package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "0.4.1"
)

func showBanner() {
	cyanColor := color.New(color.FgCyan, color.Bold)

	banner := []string{
		"███╗   ███╗███████╗███████╗███╗   ███╗██╗████████╗██╗  ██╗",
		"████╗ ████║╚══███╔╝██╔════╝████╗ ████║██║╚══██╔══╝██║  ██║",
		"██╔████╔██║  ███╔╝ ███████╗██╔████╔██║██║   ██║   ███████║",
		"██║╚██╔╝██║ ███╔╝  ╚════██║██║╚██╔╝██║██║   ██║   ██╔══██║",
		"██║ ╚═╝ ██║███████╗███████║██║ ╚═╝ ██║██║   ██║   ██║  ██║",
		"╚═╝     ╚═╝╚══════╝╚══════╝╚═╝     ╚═╝╚═╝   ╚═╝   ╚═╝  ╚═╝",
	}

	for _, line := range banner {
		cyanColor.Println(line)
	}

	fmt.Print("        ")
	color.New(color.FgWhite, color.Bold).Print("Plugin workbench for RPG Maker MZ/MV   ")
	color.New(color.FgYellow, color.Bold).Printf("v%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "mzsmith",
	Short: "Define, validate and build RPG Maker plugins from YAML",
	Long: `
mzsmith turns YAML plugin definitions into fully annotated RPG Maker
plugin files, and audits the plugins already installed in a project.

Definitions:
- Typed parameters, commands, reusable structs and localized help
- Deterministic export, byte-identical for identical definitions
- Imported plugins keep their hand-written body on re-export

Project auditing:
- Load-order dependency analysis (@base, @orderAfter, @orderBefore)
- Cross-plugin method override detection`,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("mzsmith CLI version %s\n", Version)
			os.Exit(0)
		}

		if len(args) == 0 {
			showBanner()
			fmt.Println()
			cmd.Help()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./mzsmith.config.json)")
	rootCmd.PersistentFlags().BoolP("force", "f", false, "Skip confirmations")

	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	// Both env files are optional.
	godotenv.Load()
	godotenv.Load(".env.local")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("mzsmith.config")
	}

	viper.SetEnvPrefix("MZSMITH")
	viper.AutomaticEnv()

	viper.ReadInConfig()
}

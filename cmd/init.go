package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mzsmith/mzsmith/template"
	"github.com/spf13/cobra"
)

var (
	mvFlag     bool
	authorFlag string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize an mzsmith workspace",
	Long:  `Creates the workspace config, the definitions directory and a starter definition.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		target := template.MZ
		if mvFlag {
			target = template.MV
		}
		return initializeWorkspace(target, authorFlag)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&mvFlag, "mv", false, "Set up for RPG Maker MV instead of MZ")
	initCmd.Flags().StringVar(&authorFlag, "author", "", "Author name written into new definitions")
}

func initializeWorkspace(target template.EngineTarget, author string) error {
	if _, err := os.Stat("mzsmith.config.json"); err == nil {
		return fmt.Errorf("mzsmith.config.json already exists, workspace is initialized")
	}

	tmpl := template.NewProjectTemplate(target)

	directories := tmpl.GetDirectoryStructure()
	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	files := map[string]string{
		"mzsmith.config.json": tmpl.GetWorkspaceConfig(author),
	}

	samplePath := filepath.Join("definitions", "Greeting.yaml")
	if _, err := os.Stat(samplePath); os.IsNotExist(err) {
		files[samplePath] = tmpl.GetSampleDefinition(author)
	}

	for filePath, content := range files {
		if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to create file %s: %w", filePath, err)
		}
	}

	// Handle .env file separately to preserve existing variables
	if err := handleEnvFile(tmpl.GetEnvTemplate()); err != nil {
		return fmt.Errorf("failed to handle .env file: %w", err)
	}

	fmt.Printf("✅ Initialized mzsmith workspace for RPG Maker %s\n", target)
	fmt.Println()
	fmt.Println("📁 Workspace structure created:")
	for _, dir := range directories {
		fmt.Printf("   %s/\n", dir)
	}
	fmt.Println()
	fmt.Println("📝 Configuration file created:")
	fmt.Println("   mzsmith.config.json")
	fmt.Println()
	fmt.Printf("🚀 Next steps:\n")
	fmt.Printf("   mzsmith check          # Validate the starter definition\n")
	fmt.Printf("   mzsmith build          # Export plugins into js/plugins\n")
	fmt.Printf("   mzsmith new MyPlugin   # Add another definition\n")

	return nil
}

func handleEnvFile(defaultEnvContent string) error {
	envPath := ".env"

	existingContent, err := os.ReadFile(envPath)
	if err != nil {
		if os.IsNotExist(err) {
			return os.WriteFile(envPath, []byte(defaultEnvContent), 0644)
		}
		return err
	}

	existingStr := string(existingContent)
	if strings.Contains(existingStr, "MZSMITH_PROJECT_ROOT") {
		return nil
	}

	if len(existingStr) > 0 && !strings.HasSuffix(existingStr, "\n") {
		existingStr += "\n"
	}

	existingStr += "\n# Added by mzsmith\n" + defaultEnvContent

	return os.WriteFile(envPath, []byte(existingStr), 0644)
}

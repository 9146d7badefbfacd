package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/docshell/internal/check"
	"github.com/conneroisu/docshell/internal/config"
)

var checkCmd = &cobra.Command{
	Use:     "check",
	Aliases: []string{"c"},
	Short:   "Validate catalog, content files, and anchors",
	Long: `Validate that the catalog, route table, and content directory agree:
route paths are unique with a single catch-all, every topic has a non-empty
content fragment, and every declared anchor resolves to an element id.

Examples:
  docshell check                       # Check the default content directory
  docshell check --content ./docs      # Check a specific directory`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().String("content", "./content", "Directory holding topic HTML fragments")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The flag is read directly: binding it to content.dir would collide
	// with the serve command's binding for the same key.
	contentDir := cfg.Content.Dir
	if cmd.Flags().Changed("content") {
		contentDir, _ = cmd.Flags().GetString("content")
	}

	cat, err := loadCatalogFromConfig(cfg)
	if err != nil {
		return err
	}

	result := check.Run(cat, contentDir)

	fmt.Printf("Checked %d of %d topics under %s\n", result.Checked, result.Topics, contentDir)
	if result.Ok() {
		fmt.Println("No problems found")
		return nil
	}

	for _, problem := range result.Problems {
		fmt.Fprintf(os.Stderr, "  %v\n", problem)
	}
	return fmt.Errorf("found %d problem(s)", len(result.Problems))
}

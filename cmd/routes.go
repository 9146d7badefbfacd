package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/docshell/internal/catalog"
	"github.com/conneroisu/docshell/internal/config"
	"github.com/conneroisu/docshell/internal/routes"
)

var routesCmd = &cobra.Command{
	Use:     "routes",
	Aliases: []string{"r"},
	Short:   "List the route table",
	Long: `List the route table in match-priority order: the root redirect, every
topic path, and the trailing catch-all.

Examples:
  docshell routes                 # Table output
  docshell routes -f json         # JSON output
  docshell routes -f yaml         # YAML output`,
	RunE: runRoutes,
}

var routesFormat string

func init() {
	rootCmd.AddCommand(routesCmd)
	routesCmd.Flags().StringVarP(&routesFormat, "format", "f", "table", "Output format (table, json, yaml)")
}

// routeRow is the serializable form of a route entry for listings.
type routeRow struct {
	Path   string `json:"path" yaml:"path"`
	Kind   string `json:"kind" yaml:"kind"`
	Slug   string `json:"slug,omitempty" yaml:"slug,omitempty"`
	Title  string `json:"title,omitempty" yaml:"title,omitempty"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
}

func runRoutes(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cat, err := loadCatalogFromConfig(cfg)
	if err != nil {
		return err
	}

	table, err := routes.Build(cat)
	if err != nil {
		return err
	}

	rows := make([]routeRow, 0)
	for _, entry := range table.Entries() {
		rows = append(rows, routeRow{
			Path:   entry.Path,
			Kind:   entry.Kind.String(),
			Slug:   entry.Slug,
			Title:  entry.Title,
			Target: entry.Target,
		})
	}

	switch routesFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		return yaml.NewEncoder(os.Stdout).Encode(rows)
	case "table":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PATH\tKIND\tSLUG\tTITLE")
		for _, row := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.Path, row.Kind, row.Slug, row.Title)
		}
		return w.Flush()
	default:
		return fmt.Errorf("invalid format %q: must be table, json, or yaml", routesFormat)
	}
}

func loadCatalogFromConfig(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Content.Catalog != "" {
		return catalog.LoadManifest(cfg.Content.Catalog)
	}
	return catalog.Default(), nil
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ebspulse/ebspulse/core/application/catalog"
	"github.com/ebspulse/ebspulse/core/domain/interfaces"
)

// reportsCmd lists the catalog without touching the database
var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List the available reports with their parameters and columns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		printCatalog(cmd, catalog.New())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportsCmd)
}

func printCatalog(cmd *cobra.Command, cat interfaces.Catalog) {
	out := cmd.OutOrStdout()
	for _, stmt := range cat.All() {
		fmt.Fprintf(out, "%s\n  %s\n", stmt.Name, stmt.Description)
		if len(stmt.Params) == 0 {
			fmt.Fprintln(out, "  parameters: none")
		}
		for _, p := range stmt.Params {
			fmt.Fprintf(out, "  parameter %s (%s, default %d, %d..%d)\n", p.Name, p.Type, p.Default, p.Min, p.Max)
		}
		fmt.Fprintf(out, "  columns: %s\n", strings.Join(stmt.Columns, ", "))
	}
}

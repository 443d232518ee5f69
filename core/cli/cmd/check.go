package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ebspulse/ebspulse/core/infrastructure/di"
	"github.com/ebspulse/ebspulse/core/infrastructure/logging"
)

// checkCmd verifies the database is reachable
var checkCmd = &cobra.Command{
	Use:           "check",
	Short:         "Open the connection pool and ping the database",
	Args:          cobra.NoArgs,
	RunE:          runCheck,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := prepareConfig()
	if err != nil {
		return err
	}

	container, err := di.NewVerifiedContainer(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	if err := container.ReportService.TestConnection(cmd.Context()); err != nil {
		return err
	}

	logging.New("check").Successf("Connected to %s", cfg.Database.Redacted())
	fmt.Fprintln(cmd.OutOrStdout(), "Database connection successful!")
	return nil
}

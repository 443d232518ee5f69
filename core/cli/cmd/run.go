package cmd

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/ebspulse/ebspulse/core/infrastructure/di"
	"github.com/ebspulse/ebspulse/core/infrastructure/logging"
	sharedctx "github.com/ebspulse/ebspulse/core/shared/context"
)

var hours int

// runCmd executes one report and prints its rows
var runCmd = &cobra.Command{
	Use:           "run <report>",
	Short:         "Execute one report and print the rows as JSON",
	Args:          cobra.ExactArgs(1),
	RunE:          runReport,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntVar(&hours, "hours", 8, "Reporting window in hours (1-48), ignored by reports without a window")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := prepareConfig()
	if err != nil {
		return err
	}

	container, err := di.NewVerifiedContainer(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	inputs := map[string]string{}
	if cmd.Flags().Changed("hours") {
		inputs["hours"] = strconv.Itoa(hours)
	}

	requestID := sharedctx.GenerateRequestID()
	logging.New("run").Debugf("Running %s as request %s", args[0], requestID)
	ctx := sharedctx.WithRequestID(cmd.Context(), requestID)

	result, err := container.ReportService.RunReport(ctx, args[0], inputs)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

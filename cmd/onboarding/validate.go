package main

import (
	"fmt"

	"github.com/aretw0/onboarding/internal/cli"
	"github.com/aretw0/onboarding/internal/logging"
	"github.com/aretw0/onboarding/internal/validator"
	"github.com/aretw0/onboarding/pkg/catalog"
	"github.com/aretw0/onboarding/pkg/flows"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the flow for consistency",
	Long: `Lints the configured flow: dangling step ids, unreachable steps, skip
cycles and resolvers that panic for some module selection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		flow, err := flows.ByName(cfg.Flow, catalog.Default())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		report := validator.ValidateFlow(flow)
		for _, f := range report.Findings {
			fmt.Fprintln(out, f.String())
		}
		if err := report.Err(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		// The engine lints again and must accept the flow as well.
		if _, err := cli.BuildEngine(cfg, logging.NewNop()); err != nil {
			return err
		}
		fmt.Fprintf(out, "Flow %s is valid! ✅ (%d steps, %d reachable)\n", flow.ID, flow.Len(), len(report.Reachable))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

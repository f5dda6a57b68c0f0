package main

import (
	"fmt"

	"github.com/aretw0/onboarding/internal/cli"
	"github.com/aretw0/onboarding/internal/logging"
	"github.com/aretw0/onboarding/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the flow graph visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the configured flow. With --session
the steps visited by that session are highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		engine, err := cli.BuildEngine(cfg, logging.NewNop())
		if err != nil {
			return err
		}

		var overlay *graph.Overlay
		if sessionID, _ := cmd.Flags().GetString("session"); sessionID != "" {
			p, err := cli.OpenPersistence(cmd.Context(), cfg, logging.NewNop())
			if err != nil {
				return err
			}
			defer p.Close()

			state, err := p.Sessions.Load(cmd.Context(), sessionID)
			if err != nil {
				return fmt.Errorf("error loading session '%s': %w", sessionID, err)
			}
			overlay = graph.OverlayFor(state)
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(engine.Flow(), engine.Report().Edges, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("session", "s", "", "Highlight the path of a stored session")
}

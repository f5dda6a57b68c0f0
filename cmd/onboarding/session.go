package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/onboarding/internal/cli"
	"github.com/aretw0/onboarding/internal/logging"
	"github.com/aretw0/onboarding/pkg/persistence/middleware"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent sessions",
	Long:  `List, inspect, and remove sessions stored in the file store or in Redis.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPersistence(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		sessions, err := p.Sessions.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}
		fmt.Fprintln(out, "Sessions:")
		for _, s := range sessions {
			fmt.Fprintln(out, "- "+s)
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the state of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]
		p, err := openPersistence(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		store := p.Store
		if redact, _ := cmd.Flags().GetBool("redact"); redact {
			store = middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns)(store)
		}

		state, err := store.Load(cmd.Context(), sessionID)
		if err != nil {
			return fmt.Errorf("error loading session '%s': %w", sessionID, err)
		}

		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling state: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPersistence(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		out := cmd.OutOrStdout()
		failed := 0
		for _, sessionID := range args {
			if err := p.Sessions.Delete(cmd.Context(), sessionID); err != nil {
				fmt.Fprintf(out, "Error removing '%s': %v\n", sessionID, err)
				failed++
				continue
			}
			fmt.Fprintf(out, "Removed session '%s'\n", sessionID)
		}
		if failed > 0 {
			return fmt.Errorf("failed to remove %d session(s)", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)

	sessionInspectCmd.Flags().Bool("redact", false, "Mask personal answers (name, age, health data)")
}

func openPersistence(cmd *cobra.Command) (*cli.Persistence, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cli.OpenPersistence(cmd.Context(), cfg, logging.NewNop())
}

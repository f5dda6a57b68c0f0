package main

import (
	"errors"
	"os"

	"github.com/aretw0/onboarding/internal/cli"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the onboarding flow in the terminal",
	Long: `Starts an onboarding session on stdin/stdout. With --session the session
is persisted after every answer and resumed on the next run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		sessionID, _ := cmd.Flags().GetString("session")
		fresh, _ := cmd.Flags().GetBool("fresh")
		jsonMode, _ := cmd.Flags().GetBool("json")
		debug, _ := cmd.Flags().GetBool("debug")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		err = cli.Execute(sigCtx, cli.RunOptions{
			Config:    cfg,
			SessionID: sessionID,
			Fresh:     fresh,
			JSON:      jsonMode,
			Debug:     debug,
			NoBanner:  !term.IsTerminal(int(os.Stdout.Fd())),
			In:        cmd.InOrStdin(),
			Out:       cmd.OutOrStdout(),
		})
		if errors.Is(err, cli.ErrInterrupted) && sigCtx.Signal() != nil {
			// Stopped by the user; the session was saved.
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("locale", "", "Locale of new sessions (fr or us)")
	runCmd.Flags().StringP("session", "s", "", "Session ID to create or resume")
	runCmd.Flags().Bool("fresh", false, "Discard the stored session before starting")
	runCmd.Flags().Bool("json", false, "Run in JSON mode (JSON Lines input/output)")
	runCmd.Flags().Bool("revert-on-back", false, "Going back restores the answers of the revisited step")
	runCmd.Flags().Bool("debug", false, "Enable debug logging")
}

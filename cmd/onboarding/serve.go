package main

import (
	"github.com/aretw0/onboarding/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves onboarding sessions as a JSON API over HTTP, with server-sent
events per session and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		debug, _ := cmd.Flags().GetBool("debug")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		return cli.Serve(sigCtx, cfg, cli.NewLogger(cfg, debug), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (default from config, :8080)")
	serveCmd.Flags().String("locale", "", "Locale of sessions created without one (fr or us)")
	serveCmd.Flags().Bool("revert-on-back", false, "Going back restores the answers of the revisited step")
	serveCmd.Flags().Bool("debug", false, "Enable debug logging")
}

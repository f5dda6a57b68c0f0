package main

import (
	"fmt"
	"os"

	"github.com/aretw0/onboarding/internal/config"
	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "onboarding",
	Short: "Onboarding runs the adaptive wellness questionnaire",
	Long: `Onboarding drives a multi-step questionnaire whose path adapts to the
answers given so far. Run it in the terminal, headless over JSON Lines, or
serve it over HTTP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultPath, "Configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().String("flow", "", "Flow to use (wellness or legacy)")
	rootCmd.PersistentFlags().String("sessions-dir", "", "Directory of the file session store")
	rootCmd.PersistentFlags().String("redis", "", "Redis address; sessions are stored there when set")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}

// loadConfig reads the configuration file and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("flow") {
		cfg.Flow, _ = flags.GetString("flow")
	}
	if flags.Changed("sessions-dir") {
		cfg.SessionsDir, _ = flags.GetString("sessions-dir")
	}
	if flags.Changed("redis") {
		cfg.Redis.Addr, _ = flags.GetString("redis")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if f := flags.Lookup("locale"); f != nil && f.Changed {
		cfg.Locale = domain.Locale(f.Value.String())
	}
	if f := flags.Lookup("addr"); f != nil && f.Changed {
		cfg.HTTP.Addr = f.Value.String()
	}
	if f := flags.Lookup("revert-on-back"); f != nil && f.Changed {
		cfg.RevertOnBack, _ = flags.GetBool("revert-on-back")
	}
	return cfg, cfg.Validate()
}

package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/onboarding"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of onboarding",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "onboarding version %s\n", strings.TrimSpace(onboarding.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

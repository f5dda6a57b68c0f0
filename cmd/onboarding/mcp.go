package main

import (
	"fmt"
	"log"
	"os"

	"github.com/aretw0/onboarding/internal/cli"
	"github.com/aretw0/onboarding/internal/logging"
	"github.com/aretw0/onboarding/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes onboarding sessions as MCP tools, so an AI agent can walk a user
through the questionnaire.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Logs never go to stdout: it carries JSON-RPC on stdio.
		level, _ := logging.ParseLevel(cfg.LogLevel)
		logger := logging.NewWithWriter(os.Stderr, level, cfg.LogFormat)
		log.SetOutput(os.Stderr)

		engine, err := cli.BuildEngine(cfg, logger)
		if err != nil {
			return err
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		p, err := cli.OpenPersistence(sigCtx, cfg, logger)
		if err != nil {
			return err
		}
		defer p.Close()

		srv := mcp.NewServer(engine, p.Sessions, logger)

		switch transport {
		case "stdio":
			logger.Info("Starting onboarding MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("Starting onboarding MCP server (SSE)", "port", port)
			addr := fmt.Sprintf(":%d", port)
			if err := srv.ServeSSE(sigCtx, addr, fmt.Sprintf("http://localhost:%d", port)); err != nil {
				return err
			}
			logger.Info("MCP server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8081, "Port to listen on (only for SSE)")
}

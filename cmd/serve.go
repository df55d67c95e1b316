package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/reqpilot/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the requirements interview and document assessment tools to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		provider, err := createProviderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}

		engine, database, err := buildEngine(cfg, provider)
		if err != nil {
			return err
		}
		defer database.Close()

		memStore, err := setupMemory(cfg)
		if err != nil {
			return err
		}
		if memStore != nil {
			engine.SetRecorder(memStore)
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "reqpilot MCP server started on stdio (provider=%s, data=%s)\n",
			provider.Name(), cfg.DataDir)

		srv := mcpserver.NewServer(engine)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

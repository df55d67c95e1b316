package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/reqpilot/internal/chat"
	"github.com/ziadkadry99/reqpilot/internal/memory"
	"github.com/ziadkadry99/reqpilot/internal/quality"
	"github.com/ziadkadry99/reqpilot/internal/render"
	"github.com/ziadkadry99/reqpilot/internal/server"
	"github.com/ziadkadry99/reqpilot/internal/session"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the reqpilot HTTP server",
	Long:  `Starts the reqpilot server with the session REST API, websocket interview chat, summary preview and document assessment endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serverPort == 0 {
			serverPort = cfg.Port
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

		srv := server.New(server.Config{
			Port:        serverPort,
			DataDir:     cfg.DataDir,
			AllowAll:    true,
			LogRequests: verbose,
		}, database, engine, provider)

		registerAllRoutes(srv, engine, memStore)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			if memStore != nil {
				if err := memStore.Persist(context.Background(), cfg.DataDir); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: persisting digest memory: %v\n", err)
				}
			}
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "reqpilot server v%s starting on port %d\n", Version, serverPort)
		fmt.Fprintf(os.Stderr, "  Provider: %s (%s)\n", provider.Name(), cfg.Model)
		fmt.Fprintf(os.Stderr, "  Data: %s\n", cfg.DataDir)
		if memStore != nil {
			fmt.Fprintf(os.Stderr, "  Digest memory: %d entries\n", memStore.Count())
		}

		return srv.Start()
	},
}

// registerAllRoutes wires up all feature routes.
func registerAllRoutes(srv *server.Server, engine *session.Engine, memStore *memory.Store) {
	r := srv.Router()

	session.RegisterRoutes(r, engine)
	quality.RegisterRoutes(r)
	render.RegisterRoutes(r, engine)
	chat.NewHandler(engine).RegisterRoutes(r)

	if memStore != nil {
		memory.RegisterRoutes(r, memStore)
	}
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 0, "Port to listen on (defaults to the configured port)")
	rootCmd.AddCommand(serverCmd)
}

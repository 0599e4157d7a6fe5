package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jaylee-quant/divscan/internal/api"
	"github.com/jaylee-quant/divscan/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the screener API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                        - Health check
  GET  /api/stocks                    - Screener results, sorted by market cap
  GET  /api/stocks/{symbol}/dividends - One symbol's dividend detail
  POST /api/collect                   - Trigger collection or analysis
  GET  /api/stream                    - WebSocket progress stream

Example:
  go run ./cmd/divscan api
  go run ./cmd/divscan api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== divscan API Server ===")

	app, err := initApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if apiPort != "" {
		app.cfg.Port = apiPort
	}

	log := app.logger

	log.WithFields(map[string]interface{}{
		"port": app.cfg.Port,
		"env":  app.cfg.Env,
	}).Info("Initializing API server")

	// Wire progress events into the WebSocket stream
	stream := api.NewStream(log)
	defer stream.Close()
	app.collector.WithProgress(stream.Publish)

	stockHandler := handlers.NewStockHandler(app.repo, app.collector, log)
	collectHandler := handlers.NewCollectHandler(app.collector, log)

	router := api.NewRouter(stockHandler, collectHandler, stream, log)
	server := api.New(app.cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", app.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/stocks")
	fmt.Println("  GET  /api/stocks/{symbol}/dividends")
	fmt.Println("  POST /api/collect")
	fmt.Println("  GET  /api/stream")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

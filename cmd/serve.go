package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/docshell/internal/config"
	"github.com/conneroisu/docshell/internal/logging"
	"github.com/conneroisu/docshell/internal/server"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the documentation server",
	Long: `Start the documentation server with lazy content loading and live reload.

Examples:
  docshell serve                        # Serve with the built-in catalog
  docshell serve --content ./docs       # Serve fragments from ./docs
  docshell serve --catalog catalog.yml  # Use a catalog manifest`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Port to serve on")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().String("content", "./content", "Directory holding topic HTML fragments")
	serveCmd.Flags().String("catalog", "", "Catalog manifest file (default: built-in catalog)")
	serveCmd.Flags().Bool("no-reload", false, "Disable the content watcher and live reload")

	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("content.dir", serveCmd.Flags().Lookup("content"))
	viper.BindPFlag("content.catalog", serveCmd.Flags().Lookup("catalog"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if noReload, _ := cmd.Flags().GetBool("no-reload"); noReload {
		cfg.Development.HotReload = false
	}

	logger := logging.NewLogger(&logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info(ctx, "shutting down server")
		if shutdownErr := srv.Shutdown(ctx); shutdownErr != nil {
			logger.Error(ctx, shutdownErr, "server shutdown failed")
		}
		cancel()
	}()

	fmt.Printf("Serving %d topics at http://%s\n", srv.Catalog().Count(), cfg.Addr())

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

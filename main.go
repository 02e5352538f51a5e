package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cyderes/post-viewer/internal/api"
	"github.com/cyderes/post-viewer/internal/config"
	"github.com/cyderes/post-viewer/internal/page"
	"github.com/cyderes/post-viewer/internal/server"
	"github.com/cyderes/post-viewer/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "post-viewer",
	Short: "Browse placeholder-API users, their posts and comments",
	Long: `post-viewer renders the posts of a selected user, each with its author
and a collapsible comment section, from the JSONPlaceholder REST API.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the posts page over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var renderUser int

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the posts page for one user to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		p := page.New(api.NewClient(cfg.API), cfg.API.FetchConcurrency, nil)
		p.InitPage(cmd.Context())
		p.SelectChange(cmd.Context(), renderUser)
		return p.Render(cmd.OutOrStdout())
	},
}

func init() {
	renderCmd.Flags().IntVarP(&renderUser, "user", "u", page.DefaultUserID, "user id whose posts are rendered")
	rootCmd.AddCommand(serveCmd, renderCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize refresh log storage
	store, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	client := api.NewClient(cfg.API)
	p := page.New(client, cfg.API.FetchConcurrency, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if users := p.InitPage(ctx); users != nil {
		log.Printf("Loaded %d users", len(users))
	}

	httpServer := server.NewServer(cfg.Server, p, store)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on port %d", cfg.Server.Port)
		errChan <- httpServer.Start()
	}()

	select {
	case <-sigChan:
		log.Println("Shutdown signal received, gracefully shutting down...")
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/centauri/internal/api"
	"github.com/ppiankov/centauri/internal/mcpserver"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API over HTTP",
	Long: `Serve exposes the analysis over HTTP:
  GET  /health
  POST /api/v1/analyze      article body plus optional keyword fields
  POST /api/v1/analyze/url  fetch a published page and analyze it
  GET  /api/v1/rules        recommendation thresholds

Example:
  centauri serve --addr :8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the analysis as MCP tools over stdio",
	Long: `MCP starts a Model Context Protocol server on stdin/stdout with the
analyze_article and analyze_url tools. Logs go to stderr.

Example:
  centauri mcp`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	addClassifierFlags(serveCmd)
	addClassifierFlags(mcpCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := configFromFlags(cmd)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	p, err := newPipeline(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "✓ Centauri API listening on %s\n", cfg.Server.Addr)
	return api.NewServer(p, cfg.Server, Version).Run(ctx, cfg.Server.Addr)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := configFromFlags(cmd)
	if err != nil {
		return err
	}

	p, err := newPipeline(context.Background(), cfg)
	if err != nil {
		return err
	}

	if err := mcpserver.ServeStdio(p, Version); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

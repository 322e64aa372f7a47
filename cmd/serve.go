package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"agendabot/internal/googleauth"
	"agendabot/internal/instrumentation"
	"agendabot/internal/logging"
	"agendabot/internal/server"
	"agendabot/internal/tools/calendar_tools"
)

var (
	serveTransport      string
	serveHTTPAddr       string
	serveYolo           bool
	serveMetricsEnabled bool
	serveMetricsAddr    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server exposing the calendar tool",
	Long: `Run an MCP server that exposes the calendar tool with the actions
today, auth and create. The server requests the read-only calendar scope
unless --yolo grants read-write, which the create action needs.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveTransport, "transport", "stdio", "transport: stdio or streamable-http")
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http-addr", ":8080", "bind address for the streamable-http transport")
	serveCmd.Flags().BoolVar(&serveYolo, "yolo", false, "request the read-write calendar scope")
	serveCmd.Flags().BoolVar(&serveMetricsEnabled, "metrics-enabled", true, "enable OpenTelemetry instrumentation")
	serveCmd.Flags().StringVar(&serveMetricsAddr, "metrics-addr", server.DefaultMetricsAddr, "bind address for the Prometheus metrics server")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scopes := []string{googleauth.ScopeReadOnly}
	if serveYolo {
		scopes = []string{googleauth.ScopeReadWrite}
	}
	a, err := newApp(scopes...)
	if err != nil {
		return err
	}

	instConfig := instrumentation.DefaultConfig()
	instConfig.ServiceVersion = version
	if !serveMetricsEnabled {
		instConfig.Enabled = false
	}
	if err := instConfig.Validate(); err != nil {
		return fmt.Errorf("invalid instrumentation config: %w", err)
	}

	provider, err := instrumentation.NewProvider(ctx, instConfig)
	if err != nil {
		return fmt.Errorf("initializing instrumentation: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	// The stdio transport owns stdout, so the scrape endpoint only runs for
	// the HTTP transport.
	if serveTransport != "stdio" && provider.Enabled() && instConfig.MetricsExporter == instrumentation.ExporterPrometheus {
		metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
			Addr:     serveMetricsAddr,
			Provider: provider,
		})
		if err != nil {
			return fmt.Errorf("creating metrics server: %w", err)
		}

		ready := make(chan struct{})
		startErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(ready); err != nil && !errors.Is(err, http.ErrServerClosed) {
				startErr <- err
			}
		}()
		select {
		case <-ready:
			a.logger.Info("metrics server listening", "addr", metricsServer.Addr())
		case err := <-startErr:
			return fmt.Errorf("starting metrics server: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("metrics server shutdown failed", logging.Err(err))
			}
		}()
	}

	metrics := provider.Metrics()
	a.creds.SetRefreshHook(func(success bool) {
		result := instrumentation.OAuthResultSuccess
		if !success {
			result = instrumentation.OAuthResultFailure
		}
		metrics.RecordOAuthTokenRefresh(context.Background(), result)
	})

	sc := server.NewServerContext(ctx, server.Options{
		Config:   a.conf,
		Creds:    a.creds,
		Resolver: a.resolver,
		Logger:   a.logger,
		Metrics:  metrics,
		Audit:    instrumentation.NewAuditLogger(a.logger, instConfig.AuditLogging),
	})
	defer func() { _ = sc.Shutdown() }()

	s := mcpserver.NewMCPServer("agendabot", version,
		mcpserver.WithToolCapabilities(true),
	)
	if err := calendar_tools.RegisterCalendarTools(s, sc); err != nil {
		return fmt.Errorf("registering calendar tools: %w", err)
	}

	switch serveTransport {
	case "stdio":
		return runStdioServer(ctx, s, a.logger)
	case "streamable-http":
		return runStreamableHTTPServer(ctx, s, a.logger)
	default:
		return fmt.Errorf("unknown transport %q, must be stdio or streamable-http", serveTransport)
	}
}

func runStdioServer(ctx context.Context, s *mcpserver.MCPServer, logger *slog.Logger) error {
	logger.Info("starting MCP server on stdio")

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- mcpserver.ServeStdio(s)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down MCP server")
		return nil
	case err := <-serverDone:
		return err
	}
}

func runStreamableHTTPServer(ctx context.Context, s *mcpserver.MCPServer, logger *slog.Logger) error {
	httpServer := mcpserver.NewStreamableHTTPServer(s,
		mcpserver.WithEndpointPath("/mcp"),
	)

	serverDone := make(chan error, 1)
	go func() {
		logger.Info("starting MCP server over streamable HTTP", "addr", serveHTTPAddr)
		serverDone <- httpServer.Start(serveHTTPAddr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down MCP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-serverDone:
		return err
	}
}

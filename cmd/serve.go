package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mzapi/internal/pkg/telemetry"
	"mzapi/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API gateway",
	Long:  `Start the MZAPI gateway with the specified configuration.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()

	// Server flags
	flags.StringP("host", "H", "0.0.0.0", "server host")
	flags.IntP("port", "p", 3000, "server port")
	flags.String("mode", "release", "server mode (debug/release/test)")

	// Gateway flags
	flags.Int("max-body-size-mb", 10, "max request body size in MB")
	flags.Int("request-timeout-ms", 30000, "request processing timeout in milliseconds")

	// Admin flags
	flags.String("metrics-addr", ":9090", "admin listener address for /metrics, /health, /ready (empty to disable)")

	// Log flags
	flags.String("log-level", "", "log level (trace/debug/info/warn/error/fatal), derived from log.env when empty")
	flags.String("log-format", "console", "log format (json/console)")

	// Bind flags to viper
	_ = viper.BindPFlag("server.host", flags.Lookup("host"))
	_ = viper.BindPFlag("server.port", flags.Lookup("port"))
	_ = viper.BindPFlag("server.mode", flags.Lookup("mode"))
	_ = viper.BindPFlag("gateway.max_body_size_mb", flags.Lookup("max-body-size-mb"))
	_ = viper.BindPFlag("gateway.request_timeout_ms", flags.Lookup("request-timeout-ms"))
	_ = viper.BindPFlag("metrics.addr", flags.Lookup("metrics-addr"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", flags.Lookup("log-format"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	// Validate config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracer, err := telemetry.Init(ctx, &cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to init telemetry: %w", err)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTracer(flushCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown tracer provider")
		}
	}()

	// Create server
	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info().
		Str("addr", addr).
		Str("mode", cfg.Server.Mode).
		Int("max_body_size_mb", cfg.Gateway.MaxBodySizeMB).
		Int("request_timeout_ms", cfg.Gateway.RequestTimeoutMs).
		Msg("starting server")

	return srv.Run(ctx, addr)
}

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/brandkit/internal/config"
	"github.com/jmylchreest/brandkit/internal/server"
)

var (
	// Serve command flags
	serveAddr    string
	serveEnvFile string
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve palette extraction over HTTP",
		Long: `Serve palette extraction over HTTP.

Configuration is read from the environment, after loading a .env file if one
exists. Command-line flags override the environment.

Endpoints:
  POST /extract-colors   multipart field "image"; optional paletteSize and raw
  GET  /health           service status

Environment:
  BRANDKIT_ADDR, PORT, BRANDKIT_MAX_UPLOAD_BYTES, BRANDKIT_PALETTE_SIZE,
  BRANDKIT_MAX_EDGE, BRANDKIT_FILTER, BRANDKIT_SEED, BRANDKIT_READ_TIMEOUT,
  BRANDKIT_WRITE_TIMEOUT, BRANDKIT_LOG_LEVEL`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides BRANDKIT_ADDR and PORT)")
	cmd.Flags().StringVar(&serveEnvFile, "env-file", ".env", "dotenv file to load before reading the environment")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveEnvFile)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	logger := newLogger(cmd, cmd.ErrOrStderr())
	if !cmd.Flags().Changed("log-level") && !globalVerbose && !globalQuiet {
		logger.SetLevel(hclog.LevelFromString(cfg.LogLevel))
	}

	srv, err := server.New(cfg, logger.Named("server"))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx)
}

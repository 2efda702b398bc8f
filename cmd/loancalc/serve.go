package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/iwvelando/loan-calculator/internal/server"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	serverConfig string
	addr         string
	maxBodySize  string
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	serveOpts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web calculator and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts, serveOpts)
		},
	}
	cmd.Flags().StringVar(&serveOpts.serverConfig, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&serveOpts.addr, "addr", "", "listen address override")
	cmd.Flags().StringVar(&serveOpts.maxBodySize, "max-body-size", "", "request body limit override, e.g. 64K")
	return cmd
}

func runServe(ctx context.Context, opts *rootOptions, serveOpts *serveOptions) error {
	cfg, err := server.LoadConfig(serveOpts.serverConfig)
	if err != nil {
		return err
	}
	if serveOpts.addr != "" {
		cfg.Address = serveOpts.addr
	}
	if serveOpts.maxBodySize != "" {
		size, err := server.ParseSize(serveOpts.maxBodySize)
		if err != nil {
			return err
		}
		cfg.SetBodySizeBytes(size)
	}

	logger, err := initializeLogger(cfg.Logging, opts.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	serverVersion := version
	if strings.TrimSpace(cfg.Version) != "" {
		serverVersion = cfg.Version
	}

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           server.NewHandler(logger, cfg.BodySizeBytes(), serverVersion),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting web server",
			zap.String("op", "main.serve"),
			zap.String("address", cfg.Address),
			zap.Int64("maxBodySize", cfg.BodySizeBytes()),
			zap.String("version", serverVersion),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("shutting down web server",
			zap.String("op", "main.serve"),
		)
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

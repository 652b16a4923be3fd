package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/BartekS5/twinren/internal/archive"
	"github.com/BartekS5/twinren/internal/config"
	"github.com/BartekS5/twinren/internal/web"
	"github.com/BartekS5/twinren/pkg/logger"
)

type ServeOptions struct {
	Port string
}

func NewServeCmd() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the upload web form",
		Long: `Start an HTTP server with an upload form. Images and a mapping file are
processed in a fresh temporary directory per request and the renamed copies
are returned as a zip download. Settings come from the environment (.env).`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runServe(c, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Port, "port", "p", "", "Listen address, overrides PORT")
	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if opts.Port != "" {
		cfg.Port = opts.Port
	}

	log, err := logger.NewFile(cfg.LogFile, logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		return err
	}
	defer log.Close()

	store, err := newArchiveStore(cfg.Archive, log)
	if err != nil {
		return err
	}

	handler := &web.Handler{
		Store:    store,
		Exts:     cfg.AllowedExts,
		MaxBytes: cfg.MaxUploadBytes,
		Log:      log,
	}
	srv := web.NewServer(cfg.Port, handler.Routes(), log)
	log.Infof("Environment: %s", cfg.Env)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Infof("Shutting down upload server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func newArchiveStore(cfg config.ArchiveConfig, log *logger.Logger) (archive.Store, error) {
	if cfg.S3.Enabled() {
		log.Infof("Archives stored in bucket %s at %s", cfg.S3.Bucket, cfg.S3.Endpoint)
		return archive.NewS3Store(archive.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			UseSSL:    cfg.S3.UseSSL,
			URLExpiry: cfg.S3.URLExpiry,
		})
	}
	log.Infof("Archives kept in memory (last %d uploads, %d MB max)", cfg.CacheSize, cfg.CacheBytes>>20)
	return archive.NewMemoryStore(cfg.CacheSize, cfg.CacheBytes)
}

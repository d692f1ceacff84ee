package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomsilver/streamspec"
	httpAdapter "github.com/tomsilver/streamspec/internal/adapters/http"
	"github.com/tomsilver/streamspec/internal/config"
	"github.com/tomsilver/streamspec/internal/validator"
	"github.com/tomsilver/streamspec/pkg/adapters/memory"
	"github.com/tomsilver/streamspec/pkg/adapters/redis"
	"github.com/tomsilver/streamspec/pkg/ports"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "Serve the definition over HTTP",
	Long: `Loads the stream file and exposes it as a JSON API: the definition, its
streams, a Mermaid graph, a validation endpoint, and a shared fact store
(in-memory by default, Redis when configured).`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(cmd, args); err != nil {
			fatalf("Server error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("config", "c", "streamspec.yaml", "Config file path")
	serveCmd.Flags().String("listen", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		cfg.Listen = listen
	}
	if strict, _ := cmd.Flags().GetBool("strict"); strict {
		cfg.Strict = true
	}
	if primitives, _ := cmd.Flags().GetStringSlice("primitives"); len(primitives) > 0 {
		cfg.Primitives = append(cfg.Primitives, primitives...)
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	validation := validator.Options{
		Primitives: cfg.PrimitiveSet(),
		Strict:     cfg.Strict,
	}

	loadOpts := []streamspec.Option{streamspec.WithLogger(logger)}
	if cfg.Strict {
		loadOpts = append(loadOpts, streamspec.WithStrict())
	}
	if len(cfg.Primitives) > 0 {
		loadOpts = append(loadOpts, streamspec.WithPrimitives(cfg.Primitives...))
	}

	path := resolvePath(args)
	def, err := streamspec.LoadFile(path, loadOpts...)
	if err != nil {
		return err
	}

	var store ports.FactStore
	if cfg.Redis.Address != "" {
		var opts []redis.Option
		if cfg.Redis.Key != "" {
			opts = append(opts, redis.WithKey(cfg.Redis.Key))
		}
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Redis.TTL))
		}
		rstore := redis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, opts...)
		defer rstore.Close()
		store = rstore
		logger.Info("using redis fact store", "address", cfg.Redis.Address)
	} else {
		store = memory.NewStore()
	}

	handler := httpAdapter.NewHandler(&httpAdapter.Server{
		Definition: def,
		Validation: validation,
		Logger:     logger,
		Version:    streamspec.Version,
		Facts:      store,
	})

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: handler,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "definition", def.Name, "file", path)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err

	case sig := <-shutdown:
		logger.Info("shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			if closeErr := srv.Close(); closeErr != nil {
				return fmt.Errorf("shutdown: %w (close: %v)", err, closeErr)
			}
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("server stopped")
	}
	return nil
}

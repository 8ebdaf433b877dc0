package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/catsort"
	"github.com/aretw0/catsort/internal/cli"
	"github.com/aretw0/catsort/internal/config"
	"github.com/aretw0/catsort/internal/presentation/tui"
	httpAdapter "github.com/aretw0/catsort/pkg/adapters/http"
	redisAdapter "github.com/aretw0/catsort/pkg/adapters/redis"
	"github.com/aretw0/catsort/pkg/observability"
	"github.com/aretw0/catsort/pkg/trigger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts catsort in server mode, exposing a JSON API over HTTP.
The config file is watched and the engine is rebuilt when it changes.
With server.redis_addr set, group requests for one view are serialized
across instances through a Redis lock.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); cmd.Flags().Changed("addr") {
			cfg.Server.Addr = addr
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)
		hooks := metrics.Hooks().Merge(observability.LogHooks(logger))
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			hooks = hooks.Merge(cli.DebugHooks(logger))
		}

		engine, err := cli.NewReloadingEngine(cfg, logger, hooks)
		if err != nil {
			return err
		}

		managerOpts := []trigger.ManagerOption{
			trigger.WithManagerLogger(logger),
			trigger.WithLockTTL(cfg.Server.LockTTL),
		}
		if cfg.Server.RedisAddr != "" {
			client := redis.NewClient(&redis.Options{Addr: cfg.Server.RedisAddr})
			defer client.Close()
			if err := client.Ping(cmd.Context()).Err(); err != nil {
				return fmt.Errorf("redis at %s: %w", cfg.Server.RedisAddr, err)
			}
			managerOpts = append(managerOpts, trigger.WithLocker(redisAdapter.NewLocker(client, "catsort:")))
			logger.Info("Distributed locking enabled", "redis", cfg.Server.RedisAddr)
		}

		handler := httpAdapter.NewHandler(engine,
			httpAdapter.WithManager(trigger.NewManager(managerOpts...)),
			httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})),
			httpAdapter.WithLogger(logger),
			httpAdapter.WithVersion(catsort.Version),
		)
		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()
		g, ctx := errgroup.WithContext(sc)

		stderr := cmd.ErrOrStderr()
		tui.PrintBanner(stderr, catsort.Version)

		g.Go(func() error {
			logger.Info("Starting catsort server", "addr", srv.Addr)
			cli.PrintSystemMessage(stderr, "Listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				return srv.Close()
			}
			return nil
		})

		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.DefaultPath
		}
		g.Go(func() error {
			return config.Watch(ctx, logger, []string{configPath}, func(string) {
				next, err := readConfig(cmd)
				if err == nil {
					err = engine.Reload(next)
				}
				if err != nil {
					logger.Warn("Config reload failed, keeping previous engine", "path", configPath, "err", err)
					return
				}
				logger.Info("Config reloaded", "path", configPath, "strategies", engine.Strategies())
			})
		})

		err = g.Wait()
		if sig := sc.Signal(); sig != nil {
			cli.PrintSystemMessage(stderr, "Server stopped (%v)", sig)
		}
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addEngineFlags(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (overrides server.addr)")
}

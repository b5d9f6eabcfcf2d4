package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"deliveryflow/pkg/api"
	"deliveryflow/pkg/config"
	"deliveryflow/pkg/customer"
	custmem "deliveryflow/pkg/customer/memory"
	custpg "deliveryflow/pkg/customer/postgres"
	"deliveryflow/pkg/database"
	"deliveryflow/pkg/logger"
	"deliveryflow/pkg/order"
	"deliveryflow/pkg/order/cache"
	ordermem "deliveryflow/pkg/order/memory"
	orderpg "deliveryflow/pkg/order/postgres"
	"deliveryflow/pkg/otel"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	log := logger.New(os.Stdout, level, cfg.Service, otel.GetTraceID)
	defer log.Sync()

	tp, shutdownTracing, err := otel.InitTracing(log, otel.Config{
		ServiceName: cfg.Service,
		Host:        cfg.Tracing.Host,
		Probability: cfg.Tracing.Probability,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer shutdownTracing(context.Background())

	var (
		customerRepo customer.Repository
		orderRepo    order.Repository
		pinger       api.Pinger
	)
	switch cfg.Storage {
	case config.StorageMemory:
		customers := custmem.New()
		orders := ordermem.New(customers)
		customers.GuardWith(orders)
		customerRepo, orderRepo = customers, orders
		log.Warn(ctx, "using in-memory storage, data is lost on exit")
	default:
		db, err := database.Open(ctx, cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.EnsureSchema(ctx, db); err != nil {
			return err
		}
		customerRepo, orderRepo, pinger = custpg.New(db), orderpg.New(db), db
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn(ctx, "redis unreachable, cache will fall back to storage", "addr", cfg.Redis.Addr, "error", err)
		}
		orderRepo = cache.New(orderRepo, client, cfg.Redis.TTL, log)
		log.Info(ctx, "order cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}

	customers := customer.NewService(customerRepo, log)
	orders := order.NewService(orderRepo, customers, log)
	handler := api.NewHandler(customers, orders, pinger, log, tp.Tracer(cfg.Service))

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler.Routes(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", cfg.HTTP.Addr, "tls", cfg.HTTP.TLS())
		if cfg.HTTP.TLS() {
			errCh <- srv.ListenAndServeTLS(cfg.HTTP.TLSCert, cfg.HTTP.TLSKey)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server closed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

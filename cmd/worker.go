package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-CleaningBooking/internal/infra/queue"
	"github.com/m04kA/SMC-CleaningBooking/pkg/metrics"
)

func newWorkerCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run a standalone worker that retries persistence of paid bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Close()

			if !cfg.Queue.Enabled {
				return fmt.Errorf("queue is disabled in %s", *configPath)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Методы *metrics.Metrics допускают nil получатель
			var metricsCollector *metrics.Metrics
			var metricsSrv *http.Server
			if cfg.Metrics.Enabled {
				metricsCollector = metrics.New(cfg.Metrics.ServiceName + "-worker")

				r := mux.NewRouter()
				r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
				metricsSrv = &http.Server{
					Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
					Handler:      r,
					ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
					WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
				}
				go func() {
					log.Info("Worker metrics exposed at :%d%s", cfg.Server.HTTPPort, cfg.Metrics.Path)
					if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error("Metrics server failed: %v", err)
					}
				}()
			}

			db, err := openDB(ctx, cfg.Database, log)
			if err != nil {
				return err
			}
			defer db.Close()

			store := newPersistence(db, cfg, log)

			// Сессии мастера живут в процессе serve; повторный RetryPersistence
			// вернет тот же id по payment_transaction_id
			handler := queue.NewPersistHandler(store.save, nil, metricsCollector, log)
			srv, queueMux := queue.NewServer(queueRedisOpt(cfg), cfg.Queue.Name, cfg.Queue.Concurrency, handler)
			if err := srv.Start(queueMux); err != nil {
				return fmt.Errorf("failed to start queue worker: %w", err)
			}
			log.Info("Queue worker started (queue=%s, concurrency=%d)", cfg.Queue.Name, cfg.Queue.Concurrency)

			<-ctx.Done()

			log.Info("Shutting down queue worker...")
			srv.Shutdown()
			if metricsSrv != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
				defer cancel()
				_ = metricsSrv.Shutdown(shutdownCtx)
			}
			log.Info("Queue worker stopped gracefully")
			return nil
		},
	}
}

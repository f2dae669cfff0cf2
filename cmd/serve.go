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
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	getAvailableSlotsHandler "github.com/m04kA/SMC-CleaningBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-CleaningBooking/internal/api/handlers/get_booking"
	getBookingsHandler "github.com/m04kA/SMC-CleaningBooking/internal/api/handlers/get_bookings"
	getQuoteHandler "github.com/m04kA/SMC-CleaningBooking/internal/api/handlers/get_quote"
	listServicesHandler "github.com/m04kA/SMC-CleaningBooking/internal/api/handlers/list_services"
	renderEmailHandler "github.com/m04kA/SMC-CleaningBooking/internal/api/handlers/render_email"
	wizardSessionHandler "github.com/m04kA/SMC-CleaningBooking/internal/api/handlers/wizard_session"
	"github.com/m04kA/SMC-CleaningBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CleaningBooking/internal/autocomplete"
	"github.com/m04kA/SMC-CleaningBooking/internal/config"
	"github.com/m04kA/SMC-CleaningBooking/internal/infra/cache"
	"github.com/m04kA/SMC-CleaningBooking/internal/infra/queue"
	catalogRepo "github.com/m04kA/SMC-CleaningBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-CleaningBooking/internal/integrations/geocoding"
	"github.com/m04kA/SMC-CleaningBooking/internal/integrations/iplocation"
	"github.com/m04kA/SMC-CleaningBooking/internal/integrations/payment"
	"github.com/m04kA/SMC-CleaningBooking/internal/migrate"
	bookingsService "github.com/m04kA/SMC-CleaningBooking/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-CleaningBooking/internal/service/catalog"
	getAvailableSlotsUC "github.com/m04kA/SMC-CleaningBooking/internal/usecase/get_available_slots"
	getQuoteUC "github.com/m04kA/SMC-CleaningBooking/internal/usecase/get_quote"
	"github.com/m04kA/SMC-CleaningBooking/internal/wizard"
	"github.com/m04kA/SMC-CleaningBooking/pkg/logger"
	"github.com/m04kA/SMC-CleaningBooking/pkg/metrics"
)

func newServeCmd(configPath *string) *cobra.Command {
	var (
		migrateUp   bool
		syncCatalog bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, wizard sessions and the embedded retry worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Close()

			return serve(cfg, log, migrateUp, syncCatalog)
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", false, "apply database migrations on startup")
	cmd.Flags().BoolVar(&syncCatalog, "sync-catalog", false, "upsert the configured catalog into the database on startup")
	return cmd
}

func serve(cfg *config.Config, log *logger.Logger, migrateUp, syncCatalog bool) error {
	log.Info("Starting cleaning booking service...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := openDB(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if migrateUp {
		applied, err := migrate.Up(ctx, db, log)
		if err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		log.Info("Migrations applied: %d", applied)
	}

	// Репозитории, каталог и сохранение бронирований
	store := newPersistence(db, cfg, log)
	catalogSvc := catalogService.NewService(catalogRepo.NewRepository(db), cfg.CatalogServices(), log)
	if syncCatalog {
		n, err := catalogSvc.Sync(ctx)
		if err != nil {
			return fmt.Errorf("failed to sync catalog: %w", err)
		}
		log.Info("Catalog synced: %d services", n)
	}

	// Календарь бригад (getRealAvailability)
	calendar := getAvailableSlotsUC.NewUseCase(store.bookings, cfg.Calendar.ToDomain(), nil, log)

	// Геокодер с кэшем подсказок в redis
	var geocoder autocomplete.Geocoder = geocoding.NewClient(
		cfg.Geocoding.BaseURL,
		cfg.Geocoding.APIKey,
		cfg.Geocoding.Country,
		cfg.Geocoding.Language,
		time.Duration(cfg.Geocoding.Timeout)*time.Second,
		log,
	)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.CacheDB)
		if err != nil {
			log.Warn("Redis cache unavailable, geocoding without cache: %v", err)
		} else {
			defer redisClient.Close()
			geocoder = cache.NewCachedGeocoder(geocoder, redisClient, time.Duration(cfg.Redis.CacheTTL)*time.Second, log)
			log.Info("Geocoding cache enabled (redis=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.CacheDB)
		}
	}

	// Определение местоположения по IP (запасной вариант для "use current location")
	var ipLocator wizardSessionHandler.IPLocator
	if cfg.IPLocation.Enabled {
		ipLocator = iplocation.NewClient(cfg.IPLocation.BaseURL, time.Duration(cfg.IPLocation.Timeout)*time.Second, log)
		log.Info("IP location fallback enabled")
	}

	// Платежный шлюз
	var payments wizard.PaymentProcessor
	switch cfg.Payment.Provider {
	case "stripe":
		payments = payment.NewClient(cfg.Payment.SecretKey, cfg.Payment.BackendURL, time.Duration(cfg.Payment.Timeout)*time.Second, log)
		log.Info("Payment provider: stripe")
	default:
		payments = payment.NewSandbox(log)
		log.Warn("Payment provider: sandbox, no real charges are made")
	}

	// Очередь повторного сохранения оплаченных бронирований
	var retries wizard.RetryScheduler
	var queueClient *asynq.Client
	if cfg.Queue.Enabled {
		queueClient = asynq.NewClient(queueRedisOpt(cfg))
		defer queueClient.Close()
		retries = queue.NewScheduler(
			queueClient,
			cfg.Queue.Name,
			cfg.Queue.MaxRetry,
			time.Duration(cfg.Queue.RetryDelay)*time.Second,
			log,
		)
		log.Info("Persistence retry queue enabled (queue=%s)", cfg.Queue.Name)
	}

	// nil-интерфейс, если метрики выключены
	var observer wizard.Observer
	if metricsCollector != nil {
		observer = metricsCollector
	}

	// Сессии мастера
	wizardCfg := cfg.WizardSettings()
	registry := wizard.NewRegistry(wizard.Dependencies{
		Catalog:      catalogSvc,
		Availability: calendar,
		Geocoder:     geocoder,
		Payments:     payments,
		Bookings:     store.save,
		Emails:       store.emails,
		Retries:      retries,
		Observer:     observer,
		Logger:       log,
	}, wizardCfg)

	registryDone := make(chan struct{})
	go func() {
		defer close(registryDone)
		_ = registry.Run(ctx, time.Duration(cfg.Wizard.JanitorInterval)*time.Second)
	}()

	// Встроенный worker: отмечает сессии, чье бронирование сохранено повтором
	var queueServer *asynq.Server
	if cfg.Queue.Enabled {
		handler := queue.NewPersistHandler(store.save, registry, metricsCollector, log)
		srv, queueMux := queue.NewServer(queueRedisOpt(cfg), cfg.Queue.Name, cfg.Queue.Concurrency, handler)
		if err := srv.Start(queueMux); err != nil {
			return fmt.Errorf("failed to start queue worker: %w", err)
		}
		queueServer = srv
		log.Info("Embedded queue worker started (concurrency=%d)", cfg.Queue.Concurrency)
	}

	// Сервисы и use cases
	bookingSvc := bookingsService.NewService(store.bookings, store.emails, log)
	quoteUseCase := getQuoteUC.NewUseCase(catalogSvc, log)

	// Handlers
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	getQuote := getQuoteHandler.NewHandler(quoteUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(calendar, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getBookings := getBookingsHandler.NewHandler(bookingSvc, log)
	renderEmail := renderEmailHandler.NewHandler(bookingSvc, log)
	wizardSessions := wizardSessionHandler.NewHandler(registry, ipLocator, wizardCfg.SessionTTL, log)

	rateLimiter := middleware.NewRateLimiter(cfg.Server.AddressRateLimit, cfg.Server.AddressRateBurst, 10*time.Minute, log)
	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				rateLimiter.Cleanup()
			}
		}
	}()

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Каталог и расчеты
	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/quote", getQuote.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Мастер бронирования
	wizardSessions.Register(api, rateLimiter.Middleware())

	// Сохраненные бронирования
	api.HandleFunc("/bookings", getBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/emails/{kind}", renderEmail.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		stop()
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}
	if queueServer != nil {
		queueServer.Shutdown()
		log.Info("Queue worker stopped")
	}
	<-registryDone

	log.Info("Server stopped gracefully")
	return nil
}


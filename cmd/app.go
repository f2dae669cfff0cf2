package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-CleaningBooking/internal/config"
	bookingRepo "github.com/m04kA/SMC-CleaningBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CleaningBooking/internal/integrations/mailer"
	saveBookingUC "github.com/m04kA/SMC-CleaningBooking/internal/usecase/save_booking"
	"github.com/m04kA/SMC-CleaningBooking/pkg/logger"
	"github.com/m04kA/SMC-CleaningBooking/pkg/txmanager"
)

// loadConfig загружает конфигурацию и создает логгер
func loadConfig(path string) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log.Info("Configuration loaded from %s", path)
	return cfg, log, nil
}

// openDB подключается к PostgreSQL и настраивает пул соединений
func openDB(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)", cfg.Host, cfg.Port, cfg.DBName)
	return db, nil
}

// persistence репозиторий бронирований и сохранение оплаченных бронирований
type persistence struct {
	bookings *bookingRepo.Repository
	save     *saveBookingUC.UseCase
	emails   *mailer.Generator
}

func newPersistence(db *sql.DB, cfg *config.Config, log *logger.Logger) *persistence {
	repo := bookingRepo.NewRepository(db)
	txMgr := txmanager.NewTransactionManager(db)

	return &persistence{
		bookings: repo,
		save:     saveBookingUC.NewUseCase(repo, txMgr, cfg.Calendar.Crews, log),
		emails:   mailer.NewGenerator(cfg.Wizard.CompanyName),
	}
}

// queueRedisOpt параметры подключения asynq
func queueRedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.QueueDB,
	}
}

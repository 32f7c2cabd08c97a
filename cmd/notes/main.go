// Package main реализует точку входа службы заметок.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"blocknote/internal/notes/adapters/cache"
	notesHTTP "blocknote/internal/notes/adapters/http"
	"blocknote/internal/notes/adapters/images"
	"blocknote/internal/notes/adapters/postgres"
	"blocknote/internal/notes/app"
	"blocknote/internal/notes/config"
	"blocknote/internal/notes/db"
	"blocknote/pkg/db/redis"
	"blocknote/pkg/logger"
	"blocknote/pkg/resilience"
	"blocknote/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "NOTES_LOGGER_MODE"
	EnvLoggerLevel = "NOTES_LOGGER_LEVEL"
	EnvConfigFile  = "NOTES_ENV_FILE"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDB               = "failed to initialize database"
	ErrCreateRedisClient    = "failed to create Redis client"
	ErrStartHTTPServer      = "failed to start HTTP server"
	ErrShutdown             = "shutdown finished with errors"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "notes service started"
	LogServiceShutdownDone = "notes service shutdown complete"
	LogInitCache           = "initializing hint store"
	LogInitRepo            = "initializing repositories"
	LogInitServices        = "initializing services"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
	LogStoppingHTTP        = "stopping HTTP server"
	LogClosingSessions     = "closing editing sessions"
	LogClosingStorage      = "closing database and Redis connections"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx, os.Getenv(EnvConfigFile))
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		database, err := db.New(ctx, &cfg.Postgres)
		if err != nil {
			log.Error(ctx, ErrInitDB, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitCache)
		redisClient, err := redis.NewClient(ctx, cfg.Redis.ClientConfig())
		if err != nil {
			log.Error(ctx, ErrCreateRedisClient, zap.Error(err))
			database.Close(ctx)
			exitCode = 1
			return
		}

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		log.Info(ctx, LogInitRepo)
		repoFactory := postgres.NewRepositoryFactory(database.Pool())
		blockRepo := repoFactory.BlockRepository()

		log.Info(ctx, LogInitServices)
		imagePipeline := images.NewFilePipeline(cfg.Images.Root)
		blockStore := app.NewBlockStore(blockRepo, imagePipeline)
		catalog := app.NewNoteCatalog(repoFactory.NoteRepository(), repoFactory.CategoryRepository(), blockRepo, imagePipeline)
		hintStore := cache.NewGuardedHintStore(
			cache.NewHintStore(redisClient.Raw()),
			resilience.NewBreaker("redis-hints", resilience.DefaultBreakerConfig()),
		)
		hints := app.NewHintService(hintStore)

		// Отложенные записи сессий переживают отмену контекста запроса.
		editor := app.NewEditor(context.WithoutCancel(ctx), blockStore, catalog, hints, app.EditorOptions{
			TextDebounce: cfg.Editor.TextDebounce,
			ItemDebounce: cfg.Editor.ItemDebounce,
			UndoWindow:   cfg.Editor.UndoWindow,
		})

		log.Info(ctx, LogInitHTTPServer)
		httpApp := fiber.New(fiber.Config{
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			BodyLimit:    cfg.HTTP.BodyLimit,
		})

		notesHTTP.SetupRouter(httpApp, catalog, editor, cfg.Images.UploadDir)

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := httpApp.Listen(cfg.HTTP.GetAddress(), fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
				log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			}
		}()

		// Хуки выполняются параллельно, поэтому порядок остановки собран в одном.
		err = shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(),
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				httpErr := httpApp.ShutdownWithContext(ctx)

				log.Info(ctx, LogClosingSessions)
				sessionsErr := editor.Close(ctx)

				log.Info(ctx, LogClosingStorage)
				database.Close(ctx)
				return multierr.Combine(httpErr, sessionsErr, redisClient.Close())
			},
		)
		if err != nil {
			log.Error(ctx, ErrShutdown, zap.Error(err))
		}

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

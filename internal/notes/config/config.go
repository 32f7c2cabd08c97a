// Package config содержит конфигурацию сервиса заметок.
package config

import (
	"context"

	"go.uber.org/zap"

	pkgconfig "blocknote/pkg/config"
	"blocknote/pkg/logger"
)

const serviceName = "notes"

// Config представляет полную конфигурацию сервиса заметок.
type Config struct {
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	HTTP     HTTPConfig     `yaml:"http"`
	Logging  LoggingConfig  `yaml:"logging"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
	Editor   EditorConfig   `yaml:"editor"`
	Images   ImagesConfig   `yaml:"images"`
}

// Load загружает конфигурацию из envPath (если файл есть) и переменных окружения.
func Load(ctx context.Context, envPath string) (*Config, error) {
	cfg, err := pkgconfig.Load[Config](ctx, serviceName, envPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}

	logger.Log(ctx).Info(ctx, "notes configuration",
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("redis_address", cfg.Redis.GetAddress()),
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("log_level", cfg.Logging.Level),
		zap.Duration("text_debounce", cfg.Editor.TextDebounce),
		zap.Duration("item_debounce", cfg.Editor.ItemDebounce),
		zap.Duration("undo_window", cfg.Editor.UndoWindow),
		zap.String("images_root", cfg.Images.Root),
		zap.String("upload_dir", cfg.Images.UploadDir))

	return cfg, nil
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"blocknote/pkg/logger"
)

// ErrInvalidLogging - неизвестный режим или уровень логирования.
var ErrInvalidLogging = errors.New("invalid logging configuration")

// LoggingConfig содержит настройки логирования.
type LoggingConfig struct {
	Level string `yaml:"level" env:"NOTES_LOGGER_LEVEL" env-default:"info"`
	Mode  string `yaml:"mode" env:"NOTES_LOGGER_MODE" env-default:"development"`
}

// GetEnvironment переводит режим в logger.Environment без учета регистра.
func (l *LoggingConfig) GetEnvironment() logger.Environment {
	if strings.EqualFold(strings.TrimSpace(l.Mode), string(logger.Production)) {
		return logger.Production
	}
	return logger.Development
}

// Validate отклоняет опечатки в режиме и уровне, которые logger иначе
// молча заменил бы на development и info.
func (l *LoggingConfig) Validate() error {
	switch strings.ToLower(strings.TrimSpace(l.Mode)) {
	case string(logger.Development), string(logger.Production):
	default:
		return fmt.Errorf("%w: mode %q", ErrInvalidLogging, l.Mode)
	}

	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: level %q", ErrInvalidLogging, l.Level)
	}
	return nil
}

// Package cache содержит хранилище состояния подсказок на Redis.
package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"blocknote/internal/notes/ports/services"
	"blocknote/pkg/logger"
)

// Ключи состояния подсказок.
const (
	KeySlashUsed          = "notes:ux:slash_used"
	KeySlashHintDismissed = "notes:ux:slash_hint_dismissed"
	KeyBlocksEditedCount  = "notes:ux:blocks_edited_count"
	keyMarkdownHintPrefix = "notes:ux:hint_shown:"
)

const (
	ErrorFailedToGet  = "failed to get hint state from redis"
	ErrorFailedToSet  = "failed to set hint state in redis"
	ErrorFailedToIncr = "failed to increment hint counter in redis"
)

const (
	valueTrue  = "1"
	valueFalse = "0"
)

// HintStore реализует services.HintStore поверх Redis. Значения хранятся без TTL.
type HintStore struct {
	client redis.Cmdable
}

// NewHintStore создает хранилище подсказок.
func NewHintStore(client redis.Cmdable) services.HintStore {
	return &HintStore{client: client}
}

// MarkdownHintKey возвращает ключ флага показа подсказки для типа блока.
func MarkdownHintKey(kind string) string {
	return keyMarkdownHintPrefix + kind
}

func (s *HintStore) getBool(ctx context.Context, key string) (bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		logger.Log(ctx).Error(ctx, ErrorFailedToGet, zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}
	return value == valueTrue, nil
}

func (s *HintStore) setBool(ctx context.Context, key string, value bool) error {
	raw := valueFalse
	if value {
		raw = valueTrue
	}
	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToSet, zap.String("key", key), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}
	return nil
}

// SlashUsed сообщает, пользовался ли пользователь меню "/".
func (s *HintStore) SlashUsed(ctx context.Context) (bool, error) {
	return s.getBool(ctx, KeySlashUsed)
}

// MarkSlashUsed отмечает использование меню и навсегда скрывает подсказку.
func (s *HintStore) MarkSlashUsed(ctx context.Context) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, KeySlashUsed, valueTrue, 0)
		pipe.Set(ctx, KeySlashHintDismissed, valueTrue, 0)
		return nil
	})
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToSet, zap.String("key", KeySlashUsed), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}
	return nil
}

// SlashHintDismissed сообщает, скрыта ли подсказка.
func (s *HintStore) SlashHintDismissed(ctx context.Context) (bool, error) {
	return s.getBool(ctx, KeySlashHintDismissed)
}

// DismissSlashHint скрывает подсказку.
func (s *HintStore) DismissSlashHint(ctx context.Context) error {
	return s.setBool(ctx, KeySlashHintDismissed, true)
}

// BlocksEdited возвращает число отредактированных блоков.
func (s *HintStore) BlocksEdited(ctx context.Context) (int64, error) {
	count, err := s.client.Get(ctx, KeyBlocksEditedCount).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		logger.Log(ctx).Error(ctx, ErrorFailedToGet, zap.String("key", KeyBlocksEditedCount), zap.Error(err))
		return 0, fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}
	return count, nil
}

// IncrementBlocksEdited атомарно увеличивает счетчик и возвращает новое значение.
func (s *HintStore) IncrementBlocksEdited(ctx context.Context) (int64, error) {
	count, err := s.client.Incr(ctx, KeyBlocksEditedCount).Result()
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrorFailedToIncr, zap.Error(err))
		return 0, fmt.Errorf("%s: %w", ErrorFailedToIncr, err)
	}
	return count, nil
}

// MarkdownHintShown сообщает, показывалась ли подсказка для kind.
func (s *HintStore) MarkdownHintShown(ctx context.Context, kind string) (bool, error) {
	return s.getBool(ctx, MarkdownHintKey(kind))
}

// MarkMarkdownHintShown запоминает показ подсказки для kind.
func (s *HintStore) MarkMarkdownHintShown(ctx context.Context, kind string) error {
	return s.setBool(ctx, MarkdownHintKey(kind), true)
}

package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/snowpro-school/schedule-service/internal/model"
)

const (
	dayKeyPrefix = "schedule:day:"
	dayTTL       = 60 * time.Second
)

// ScheduleCache — кэш дневных представлений расписания в Redis.
// Кэш строго best-effort: любая ошибка Redis логируется и трактуется как промах,
// источником истины всегда остаётся БД. Nil-значение ScheduleCache безопасно.
type ScheduleCache struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewScheduleCache(addr string, logger *zap.Logger) *ScheduleCache {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &ScheduleCache{rdb: rdb, logger: logger}
}

func dayKey(date time.Time) string {
	return dayKeyPrefix + date.Format("2006-01-02")
}

// GetDay возвращает закэшированное дневное представление, ok=false при промахе
func (c *ScheduleCache) GetDay(ctx context.Context, date time.Time) ([]*model.SlotView, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, dayKey(date)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("schedule cache get failed", zap.Error(err))
		}
		return nil, false
	}

	var views []*model.SlotView
	if err := json.Unmarshal(data, &views); err != nil {
		c.logger.Warn("schedule cache unmarshal failed", zap.Error(err))
		return nil, false
	}

	return views, true
}

// SetDay кэширует дневное представление
func (c *ScheduleCache) SetDay(ctx context.Context, date time.Time, views []*model.SlotView) {
	if c == nil {
		return
	}

	data, err := json.Marshal(views)
	if err != nil {
		c.logger.Warn("schedule cache marshal failed", zap.Error(err))
		return
	}

	if err := c.rdb.Set(ctx, dayKey(date), data, dayTTL).Err(); err != nil {
		c.logger.Warn("schedule cache set failed", zap.Error(err))
	}
}

// InvalidateDates сбрасывает кэш перечисленных дат
func (c *ScheduleCache) InvalidateDates(ctx context.Context, dates ...time.Time) {
	if c == nil || len(dates) == 0 {
		return
	}

	keys := make([]string, 0, len(dates))
	for _, d := range dates {
		keys = append(keys, dayKey(d))
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("schedule cache invalidate failed", zap.Error(err))
	}
}

// InvalidateAll сбрасывает все дневные ключи. Используется при изменении
// блокировок: они затрагивают неизвестное заранее множество дат.
func (c *ScheduleCache) InvalidateAll(ctx context.Context) {
	if c == nil {
		return
	}

	iter := c.rdb.Scan(ctx, 0, dayKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("schedule cache scan failed", zap.Error(err))
		return
	}

	if len(keys) > 0 {
		if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
			c.logger.Warn("schedule cache invalidate failed", zap.Error(err))
		}
	}
}

// Close закрывает соединение с Redis
func (c *ScheduleCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

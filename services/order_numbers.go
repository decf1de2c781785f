package services

import (
	"context"
	"fmt"
	"time"

	rd "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"barmenu-backend/models"
	"barmenu-backend/utils"
)

// OrderNumberAllocator hands out per-day sequential order numbers (1-based).
// Numbers are unique within a calendar day; the day boundary is local
// midnight.
type OrderNumberAllocator interface {
	Next(ctx context.Context, tx *gorm.DB, day time.Time) (int, error)
}

// DayKey formats the calendar-day bucket for a timestamp.
func DayKey(day time.Time) string {
	return day.Format("2006-01-02")
}

// StartOfDay returns local midnight of the given timestamp.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CounterAllocator increments a per-day counter row inside the caller's
// transaction. The upsert-and-increment keeps numbers unique even with
// concurrent submissions: the row lock serialises them.
type CounterAllocator struct{}

func (CounterAllocator) Next(ctx context.Context, tx *gorm.DB, day time.Time) (int, error) {
	key := DayKey(day)

	counter := models.DayCounter{Day: key, Count: 1}
	if err := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1")}),
	}).Create(&counter).Error; err != nil {
		return 0, fmt.Errorf("increment day counter: %w", err)
	}

	if err := tx.WithContext(ctx).Where("day = ?", key).First(&counter).Error; err != nil {
		return 0, fmt.Errorf("read day counter: %w", err)
	}
	return counter.Count, nil
}

// orderNumberKey names the Redis counter for one calendar day.
func orderNumberKey(day string) string {
	return fmt.Sprintf("barmenu:orders:day:%s", day)
}

// RedisAllocator uses a Redis INCR per day key. Atomic across processes,
// useful when several backend instances share one database.
type RedisAllocator struct {
	Client *rd.Client
}

func (a RedisAllocator) Next(ctx context.Context, _ *gorm.DB, day time.Time) (int, error) {
	key := orderNumberKey(DayKey(day))
	n, err := a.Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}
	// Keep yesterday's key around briefly for inspection, then let it expire.
	if n == 1 {
		if err := a.Client.Expire(ctx, key, 48*time.Hour).Err(); err != nil {
			utils.ErrorLogger.Printf("redis expire %s: %v", key, err)
		}
	}
	return int(n), nil
}

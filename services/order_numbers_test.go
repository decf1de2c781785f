package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"barmenu-backend/models"
)

func setupCounterDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.DayCounter{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCounterAllocatorSequential(t *testing.T) {
	db := setupCounterDB(t)
	alloc := CounterAllocator{}
	day := time.Date(2025, 6, 1, 12, 30, 0, 0, time.Local)

	seen := map[int]bool{}
	for i := 1; i <= 5; i++ {
		n, err := alloc.Next(context.Background(), db, day)
		assert.NoError(t, err)
		assert.Equal(t, i, n)
		assert.False(t, seen[n], "number %d allocated twice", n)
		seen[n] = true
	}
}

func TestCounterAllocatorConcurrentUniqueness(t *testing.T) {
	db := setupCounterDB(t)
	// One pooled connection keeps sqlite from rejecting concurrent writers;
	// the goroutines still race for the counter row.
	sqlDB, err := db.DB()
	assert.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	alloc := CounterAllocator{}
	day := time.Date(2025, 6, 1, 12, 30, 0, 0, time.Local)

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Transaction(func(tx *gorm.DB) error {
				n, err := alloc.Next(context.Background(), tx, day)
				if err != nil {
					return err
				}
				mu.Lock()
				numbers = append(numbers, n)
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, numbers, workers)
	seen := map[int]bool{}
	for _, n := range numbers {
		assert.False(t, seen[n], "number %d assigned twice", n)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, workers)
		seen[n] = true
	}
}

func TestCounterAllocatorResetsPerDay(t *testing.T) {
	db := setupCounterDB(t)
	alloc := CounterAllocator{}

	day1 := time.Date(2025, 6, 1, 23, 59, 0, 0, time.Local)
	day2 := time.Date(2025, 6, 2, 0, 1, 0, 0, time.Local)

	n, err := alloc.Next(context.Background(), db, day1)
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = alloc.Next(context.Background(), db, day1)
	assert.NoError(t, err)
	assert.Equal(t, 2, n)

	// A new calendar day starts over at 1
	n, err = alloc.Next(context.Background(), db, day2)
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2025, 6, 1, 18, 45, 12, 0, time.Local)
	start := StartOfDay(ts)
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, 0, start.Minute())
	assert.Equal(t, ts.Day(), start.Day())
	assert.Equal(t, "2025-06-01", DayKey(ts))
}

package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"bikeshare/internal/core"
)

// loadTimeout bounds one backend read of both datasets.
const loadTimeout = 2 * time.Minute

// Snapshot is the immutable, fully loaded pair of datasets.
type Snapshot struct {
	Daily  []core.DailyRecord
	Hourly []core.HourlyRecord
	// Bounds spans the earliest and latest daily date.
	Bounds core.DateRange
	// LoadedAt is when the snapshot was read from the backend.
	LoadedAt time.Time
}

// Cache loads both datasets at most once per process and hands out the
// same snapshot afterwards. Failed loads are not remembered, so the next
// call retries.
type Cache struct {
	reader Reader
	group  singleflight.Group

	mu   sync.RWMutex
	snap *Snapshot
}

// NewCache wraps a backend reader.
func NewCache(r Reader) *Cache {
	return &Cache{reader: r}
}

// Loaded reports whether a snapshot is available without triggering a load.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap != nil
}

// Load returns the cached snapshot, reading both datasets concurrently on
// first use. Concurrent first callers share a single backend read.
func (c *Cache) Load(ctx context.Context) (*Snapshot, error) {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	// The shared load outlives any single caller's cancellation.
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan("datasets", func() (any, error) {
		c.mu.RLock()
		cached := c.snap
		c.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		readCtx, cancel := context.WithTimeout(loadCtx, loadTimeout)
		defer cancel()
		s, err := c.read(readCtx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.snap = s
		c.mu.Unlock()
		return s, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

func (c *Cache) read(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	var (
		daily  []core.DailyRecord
		hourly []core.HourlyRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		daily, err = c.reader.ReadDaily(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		hourly, err = c.reader.ReadHourly(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "Dataset load failed", "error", err)
		return nil, err
	}

	bounds, ok := core.Bounds(daily)
	if !ok {
		return nil, fmt.Errorf("%w: daily dataset is empty", core.ErrDataUnavailable)
	}

	slog.InfoContext(ctx, "Datasets loaded",
		"daily_rows", len(daily),
		"hourly_rows", len(hourly),
		"range", bounds.String(),
		"duration", time.Since(start))

	return &Snapshot{Daily: daily, Hourly: hourly, Bounds: bounds, LoadedAt: time.Now()}, nil
}

// Package reporting keeps the platform gauges fresh. A cron schedule
// re-counts users, stores and ratings and pushes the totals into the
// metrics registry.
package reporting

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ratewise/platform/internal/app/storage"
	"github.com/ratewise/platform/internal/metrics"
	"github.com/ratewise/platform/pkg/logger"
)

// DefaultSchedule refreshes once a minute.
const DefaultSchedule = "@every 1m"

// Collector periodically refreshes the platform totals.
type Collector struct {
	users    storage.Users
	stores   storage.Stores
	ratings  storage.Ratings
	metrics  *metrics.Metrics
	schedule string
	cron     *cron.Cron
	log      *logger.Logger
}

// New creates a collector. An empty schedule uses DefaultSchedule.
func New(users storage.Users, stores storage.Stores, ratings storage.Ratings, m *metrics.Metrics, schedule string, log *logger.Logger) *Collector {
	if log == nil {
		log = logger.NewDefault("reporting")
	}
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &Collector{
		users:    users,
		stores:   stores,
		ratings:  ratings,
		metrics:  m,
		schedule: schedule,
		log:      log,
	}
}

// Name implements system.Service.
func (c *Collector) Name() string { return "reporting" }

// Start refreshes once immediately, then on the cron schedule.
func (c *Collector) Start(ctx context.Context) error {
	c.Refresh(ctx)

	c.cron = cron.New()
	if _, err := c.cron.AddFunc(c.schedule, func() {
		refreshCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.Refresh(refreshCtx)
	}); err != nil {
		return err
	}
	c.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (c *Collector) Stop(ctx context.Context) error {
	if c.cron == nil {
		return nil
	}
	done := c.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Refresh re-counts the three tables and updates the gauges.
func (c *Collector) Refresh(ctx context.Context) {
	users, err := c.users.CountUsers(ctx)
	if err != nil {
		c.log.WithError(err).Warn("count users")
		return
	}
	stores, err := c.stores.CountStores(ctx)
	if err != nil {
		c.log.WithError(err).Warn("count stores")
		return
	}
	ratings, err := c.ratings.CountRatings(ctx)
	if err != nil {
		c.log.WithError(err).Warn("count ratings")
		return
	}
	c.metrics.SetPlatformTotals(users, stores, ratings)
}

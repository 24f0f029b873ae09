// internal/service/dashboard/feed.go
package dashboard

import (
	"context"
	"time"

	"ispadmin-service/internal/domain/dashboard"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// changeChannel is the Redis pub/sub channel carrying record-collection
// change notifications.
const changeChannel = "ispadmin:changes"

// Broadcaster pushes a metrics snapshot to connected dashboard clients.
// The websocket hub satisfies it.
type Broadcaster interface {
	BroadcastMetrics(m dashboard.DashboardMetrics)
}

// Feed is the live metrics feed: CRUD services publish change
// notifications after writes, the feed coalesces bursts over a debounce
// window, recomputes the metrics snapshot once per window and pushes it to
// all subscribers.
type Feed struct {
	rdb      *redis.Client
	metrics  *MetricsService
	hub      Broadcaster
	logger   *zap.Logger
	debounce time.Duration

	refresh chan struct{}
}

func NewFeed(rdb *redis.Client, metrics *MetricsService, hub Broadcaster, debounce time.Duration, logger *zap.Logger) *Feed {
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &Feed{
		rdb:      rdb,
		metrics:  metrics,
		hub:      hub,
		logger:   logger,
		debounce: debounce,
		refresh:  make(chan struct{}, 1),
	}
}

// Publish announces that a collection changed. Failures are logged and
// swallowed; a missed notification only delays the next snapshot.
func (f *Feed) Publish(ctx context.Context, collection string) {
	if err := f.rdb.Publish(ctx, changeChannel, collection).Err(); err != nil {
		f.logger.Warn("failed to publish change notification",
			zap.String("collection", collection),
			zap.Error(err),
		)
	}
}

// Refresh requests an immediate snapshot push, bypassing the debounce
// window. Non-blocking; a refresh already queued is enough.
func (f *Feed) Refresh() {
	select {
	case f.refresh <- struct{}{}:
	default:
	}
}

// Run consumes change notifications until the context is cancelled. A
// burst of writes collapses into a single recomputation per debounce
// window.
func (f *Feed) Run(ctx context.Context) {
	pubsub := f.rdb.Subscribe(ctx, changeChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}
			f.logger.Debug("change notification received", zap.String("collection", msg.Payload))
			if timer == nil {
				timer = time.NewTimer(f.debounce)
				fire = timer.C
			}

		case <-fire:
			timer = nil
			fire = nil
			f.push(ctx)

		case <-f.refresh:
			if timer != nil {
				timer.Stop()
				timer = nil
				fire = nil
			}
			f.push(ctx)
		}
	}
}

func (f *Feed) push(ctx context.Context) {
	filter := dashboard.NewDateFilter(time.Now(), dashboard.RangeToday)
	snapshot := f.metrics.Snapshot(ctx, nil, filter)
	f.hub.BroadcastMetrics(snapshot)
}

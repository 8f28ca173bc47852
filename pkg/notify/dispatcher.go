// Package notify shows short-lived acknowledgements of input source
// switches. Delivery is best effort: notifications are dropped rather than
// delayed when the backend is slow or switches come in bursts.
package notify

import (
	"codeberg.org/miketth/inputswitch/pkg/inputswitch"
	"context"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Backend interface {
	Show(ctx context.Context, n inputswitch.Notification) error
}

type Dispatcher struct {
	backend Backend
	limiter *rate.Limiter
	queue   chan inputswitch.Notification
	log     *zap.SugaredLogger
}

// NewDispatcher allows perSecond notifications on average with bursts of
// burst. A non-positive perSecond disables rate limiting.
func NewDispatcher(backend Backend, queueSize int, perSecond float64, burst int, log *zap.SugaredLogger) *Dispatcher {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst < 1 {
		burst = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	return &Dispatcher{
		backend: backend,
		limiter: rate.NewLimiter(limit, burst),
		queue:   make(chan inputswitch.Notification, queueSize),
		log:     log,
	}
}

func (d *Dispatcher) NotifySwitch(n inputswitch.Notification) {
	if !d.limiter.Allow() {
		d.log.Debugw("rate limited notification", "message", n.Message)
		return
	}

	select {
	case d.queue <- n:
	default:
		d.log.Debugw("notification queue full, dropping", "message", n.Message)
	}
}

func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n := <-d.queue:
			if err := d.backend.Show(ctx, n); err != nil {
				d.log.Warnw("could not show notification", "message", n.Message, "error", err)
			}
		}
	}
}

// Discard is a NotificationSink that drops everything.
type Discard struct{}

func (Discard) NotifySwitch(inputswitch.Notification) {}

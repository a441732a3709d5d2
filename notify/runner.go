package notify

import (
	"context"
	"sync"
	"time"

	"appliance_store/metrics"

	"go.uber.org/zap"
)

const sendTimeout = 30 * time.Second

// Runner fires notifications on background goroutines so callers never
// wait on SMTP. Wait blocks until in-flight sends finish.
type Runner struct {
	dispatcher Dispatcher
	log        *zap.Logger
	metrics    *metrics.Metrics
	wg         sync.WaitGroup
}

func NewRunner(d Dispatcher, log *zap.Logger, m *metrics.Metrics) *Runner {
	return &Runner{dispatcher: d, log: log, metrics: m}
}

func (r *Runner) run(kind string, send func(ctx context.Context) bool) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ok := false
		defer func() {
			if p := recover(); p != nil {
				r.log.Error("notification panicked", zap.String("kind", kind), zap.Any("panic", p))
			}
			result := "sent"
			if !ok {
				result = "failed"
			}
			r.metrics.Notifications.WithLabelValues(kind, result).Inc()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		ok = send(ctx)
		if !ok {
			r.log.Warn("notification not delivered", zap.String("kind", kind))
		}
	}()
}

func (r *Runner) OrderConfirmation(n OrderConfirmation) {
	r.run("order_confirmation", func(ctx context.Context) bool {
		return r.dispatcher.SendOrderConfirmation(ctx, n)
	})
}

func (r *Runner) OrderStatusUpdate(n OrderStatusUpdate) {
	r.run("order_status_update", func(ctx context.Context) bool {
		return r.dispatcher.SendOrderStatusUpdate(ctx, n)
	})
}

func (r *Runner) ReturnDecision(n ReturnDecision) {
	r.run("return_decision", func(ctx context.Context) bool {
		return r.dispatcher.SendReturnDecision(ctx, n)
	})
}

func (r *Runner) Wait() {
	r.wg.Wait()
}

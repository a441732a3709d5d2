package helper

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type StaleTransactionExpirer interface {
	ExpireStale(ctx context.Context, ttl time.Duration) (int64, error)
}

// StartPaymentExpiryScheduler periodically marks virtual POS transactions
// that never received a callback as expired. The caller stops the returned
// scheduler on shutdown.
func StartPaymentExpiryScheduler(spec string, ttl time.Duration, expirer StaleTransactionExpirer, log *zap.Logger) (*cron.Cron, error) {
	scheduler := cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	_, err := scheduler.AddFunc(spec, func() {
		expireStaleTransactions(expirer, ttl, log)
	})
	if err != nil {
		return nil, err
	}

	scheduler.Start()
	log.Info("payment expiry scheduler started", zap.String("spec", spec), zap.Duration("ttl", ttl))
	return scheduler, nil
}

func expireStaleTransactions(expirer StaleTransactionExpirer, ttl time.Duration, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := expirer.ExpireStale(ctx, ttl); err != nil {
		log.Error("failed to expire payment transactions", zap.Error(err))
	}
}

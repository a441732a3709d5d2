package helper

import (
	"context"
	"time"

	"appliance_store/config"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

type CouponExpirer interface {
	ExpireCoupons(ctx context.Context, now time.Time) (int64, error)
}

// StartCouponExpiryScheduler deactivates coupons past their validUntil once a
// day at hour:05, Istanbul time.
func StartCouponExpiryScheduler(hour uint, expirer CouponExpirer, log *zap.Logger) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler(
		gocron.WithLocation(config.Istanbul()),
	)
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(hour, 5, 0),
			),
		),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if _, err := expirer.ExpireCoupons(ctx, time.Now()); err != nil {
				log.Error("failed to expire coupons", zap.Error(err))
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	s.Start()
	log.Info("coupon expiry scheduler started", zap.Uint("hour", hour))
	return s, nil
}

package coupon

import (
	"context"
	"sync"
	"testing"
	"time"

	"appliance_store/database/dbtest"
	"appliance_store/metrics"
	"appliance_store/model"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func intPtr(i int) *int { return &i }

func timePtr(t time.Time) *time.Time { return &t }

func baseCoupon() model.Coupon {
	return model.Coupon{
		Code:           "SAVE10",
		Type:           model.CouponTypePercentage,
		Value:          d("10"),
		MinOrderAmount: d("500"),
		UsageLimit:     intPtr(5),
		UsedCount:      1,
		ValidFrom:      now.AddDate(0, -1, 0),
		ValidUntil:     timePtr(now.AddDate(0, 1, 0)),
		IsActive:       true,
	}
}

func TestCheckOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *model.Coupon)
		amount string
		want   Reason
	}{
		{"applies", func(c *model.Coupon) {}, "1000", ""},
		{"inactive", func(c *model.Coupon) { c.IsActive = false }, "1000", ReasonInactive},
		{"not yet valid", func(c *model.Coupon) { c.ValidFrom = now.Add(time.Hour) }, "1000", ReasonNotYetValid},
		{"expired", func(c *model.Coupon) { c.ValidUntil = timePtr(now.Add(-time.Hour)) }, "1000", ReasonExpired},
		{"open ended", func(c *model.Coupon) { c.ValidUntil = nil }, "1000", ""},
		{"below minimum", func(c *model.Coupon) {}, "499.99", ReasonBelowMinimum},
		{"minimum is inclusive", func(c *model.Coupon) {}, "500", ""},
		{"exhausted", func(c *model.Coupon) { c.UsedCount = 5 }, "1000", ReasonUsageExhausted},
		{"zero limit is unlimited", func(c *model.Coupon) { c.UsageLimit = intPtr(0); c.UsedCount = 999 }, "1000", ""},
		{"nil limit is unlimited", func(c *model.Coupon) { c.UsageLimit = nil; c.UsedCount = 999 }, "1000", ""},
		{"negative amount counts as zero", func(c *model.Coupon) { c.MinOrderAmount = decimal.Zero }, "-50", ""},

		// several predicates violated: the earliest check wins
		{"expired before below minimum", func(c *model.Coupon) { c.ValidUntil = timePtr(now.Add(-time.Hour)) }, "10", ReasonExpired},
		{"below minimum before exhausted", func(c *model.Coupon) { c.UsedCount = 5 }, "10", ReasonBelowMinimum},
		{"inactive before expired", func(c *model.Coupon) {
			c.IsActive = false
			c.ValidUntil = timePtr(now.Add(-time.Hour))
		}, "10", ReasonInactive},
		{"not yet valid before exhausted", func(c *model.Coupon) {
			c.ValidFrom = now.Add(time.Hour)
			c.UsedCount = 5
		}, "1000", ReasonNotYetValid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := baseCoupon()
			tt.mutate(&c)
			assert.Equal(t, tt.want, Check(&c, d(tt.amount), now))
		})
	}
	assert.Equal(t, ReasonNotFound, Check(nil, d("1"), now))
}

func newService(t *testing.T) (*Service, *gorm.DB, *metrics.Metrics) {
	db := dbtest.New(t)
	m := metrics.NewNop()
	return NewService(db, zap.NewNop(), m), db, m
}

func TestValidate(t *testing.T) {
	s, db, m := newService(t)
	ctx := context.Background()

	c := baseCoupon()
	require.NoError(t, db.Create(&c).Error)

	got, err := s.Validate(ctx, "  save10 ", d("1000"), now)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = s.Validate(ctx, "NOPE", d("1000"), now)
	r, ok := AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, ReasonNotFound, r.Reason)

	_, err = s.Validate(ctx, "SAVE10", d("100"), now)
	r, ok = AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, ReasonBelowMinimum, r.Reason)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CouponRejections.WithLabelValues("not_found")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CouponRejections.WithLabelValues("below_minimum")))

	var stored model.Coupon
	require.NoError(t, db.First(&stored, c.ID).Error)
	assert.Equal(t, 1, stored.UsedCount, "validation must not consume a use")
}

func TestRedeemStopsAtLimit(t *testing.T) {
	s, db, _ := newService(t)
	ctx := context.Background()

	c := baseCoupon()
	c.UsageLimit = intPtr(2)
	c.UsedCount = 0
	require.NoError(t, db.Create(&c).Error)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return s.Redeem(ctx, tx, &c, 7, 100, d("50"))
	}))
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return s.Redeem(ctx, tx, &c, 8, 101, d("50"))
	}))

	err := db.Transaction(func(tx *gorm.DB) error {
		return s.Redeem(ctx, tx, &c, 9, 102, d("50"))
	})
	r, ok := AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, ReasonUsageExhausted, r.Reason)

	var stored model.Coupon
	require.NoError(t, db.First(&stored, c.ID).Error)
	assert.Equal(t, 2, stored.UsedCount)

	var usages []model.CouponUsage
	require.NoError(t, db.Order("order_id").Find(&usages).Error)
	require.Len(t, usages, 2)
	assert.Equal(t, uint(7), usages[0].UserId)
	assert.Equal(t, uint(100), usages[0].OrderId)
	assert.True(t, d("50").Equal(usages[0].DiscountApplied))
}

func TestRedeemConcurrentNeverOverspends(t *testing.T) {
	s, db, _ := newService(t)
	ctx := context.Background()

	c := baseCoupon()
	c.UsageLimit = intPtr(3)
	c.UsedCount = 0
	require.NoError(t, db.Create(&c).Error)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		redeemed int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			local := c
			err := db.Transaction(func(tx *gorm.DB) error {
				return s.Redeem(ctx, tx, &local, uint(i+1), uint(1000+i), d("10"))
			})
			if err == nil {
				mu.Lock()
				redeemed++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 3, redeemed)
	var stored model.Coupon
	require.NoError(t, db.First(&stored, c.ID).Error)
	assert.Equal(t, 3, stored.UsedCount)
}

func TestRedeemUnlimited(t *testing.T) {
	s, db, _ := newService(t)
	ctx := context.Background()

	c := baseCoupon()
	c.UsageLimit = nil
	c.UsedCount = 41
	require.NoError(t, db.Create(&c).Error)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return s.Redeem(ctx, tx, &c, 1, 1, d("5"))
	}))
	assert.Equal(t, 42, c.UsedCount)
}

func TestCreateAndList(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()

	maxDiscount := d("150")
	created, err := s.Create(ctx, model.CreateCouponInput{
		Code:        "yaz20",
		Type:        model.CouponTypePercentage,
		Value:       d("20"),
		MaxDiscount: &maxDiscount,
		UsageLimit:  intPtr(100),
		ValidFrom:   now,
		IsActive:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "YAZ20", created.Code)
	assert.True(t, created.MaxDiscount.Valid)
	assert.True(t, maxDiscount.Equal(created.MaxDiscount.Decimal))
	assert.True(t, created.IsActive)

	_, err = s.Create(ctx, model.CreateCouponInput{Code: "YAZ20", Type: model.CouponTypeFixed, Value: d("10"), ValidFrom: now})
	assert.ErrorIs(t, err, ErrCodeExists)

	coupons, total, err := s.List(ctx, model.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, coupons, 1)
	assert.Equal(t, "YAZ20", coupons[0].Code)
}

func TestExpireCoupons(t *testing.T) {
	s, db, _ := newService(t)
	ctx := context.Background()

	expired := baseCoupon()
	expired.Code = "OLD"
	expired.ValidUntil = timePtr(now.Add(-24 * time.Hour))
	live := baseCoupon()
	live.Code = "LIVE"
	openEnded := baseCoupon()
	openEnded.Code = "FOREVER"
	openEnded.ValidUntil = nil
	for _, c := range []*model.Coupon{&expired, &live, &openEnded} {
		require.NoError(t, db.Create(c).Error)
	}

	n, err := s.ExpireCoupons(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var stored model.Coupon
	require.NoError(t, db.First(&stored, expired.ID).Error)
	assert.False(t, stored.IsActive)
	require.NoError(t, db.First(&stored, live.ID).Error)
	assert.True(t, stored.IsActive)
	require.NoError(t, db.First(&stored, openEnded.ID).Error)
	assert.True(t, stored.IsActive)
}

// Package coupon validates coupon codes against an order amount and records
// redemptions.
package coupon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"appliance_store/metrics"
	"appliance_store/model"
	"appliance_store/utils"

	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Reason string

const (
	ReasonNotFound       Reason = "not_found"
	ReasonInactive       Reason = "inactive"
	ReasonNotYetValid    Reason = "not_yet_valid"
	ReasonExpired        Reason = "expired"
	ReasonBelowMinimum   Reason = "below_minimum"
	ReasonUsageExhausted Reason = "usage_exhausted"
)

// Rejection is returned when a coupon cannot be applied. Users only ever see
// a generic message; Reason is kept for logs and tests.
type Rejection struct {
	Code   string
	Reason Reason
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("coupon %q rejected: %s", r.Code, r.Reason)
}

// AsRejection unwraps err into a *Rejection.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

var ErrCodeExists = errors.New("coupon code already exists")

// NormalizeCode trims and upper-cases user input before lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Check applies the coupon predicates in a fixed order and returns the first
// failing reason, or "" when the coupon applies.
func Check(c *model.Coupon, amount decimal.Decimal, now time.Time) Reason {
	if c == nil {
		return ReasonNotFound
	}
	if !c.IsActive {
		return ReasonInactive
	}
	if now.Before(c.ValidFrom) {
		return ReasonNotYetValid
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return ReasonExpired
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	if amount.LessThan(c.MinOrderAmount) {
		return ReasonBelowMinimum
	}
	if HasUsageLimit(c) && c.UsedCount >= *c.UsageLimit {
		return ReasonUsageExhausted
	}
	return ""
}

// HasUsageLimit reports whether redemptions are capped. Nil and zero both
// mean unlimited.
func HasUsageLimit(c *model.Coupon) bool {
	return c.UsageLimit != nil && *c.UsageLimit > 0
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewService(db *gorm.DB, log *zap.Logger, m *metrics.Metrics) *Service {
	return &Service{db: db, log: log, metrics: m}
}

// Validate looks up code and checks it against amount at now. It has no side
// effects on the coupon.
func (s *Service) Validate(ctx context.Context, code string, amount decimal.Decimal, now time.Time) (*model.Coupon, error) {
	code = NormalizeCode(code)

	var c model.Coupon
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, s.reject(code, ReasonNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load coupon: %w", err)
	}

	if reason := Check(&c, amount, now); reason != "" {
		return nil, s.reject(code, reason)
	}
	return &c, nil
}

func (s *Service) reject(code string, reason Reason) error {
	s.metrics.CouponRejections.WithLabelValues(string(reason)).Inc()
	s.log.Debug("coupon rejected", zap.String("code", code), zap.String("reason", string(reason)))
	return &Rejection{Code: code, Reason: reason}
}

// Redeem consumes one use of the coupon and records the usage. It must run
// inside the transaction that creates the order so both commit together.
func (s *Service) Redeem(ctx context.Context, tx *gorm.DB, c *model.Coupon, userID, orderID uint, discount decimal.Decimal) error {
	res := tx.WithContext(ctx).
		Model(&model.Coupon{}).
		Where("id = ? AND (usage_limit IS NULL OR usage_limit = 0 OR used_count < usage_limit)", c.ID).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return fmt.Errorf("increment coupon usage: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return s.reject(c.Code, ReasonUsageExhausted)
	}

	usage := model.CouponUsage{
		CouponId:        c.ID,
		UserId:          userID,
		OrderId:         orderID,
		DiscountApplied: discount,
	}
	if err := tx.WithContext(ctx).Create(&usage).Error; err != nil {
		return fmt.Errorf("record coupon usage: %w", err)
	}
	c.UsedCount++
	return nil
}

func (s *Service) Create(ctx context.Context, input model.CreateCouponInput) (*model.Coupon, error) {
	var c model.Coupon
	if err := copier.Copy(&c, &input); err != nil {
		return nil, fmt.Errorf("copy coupon input: %w", err)
	}
	c.Code = NormalizeCode(input.Code)
	if input.MaxDiscount != nil {
		c.MaxDiscount = decimal.NewNullDecimal(*input.MaxDiscount)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Coupon{}).Where("code = ?", c.Code).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCodeExists
	}

	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("create coupon: %w", err)
	}
	return &c, nil
}

func (s *Service) List(ctx context.Context, pagination model.Pagination) ([]model.Coupon, int64, error) {
	var (
		coupons []model.Coupon
		total   int64
	)
	if err := s.db.WithContext(ctx).Model(&model.Coupon{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := utils.ApplyPagination(s.db.WithContext(ctx).Order("id desc"), pagination.Limit, pagination.Page)
	if err := query.Find(&coupons).Error; err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}

// ExpireCoupons deactivates active coupons whose validity window has closed.
func (s *Service) ExpireCoupons(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&model.Coupon{}).
		Where("is_active = ? AND valid_until IS NOT NULL AND valid_until < ?", true, now).
		Update("is_active", false)
	if res.Error != nil {
		return 0, fmt.Errorf("expire coupons: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		s.log.Info("coupons deactivated", zap.Int64("count", res.RowsAffected))
	}
	return res.RowsAffected, nil
}

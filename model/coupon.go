package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CouponTypePercentage = "percentage"
	CouponTypeFixed      = "fixed"
)

type Coupon struct {
	DTO
	Code           string              `gorm:"uniqueIndex;size:50;not null" json:"code"`
	Type           string              `gorm:"size:20;not null" json:"type"`
	Value          decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"value"`
	MinOrderAmount decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0" json:"minOrderAmount"`
	MaxDiscount    decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"maxDiscount"`
	UsageLimit     *int                `json:"usageLimit"`
	UsedCount      int                 `gorm:"not null;default:0" json:"usedCount"`
	ValidFrom      time.Time           `gorm:"not null" json:"validFrom"`
	ValidUntil     *time.Time          `json:"validUntil"`
	IsActive       bool                `gorm:"not null" json:"isActive"`
}

// CouponUsage records one redemption of a coupon by a user for an order.
type CouponUsage struct {
	DTO
	CouponId        uint            `gorm:"index;not null" json:"couponId"`
	UserId          uint            `gorm:"index;not null" json:"userId"`
	OrderId         uint            `gorm:"uniqueIndex;not null" json:"orderId"`
	DiscountApplied decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discountApplied"`
}

type ValidateCouponInput struct {
	OrderAmount decimal.Decimal `json:"orderAmount"`
}

type CreateCouponInput struct {
	Code           string           `json:"code" validate:"required,max=50"`
	Type           string           `json:"type" validate:"required,oneof=percentage fixed"`
	Value          decimal.Decimal  `json:"value"`
	MinOrderAmount decimal.Decimal  `json:"minOrderAmount"`
	MaxDiscount    *decimal.Decimal `json:"maxDiscount" copier:"-"`
	UsageLimit     *int             `json:"usageLimit" validate:"omitempty,gte=0"`
	ValidFrom      time.Time        `json:"validFrom" validate:"required"`
	ValidUntil     *time.Time       `json:"validUntil"`
	IsActive       bool             `json:"isActive"`
}

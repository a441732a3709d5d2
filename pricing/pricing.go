// Package pricing holds the checkout money rules: coupon discounts, final
// totals and extended-warranty surcharges. Everything here is pure.
package pricing

import (
	"math"
	"strings"

	"appliance_store/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ParseAmount parses a decimal string. Anything unparsable, including "NaN"
// and infinities, is treated as zero.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FromFloat converts a float amount; NaN and infinities become zero.
func FromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ComputeDiscount returns the discount a coupon grants on amount. The result
// is always within [0, amount]. A nil coupon yields zero.
func ComputeDiscount(coupon *model.Coupon, amount decimal.Decimal) decimal.Decimal {
	amount = nonNegative(amount)
	if coupon == nil || amount.IsZero() {
		return decimal.Zero
	}

	value := nonNegative(coupon.Value)
	var discount decimal.Decimal
	switch coupon.Type {
	case model.CouponTypePercentage:
		discount = amount.Mul(value).Div(hundred).Round(2)
		// a zero or missing cap means unlimited
		if coupon.MaxDiscount.Valid && coupon.MaxDiscount.Decimal.IsPositive() {
			discount = decimal.Min(discount, coupon.MaxDiscount.Decimal)
		}
	case model.CouponTypeFixed:
		discount = value
	default:
		return decimal.Zero
	}

	return decimal.Min(nonNegative(discount), amount)
}

// ComputeFinalTotal is max(0, amount - discount).
func ComputeFinalTotal(amount, discount decimal.Decimal) decimal.Decimal {
	return nonNegative(amount.Sub(discount))
}

// ComputeWarrantyPrice returns the surcharge for quantity units under the
// given tier. Zero for tier none, unknown tiers, a missing warranty category
// or a non-positive quantity.
func ComputeWarrantyPrice(tier string, category *model.ExtendedWarrantyCategory, quantity int) decimal.Decimal {
	return UnitWarrantyPrice(tier, category).Mul(decimal.NewFromInt(int64(max(quantity, 0))))
}

// UnitWarrantyPrice is the surcharge for a single unit.
func UnitWarrantyPrice(tier string, category *model.ExtendedWarrantyCategory) decimal.Decimal {
	if category == nil {
		return decimal.Zero
	}
	switch tier {
	case model.WarrantyTwoYear:
		return nonNegative(category.TwoYearPrice)
	case model.WarrantyFourYear:
		return nonNegative(category.FourYearPrice)
	default:
		return decimal.Zero
	}
}

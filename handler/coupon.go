package handler

import (
	"errors"

	"appliance_store/constants"
	"appliance_store/coupon"
	"appliance_store/model"
	"appliance_store/pricing"
	"appliance_store/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type couponQuote struct {
	Coupon         *model.Coupon   `json:"coupon"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalAmount    decimal.Decimal `json:"finalAmount"`
}

// ValidateCoupon quotes a coupon against an order amount without consuming it.
func (h *Handler) ValidateCoupon(c *fiber.Ctx) error {
	couponInput, ok := input[model.ValidateCouponInput](c)
	if !ok {
		return parseLocalsError(c)
	}

	found, err := h.coupons.Validate(c.UserContext(), c.Params("code"), couponInput.OrderAmount, h.now())
	if err != nil {
		if _, ok := coupon.AsRejection(err); ok {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INVALID_COUPON, err)
		}
		return internalError(c, err)
	}

	discount := pricing.ComputeDiscount(found, couponInput.OrderAmount)
	return utils.SuccessResponse(c, fiber.StatusOK, couponQuote{
		Coupon:         found,
		DiscountAmount: discount,
		FinalAmount:    pricing.ComputeFinalTotal(couponInput.OrderAmount, discount),
	})
}

func (h *Handler) ListCoupons(c *fiber.Ctx) error {
	p := pagination(c)
	coupons, total, err := h.coupons.List(c.UserContext(), p)
	if err != nil {
		return internalError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       coupons,
		Limit:      p.Limit,
		Page:       p.Page,
		TotalCount: total,
	})
}

func (h *Handler) CreateCoupon(c *fiber.Ctx) error {
	couponInput, ok := input[model.CreateCouponInput](c)
	if !ok {
		return parseLocalsError(c)
	}

	created, err := h.coupons.Create(c.UserContext(), couponInput)
	if errors.Is(err, coupon.ErrCodeExists) {
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.ERROR_COUPON_EXISTS, err)
	}
	if err != nil {
		return internalError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, created)
}

package validate

import (
	"errors"
	"strings"

	"appliance_store/constants"
	"appliance_store/model"
	"appliance_store/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func ValidateCoupon() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if strings.TrimSpace(c.Params("code")) == "" {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INVALID_COUPON, errors.New("code is empty"))
		}
		return parse(func(c *fiber.Ctx, input *model.ValidateCouponInput) error {
			if input.OrderAmount.IsNegative() {
				return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INVALID_AMOUNT, errors.New("orderAmount must not be negative"))
			}
			return nil
		})(c)
	}
}

func CreateCoupon() fiber.Handler {
	return parse(func(c *fiber.Ctx, input *model.CreateCouponInput) error {
		if !input.Value.IsPositive() || anyNegative(input.MinOrderAmount) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INVALID_AMOUNT, errors.New("invalid coupon amounts"))
		}
		if input.MaxDiscount != nil && input.MaxDiscount.IsNegative() {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INVALID_AMOUNT, errors.New("negative maxDiscount"))
		}
		if input.Type == model.CouponTypePercentage && input.Value.GreaterThan(hundred) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INVALID_AMOUNT, errors.New("percentage above 100"))
		}
		if input.ValidUntil != nil && input.ValidUntil.Before(input.ValidFrom) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INVALID_REQUEST, errors.New("validUntil before validFrom"))
		}
		return nil
	})
}

package validate

import (
	"errors"

	"appliance_store/constants"
	"appliance_store/model"
	"appliance_store/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func anyNegative(values ...decimal.Decimal) bool {
	for _, v := range values {
		if v.IsNegative() {
			return true
		}
	}
	return false
}

func CreateOrder() fiber.Handler {
	return parse(func(c *fiber.Ctx, input *model.CreateOrderInput) error {
		if len(input.CartItems) == 0 {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_EMPTY_CART, errors.New("cartItems is empty"))
		}
		if input.ShippingAddress == nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_MISSING_ADDRESS, errors.New("shippingAddress is required"))
		}
		if anyNegative(input.TotalAmount, input.OriginalAmount, input.DiscountAmount) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INVALID_AMOUNT, errors.New("negative amount"))
		}
		if input.VirtualPosConfigId != nil && *input.VirtualPosConfigId == 0 {
			input.VirtualPosConfigId = nil
		}
		if model.NormalizePaymentMethod(input.PaymentMethod) == model.PaymentMethodVirtualPos && input.VirtualPosConfigId == nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_MISSING_POS, errors.New("virtualPosConfigId is required"))
		}
		return nil
	})
}

func UpdateOrderStatus() fiber.Handler {
	return parse(func(c *fiber.Ctx, input *model.UpdateOrderStatusInput) error {
		if !model.IsValidOrderStatus(input.Status) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INVALID_STATUS, errors.New("unknown status"))
		}
		return nil
	})
}

func UpdateTrackingCode() fiber.Handler {
	return parse[model.UpdateTrackingCodeInput](nil)
}

func CreateReturn() fiber.Handler {
	return parse[model.CreateReturnInput](nil)
}

func ReturnDecision() fiber.Handler {
	return parse[model.ReturnDecisionInput](nil)
}

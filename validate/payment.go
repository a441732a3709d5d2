package validate

import (
	"errors"

	"appliance_store/constants"
	"appliance_store/model"
	"appliance_store/utils"

	"github.com/gofiber/fiber/v2"
)

func InitiatePayment() fiber.Handler {
	return parse(func(c *fiber.Ctx, input *model.InitiatePaymentInput) error {
		if !input.Amount.IsPositive() {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INVALID_AMOUNT, errors.New("amount must be positive"))
		}
		return nil
	})
}

// PaymentCallback accepts the bank fields from a form post or, for the GET
// fallback, from the query string.
func PaymentCallback() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.PaymentCallback
		var err error
		if c.Method() == fiber.MethodGet {
			err = c.QueryParser(&input)
		} else {
			err = c.BodyParser(&input)
		}
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INVALID_REQUEST, err)
		}
		c.Locals(constants.LOCAL_INPUT, input)
		return c.Next()
	}
}

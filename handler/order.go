package handler

import (
	"errors"

	"appliance_store/checkout"
	"appliance_store/constants"
	"appliance_store/coupon"
	"appliance_store/helper"
	"appliance_store/model"
	"appliance_store/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// checkoutErrors maps pre-persistence checkout failures to 400 messages.
var checkoutErrors = []struct {
	err     error
	message string
}{
	{checkout.ErrEmptyCart, constants.ERROR_EMPTY_CART},
	{checkout.ErrMissingAddress, constants.ERROR_MISSING_ADDRESS},
	{checkout.ErrInvalidQuantity, constants.ERROR_INVALID_QUANTITY},
	{checkout.ErrProductUnavailable, constants.ERROR_PRODUCT_UNAVAILABLE},
	{checkout.ErrWarrantyUnavailable, constants.ERROR_WARRANTY_UNAVAILABLE},
	{checkout.ErrInvalidPaymentMethod, constants.ERROR_INVALID_PAYMENT},
	{checkout.ErrMissingPosConfig, constants.ERROR_MISSING_POS},
}

func (h *Handler) CreateOrder(c *fiber.Ctx) error {
	cl, ok := helper.GetClaim(c)
	if !ok {
		return unauthorized(c)
	}
	orderInput, ok := input[model.CreateOrderInput](c)
	if !ok {
		return parseLocalsError(c)
	}

	result, err := h.checkout.PlaceOrder(c.UserContext(), checkout.Request{
		UserID: cl.UserId,
		Email:  cl.Email,
		Input:  orderInput,
	})
	if err != nil {
		if _, ok := coupon.AsRejection(err); ok {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INVALID_COUPON, err)
		}
		for _, e := range checkoutErrors {
			if errors.Is(err, e.err) {
				return utils.ErrorResponse(c, fiber.StatusBadRequest, e.message, err)
			}
		}
		h.log.Error("create order failed", zap.Uint("userId", cl.UserId), zap.Error(err))
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_CREATE_ORDER, err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, result)
}

func (h *Handler) ListOrders(c *fiber.Ctx) error {
	cl, ok := helper.GetClaim(c)
	if !ok {
		return unauthorized(c)
	}
	p := pagination(c)

	orders, total, err := h.ledger.ListOrdersByUser(c.UserContext(), cl.UserId, p)
	if err != nil {
		return internalError(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       orders,
		Limit:      p.Limit,
		Page:       p.Page,
		TotalCount: total,
	})
}

func (h *Handler) GetOrder(c *fiber.Ctx) error {
	cl, ok := helper.GetClaim(c)
	if !ok {
		return unauthorized(c)
	}

	order, err := h.orderForCaller(c, cl, inputID(c))
	if err != nil {
		return internalError(c, err)
	}
	if order == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ERROR_ORDER_NOT_FOUND, errors.New("order not found"))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

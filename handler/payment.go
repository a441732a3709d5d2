package handler

import (
	"bytes"
	"errors"

	"appliance_store/constants"
	"appliance_store/helper"
	"appliance_store/model"
	"appliance_store/payment"
	"appliance_store/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var initiateErrors = []struct {
	err     error
	status  int
	message string
}{
	{payment.ErrOrderNotFound, fiber.StatusNotFound, constants.ERROR_ORDER_NOT_FOUND},
	{payment.ErrConfigNotFound, fiber.StatusNotFound, constants.ERROR_POS_NOT_FOUND},
	{payment.ErrNotVirtualPos, fiber.StatusBadRequest, constants.ERROR_WRONG_PAYMENT_TYPE},
	{payment.ErrAlreadyPaid, fiber.StatusConflict, constants.ERROR_ORDER_ALREADY_PAID},
	{payment.ErrOrderCancelled, fiber.StatusBadRequest, constants.ERROR_ORDER_CANCELLED},
	{payment.ErrAmountMismatch, fiber.StatusBadRequest, constants.ERROR_AMOUNT_MISMATCH},
	{payment.ErrInvalidAmount, fiber.StatusBadRequest, constants.ERROR_INVALID_AMOUNT},
}

// ListPosConfigs returns the active banks the storefront can offer.
func (h *Handler) ListPosConfigs(c *fiber.Ctx) error {
	configs, err := h.payments.ListConfigs(c.UserContext())
	if err != nil {
		return internalError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, configs)
}

func (h *Handler) InitiatePayment(c *fiber.Ctx) error {
	cl, ok := helper.GetClaim(c)
	if !ok {
		return unauthorized(c)
	}
	paymentInput, ok := input[model.InitiatePaymentInput](c)
	if !ok {
		return parseLocalsError(c)
	}

	result, err := h.payments.Initiate(c.UserContext(), payment.InitiateRequest{
		OrderID:            paymentInput.OrderId,
		UserID:             cl.UserId,
		VirtualPosConfigID: paymentInput.VirtualPosConfigId,
		Amount:             paymentInput.Amount,
		Installments:       paymentInput.Installments,
	})
	if err != nil {
		for _, e := range initiateErrors {
			if errors.Is(err, e.err) {
				return utils.ErrorResponse(c, e.status, e.message, err)
			}
		}
		h.log.Error("payment initiation failed", zap.Uint("orderId", paymentInput.OrderId), zap.Error(err))
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PAYMENT_INIT_FAILED, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, result)
}

// PaymentForm serves the page that auto-posts the customer to the bank.
func (h *Handler) PaymentForm(c *fiber.Ctx) error {
	form, err := h.payments.BuildForm(c.UserContext(), c.Params("transactionId"))
	switch {
	case errors.Is(err, payment.ErrTransactionNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ERROR_TRANSACTION_MISSING, err)
	case errors.Is(err, payment.ErrTransactionClosed):
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.ERROR_TRANSACTION_CLOSED, err)
	case errors.Is(err, payment.ErrConfigNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ERROR_POS_NOT_FOUND, err)
	case err != nil:
		return internalError(c, err)
	}

	var buf bytes.Buffer
	if err := payment.RenderForm(&buf, form); err != nil {
		return internalError(c, err)
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// PaymentCallback receives the bank's redirect and sends the customer on to
// the storefront. It always answers with a redirect.
func (h *Handler) PaymentCallback(c *fiber.Ctx) error {
	cb, ok := input[model.PaymentCallback](c)
	if !ok {
		return c.Redirect(h.payments.FailureURL(constants.ERROR_PAYMENT_FAILED), fiber.StatusFound)
	}

	result, err := h.payments.HandleCallback(c.UserContext(), cb)
	if err != nil {
		if errors.Is(err, payment.ErrTransactionNotFound) {
			return c.Redirect(h.payments.FailureURL(constants.ERROR_TRANSACTION_MISSING), fiber.StatusFound)
		}
		h.log.Error("payment callback failed", zap.String("reference", cb.OrderId), zap.Error(err))
		return c.Redirect(h.payments.FailureURL(constants.ERROR_PAYMENT_FAILED), fiber.StatusFound)
	}

	return c.Redirect(result.RedirectURL, fiber.StatusFound)
}

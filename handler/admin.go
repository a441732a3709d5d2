package handler

import (
	"errors"

	"appliance_store/constants"
	"appliance_store/model"
	"appliance_store/notify"
	"appliance_store/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (h *Handler) notifyStatusChange(before, after *model.Order) {
	if before.Status == after.Status {
		return
	}
	h.notifier.OrderStatusUpdate(notify.OrderStatusUpdate{
		Email:     after.ContactEmail,
		Order:     *after,
		OldStatus: before.Status,
		NewStatus: after.Status,
	})
}

func orderNotFound(c *fiber.Ctx) error {
	return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ERROR_ORDER_NOT_FOUND, errors.New("order not found"))
}

// UpdateOrderStatus accepts any known status; the customer is notified only
// when the status actually changes.
func (h *Handler) UpdateOrderStatus(c *fiber.Ctx) error {
	statusInput, ok := input[model.UpdateOrderStatusInput](c)
	if !ok {
		return parseLocalsError(c)
	}
	ctx := c.UserContext()
	id := inputID(c)

	before, err := h.ledger.GetOrder(ctx, id)
	if err != nil {
		return internalError(c, err)
	}
	if before == nil {
		return orderNotFound(c)
	}

	after, err := h.ledger.UpdateOrderStatus(ctx, id, statusInput.Status)
	if err != nil {
		return internalError(c, err)
	}
	if after == nil {
		return orderNotFound(c)
	}

	h.log.Info("order status updated",
		zap.String("orderNumber", after.OrderNumber),
		zap.String("from", before.Status),
		zap.String("to", after.Status),
	)
	h.notifyStatusChange(before, after)
	return utils.SuccessResponse(c, fiber.StatusOK, after)
}

func (h *Handler) UpdateTrackingCode(c *fiber.Ctx) error {
	trackingInput, ok := input[model.UpdateTrackingCodeInput](c)
	if !ok {
		return parseLocalsError(c)
	}

	order, err := h.ledger.UpdateOrderTrackingCode(c.UserContext(), inputID(c), trackingInput.TrackingCode)
	if err != nil {
		return internalError(c, err)
	}
	if order == nil {
		return orderNotFound(c)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

// ConfirmBankTransfer records a received bank transfer. A pending order moves
// on to preparing; other statuses are kept.
func (h *Handler) ConfirmBankTransfer(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := inputID(c)

	before, err := h.ledger.GetOrder(ctx, id)
	if err != nil {
		return internalError(c, err)
	}
	if before == nil {
		return orderNotFound(c)
	}
	if before.PaymentMethod != model.PaymentMethodBankTransfer {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_NOT_BANK_TRANSFER, errors.New("payment method "+before.PaymentMethod))
	}
	if before.PaymentStatus == model.PaymentStatusCompleted {
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.ERROR_ORDER_ALREADY_PAID, errors.New("already paid"))
	}
	if before.Status == model.OrderStatusCancelled {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_ORDER_CANCELLED, errors.New("order cancelled"))
	}

	next := before.Status
	if next == model.OrderStatusPending {
		next = model.OrderStatusPreparing
	}
	after, err := h.ledger.MarkPaid(ctx, id, next)
	if err != nil {
		return internalError(c, err)
	}
	if after == nil {
		return orderNotFound(c)
	}

	h.log.Info("bank transfer confirmed", zap.String("orderNumber", after.OrderNumber))
	h.notifyStatusChange(before, after)
	return utils.SuccessResponse(c, fiber.StatusOK, after)
}

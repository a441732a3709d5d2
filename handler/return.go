package handler

import (
	"errors"

	"appliance_store/constants"
	"appliance_store/helper"
	"appliance_store/model"
	"appliance_store/notify"
	"appliance_store/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func returnable(status string) bool {
	switch status {
	case model.OrderStatusShipped, model.OrderStatusInTransit, model.OrderStatusDelivered:
		return true
	}
	return false
}

func (h *Handler) CreateReturn(c *fiber.Ctx) error {
	cl, ok := helper.GetClaim(c)
	if !ok {
		return unauthorized(c)
	}
	returnInput, ok := input[model.CreateReturnInput](c)
	if !ok {
		return parseLocalsError(c)
	}
	ctx := c.UserContext()

	order, err := h.ledger.GetOrder(ctx, inputID(c))
	if err != nil {
		return internalError(c, err)
	}
	if order == nil || order.UserId != cl.UserId {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ERROR_ORDER_NOT_FOUND, errors.New("order not found"))
	}
	if !returnable(order.Status) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_RETURN_NOT_ALLOWED, errors.New("order status "+order.Status))
	}

	var open int64
	if err := h.db.WithContext(ctx).Model(&model.ReturnRequest{}).
		Where("order_id = ? AND status = ?", order.ID, model.ReturnStatusRequested).
		Count(&open).Error; err != nil {
		return internalError(c, err)
	}
	if open > 0 {
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.ERROR_RETURN_EXISTS, errors.New("open return request exists"))
	}

	request := model.ReturnRequest{
		OrderId: order.ID,
		UserId:  cl.UserId,
		Reason:  returnInput.Reason,
		Status:  model.ReturnStatusRequested,
	}
	if err := h.db.WithContext(ctx).Create(&request).Error; err != nil {
		return internalError(c, err)
	}

	h.log.Info("return requested", zap.String("orderNumber", order.OrderNumber), zap.Uint("returnId", request.ID))
	return utils.SuccessResponse(c, fiber.StatusCreated, request)
}

// DecideReturn approves or rejects an open return request and tells the
// customer.
func (h *Handler) DecideReturn(c *fiber.Ctx) error {
	decision, ok := input[model.ReturnDecisionInput](c)
	if !ok {
		return parseLocalsError(c)
	}
	ctx := c.UserContext()
	id := inputID(c)

	var request model.ReturnRequest
	err := h.db.WithContext(ctx).First(&request, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.ERROR_RETURN_NOT_FOUND, err)
	}
	if err != nil {
		return internalError(c, err)
	}

	res := h.db.WithContext(ctx).Model(&model.ReturnRequest{}).
		Where("id = ? AND status = ?", id, model.ReturnStatusRequested).
		Updates(map[string]any{"status": decision.Status, "admin_note": decision.AdminNote})
	if res.Error != nil {
		return internalError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.ERROR_RETURN_DECIDED, errors.New("return already "+request.Status))
	}
	request.Status = decision.Status
	request.AdminNote = decision.AdminNote

	order, err := h.ledger.GetOrder(ctx, request.OrderId)
	if err != nil {
		h.log.Warn("failed to load order for return decision", zap.Uint("returnId", request.ID), zap.Error(err))
	} else if order != nil {
		h.notifier.ReturnDecision(notify.ReturnDecision{Email: order.ContactEmail, Order: *order, Return: request})
	}

	return utils.SuccessResponse(c, fiber.StatusOK, request)
}

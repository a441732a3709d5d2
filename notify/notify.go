// Package notify sends customer emails for order and payment events.
// Sends are best effort: they report success as a bool and never fail the
// operation that triggered them.
package notify

import (
	"context"
	"encoding/json"

	"appliance_store/model"
)

type OrderConfirmation struct {
	Email   string
	Order   model.Order
	Address model.ShippingAddressInput
}

type OrderStatusUpdate struct {
	Email     string
	Order     model.Order
	OldStatus string
	NewStatus string
}

type ReturnDecision struct {
	Email  string
	Order  model.Order
	Return model.ReturnRequest
}

// Dispatcher delivers a single notification.
type Dispatcher interface {
	SendOrderConfirmation(ctx context.Context, n OrderConfirmation) bool
	SendOrderStatusUpdate(ctx context.Context, n OrderStatusUpdate) bool
	SendReturnDecision(ctx context.Context, n ReturnDecision) bool
}

// ConfirmationFor builds the confirmation payload from a stored order. The
// order should have its items loaded.
func ConfirmationFor(order model.Order) OrderConfirmation {
	var address model.ShippingAddressInput
	// an unreadable snapshot only degrades the email
	_ = json.Unmarshal([]byte(order.ShippingAddress), &address)
	return OrderConfirmation{Email: order.ContactEmail, Order: order, Address: address}
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. awaiting_payment is used for virtual-POS orders until the
// bank callback confirms the charge.
const (
	OrderStatusAwaitingPayment = "awaiting_payment"
	OrderStatusPending         = "pending"
	OrderStatusPreparing       = "preparing"
	OrderStatusReadyToShip     = "ready_to_ship"
	OrderStatusShipped         = "shipped"
	OrderStatusInTransit       = "in_transit"
	OrderStatusDelivered       = "delivered"
	OrderStatusCancelled       = "cancelled"
)

var OrderStatuses = []string{
	OrderStatusAwaitingPayment,
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusReadyToShip,
	OrderStatusShipped,
	OrderStatusInTransit,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
)

const (
	PaymentMethodBankTransfer = "bank-transfer"
	PaymentMethodVirtualPos   = "virtual-pos"
	// credit-card is the storefront's older name for virtual-pos.
	PaymentMethodCreditCard = "credit-card"
)

const (
	WarrantyNone     = "none"
	WarrantyTwoYear  = "2year"
	WarrantyFourYear = "4year"
)

type Order struct {
	DTO
	OrderNumber     string          `gorm:"uniqueIndex;size:40;not null" json:"orderNumber"`
	UserId          uint            `gorm:"index;not null" json:"userId"`
	ContactEmail    string          `gorm:"size:255" json:"contactEmail"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	OriginalAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"originalAmount"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discountAmount"`
	CouponCode      *string         `gorm:"size:50" json:"couponCode"`
	ShippingAddress string          `gorm:"type:text;not null" json:"shippingAddress"`
	PaymentMethod   string          `gorm:"size:20;not null" json:"paymentMethod"`
	Status          string          `gorm:"size:20;not null;index" json:"status"`
	PaymentStatus   string          `gorm:"size:20;not null;default:'pending'" json:"paymentStatus"`
	TrackingCode    *string         `gorm:"size:100" json:"trackingCode"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderId" json:"items,omitempty"`
}

type OrderItem struct {
	DTO
	OrderId       uint            `gorm:"index;not null" json:"orderId"`
	ProductId     uint            `gorm:"index;not null" json:"productId"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Warranty      *string         `gorm:"size:10" json:"warranty"`
	WarrantyPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"warrantyPrice"`

	Product *Product `gorm:"foreignKey:ProductId" json:"product,omitempty"`
}

// LineTotal is (price + warrantyPrice) * quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Add(i.WarrantyPrice).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// NormalizePaymentMethod folds the credit-card alias into virtual-pos.
func NormalizePaymentMethod(method string) string {
	if method == PaymentMethodCreditCard {
		return PaymentMethodVirtualPos
	}
	return method
}

// InitialStatus returns the order status a fresh order starts in.
func InitialStatus(paymentMethod string) string {
	if NormalizePaymentMethod(paymentMethod) == PaymentMethodVirtualPos {
		return OrderStatusAwaitingPayment
	}
	return OrderStatusPending
}

type CartItemInput struct {
	ProductId uint            `json:"productId" validate:"required,gt=0"`
	Quantity  int             `json:"quantity" validate:"required,gt=0,lte=100"`
	Price     decimal.Decimal `json:"price"`
	Warranty  string          `json:"warranty" validate:"omitempty,oneof=none 2year 4year"`
}

type ShippingAddressInput struct {
	FullName    string `json:"fullName" validate:"required,max=120"`
	Phone       string `json:"phone" validate:"required,max=20"`
	City        string `json:"city" validate:"required,max=60"`
	District    string `json:"district" validate:"required,max=60"`
	AddressLine string `json:"addressLine" validate:"required,max=500"`
	PostalCode  string `json:"postalCode" validate:"omitempty,max=10"`
}

type CreateOrderInput struct {
	TotalAmount        decimal.Decimal       `json:"totalAmount"`
	OriginalAmount     decimal.Decimal       `json:"originalAmount"`
	DiscountAmount     decimal.Decimal       `json:"discountAmount"`
	CouponCode         string                `json:"couponCode" validate:"omitempty,max=50"`
	ShippingAddress    *ShippingAddressInput `json:"shippingAddress" validate:"required"`
	PaymentMethod      string                `json:"paymentMethod" validate:"required,oneof=bank-transfer virtual-pos credit-card"`
	VirtualPosConfigId *uint                 `json:"virtualPosConfigId" validate:"required_unless=PaymentMethod bank-transfer"`
	Installments       int                   `json:"installments" validate:"omitempty,gte=1,lte=12"`
	CartItems          []CartItemInput       `json:"cartItems" validate:"required,min=1,dive"`
}

type UpdateOrderStatusInput struct {
	Status string `json:"status" validate:"required"`
}

type UpdateTrackingCodeInput struct {
	TrackingCode string `json:"trackingCode" validate:"required,max=100"`
}

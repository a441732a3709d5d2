// Package checkout turns a cart into an order and hands it to the chosen
// payment path.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"appliance_store/constants"
	"appliance_store/coupon"
	"appliance_store/ledger"
	"appliance_store/metrics"
	"appliance_store/model"
	"appliance_store/notify"
	"appliance_store/payment"
	"appliance_store/pricing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrMissingAddress       = errors.New("shipping address is required")
	ErrInvalidQuantity      = errors.New("invalid item quantity")
	ErrProductUnavailable   = errors.New("product unavailable")
	ErrWarrantyUnavailable  = errors.New("extended warranty not offered for product")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrMissingPosConfig     = errors.New("virtual pos config is required")
)

type PaymentInitiator interface {
	Initiate(ctx context.Context, req payment.InitiateRequest) (*payment.InitiateResult, error)
}

type Notifier interface {
	OrderConfirmation(n notify.OrderConfirmation)
}

type Request struct {
	UserID uint
	Email  string
	Input  model.CreateOrderInput
}

// Result is returned once the order exists. PaymentError carries a
// user-facing message when the virtual POS hand-off failed; the order is
// kept either way.
type Result struct {
	Order        *model.Order            `json:"order"`
	Payment      *payment.InitiateResult `json:"payment,omitempty"`
	PaymentError string                  `json:"paymentError,omitempty"`
}

type Service struct {
	db       *gorm.DB
	ledger   *ledger.Ledger
	coupons  *coupon.Service
	warranty *pricing.WarrantyResolver
	payments PaymentInitiator
	notifier Notifier
	log      *zap.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(
	db *gorm.DB,
	l *ledger.Ledger,
	coupons *coupon.Service,
	warranty *pricing.WarrantyResolver,
	payments PaymentInitiator,
	notifier Notifier,
	log *zap.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		db:       db,
		ledger:   l,
		coupons:  coupons,
		warranty: warranty,
		payments: payments,
		notifier: notifier,
		log:      log,
		metrics:  m,
		now:      time.Now,
	}
}

func validAddress(a *model.ShippingAddressInput) bool {
	return a != nil &&
		strings.TrimSpace(a.FullName) != "" &&
		strings.TrimSpace(a.AddressLine) != "" &&
		strings.TrimSpace(a.City) != ""
}

// priceLines prices every cart line from the catalog. Client prices are only
// compared, never trusted.
func (s *Service) priceLines(ctx context.Context, cart []model.CartItemInput) ([]model.OrderItem, decimal.Decimal, error) {
	ids := make([]uint, 0, len(cart))
	for _, line := range cart {
		if line.Quantity <= 0 {
			return nil, decimal.Zero, ErrInvalidQuantity
		}
		ids = append(ids, line.ProductId)
	}

	var products []model.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, decimal.Zero, fmt.Errorf("load products: %w", err)
	}
	catalog := make(map[uint]model.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}

	items := make([]model.OrderItem, 0, len(cart))
	original := decimal.Zero
	for _, line := range cart {
		product, ok := catalog[line.ProductId]
		if !ok || !product.IsActive {
			return nil, decimal.Zero, fmt.Errorf("product %d: %w", line.ProductId, ErrProductUnavailable)
		}
		if !line.Price.IsZero() && !line.Price.Equal(product.Price) {
			s.log.Warn("cart price differs from catalog",
				zap.Uint("productId", product.ID),
				zap.String("cartPrice", line.Price.String()),
				zap.String("catalogPrice", product.Price.String()),
			)
		}

		tier := line.Warranty
		if tier == "" {
			tier = model.WarrantyNone
		}
		unitWarranty := decimal.Zero
		if tier != model.WarrantyNone {
			category, err := s.warranty.Resolve(ctx, product)
			if err != nil {
				return nil, decimal.Zero, fmt.Errorf("resolve warranty: %w", err)
			}
			if category == nil {
				return nil, decimal.Zero, fmt.Errorf("product %d: %w", product.ID, ErrWarrantyUnavailable)
			}
			unitWarranty = pricing.UnitWarrantyPrice(tier, category)
		}

		item := model.OrderItem{
			ProductId:     product.ID,
			Quantity:      line.Quantity,
			Price:         product.Price,
			Warranty:      &tier,
			WarrantyPrice: unitWarranty,
		}
		original = original.Add(item.LineTotal())
		items = append(items, item)
	}
	return items, original, nil
}

// PlaceOrder validates and prices the cart, stores the order and starts the
// payment path. Errors returned before the order is stored mean nothing was
// persisted; after that point failures are reported in the Result.
func (s *Service) PlaceOrder(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	defer func() { s.metrics.CheckoutDuration.Observe(time.Since(start).Seconds()) }()

	input := req.Input
	if len(input.CartItems) == 0 {
		return nil, ErrEmptyCart
	}
	if !validAddress(input.ShippingAddress) {
		return nil, ErrMissingAddress
	}
	method := model.NormalizePaymentMethod(input.PaymentMethod)
	if method != model.PaymentMethodBankTransfer && method != model.PaymentMethodVirtualPos {
		return nil, ErrInvalidPaymentMethod
	}
	if method == model.PaymentMethodVirtualPos && (input.VirtualPosConfigId == nil || *input.VirtualPosConfigId == 0) {
		return nil, ErrMissingPosConfig
	}

	items, original, err := s.priceLines(ctx, input.CartItems)
	if err != nil {
		return nil, err
	}

	var applied *model.Coupon
	var couponCode *string
	if strings.TrimSpace(input.CouponCode) != "" {
		applied, err = s.coupons.Validate(ctx, input.CouponCode, original, s.now())
		if err != nil {
			return nil, err
		}
		couponCode = &applied.Code
	}
	discount := pricing.ComputeDiscount(applied, original)
	total := pricing.ComputeFinalTotal(original, discount)

	if !input.TotalAmount.IsZero() && !input.TotalAmount.Equal(total) {
		s.log.Warn("client total differs from computed total",
			zap.Uint("userId", req.UserID),
			zap.String("clientTotal", input.TotalAmount.String()),
			zap.String("clientDiscount", input.DiscountAmount.String()),
			zap.String("computedTotal", total.String()),
			zap.String("computedDiscount", discount.String()),
		)
	}

	address, err := json.Marshal(input.ShippingAddress)
	if err != nil {
		return nil, fmt.Errorf("encode shipping address: %w", err)
	}

	order := model.Order{
		UserId:          req.UserID,
		ContactEmail:    req.Email,
		TotalAmount:     total,
		OriginalAmount:  original,
		DiscountAmount:  discount,
		CouponCode:      couponCode,
		ShippingAddress: string(address),
		PaymentMethod:   method,
		Status:          model.InitialStatus(method),
		PaymentStatus:   model.PaymentStatusPending,
	}

	var created *model.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = s.ledger.WithTx(tx).CreateOrder(ctx, order, items)
		if err != nil {
			return err
		}
		if applied != nil {
			return s.coupons.Redeem(ctx, tx, applied, req.UserID, created.ID, discount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrdersCreated.WithLabelValues(method).Inc()
	s.log.Info("order created",
		zap.String("orderNumber", created.OrderNumber),
		zap.Uint("userId", req.UserID),
		zap.String("paymentMethod", method),
		zap.String("total", total.String()),
	)

	// from here on the order exists and failures are soft
	result := &Result{Order: created}
	if full, err := s.ledger.GetOrder(ctx, created.ID); err != nil {
		s.log.Warn("failed to reload created order", zap.String("orderNumber", created.OrderNumber), zap.Error(err))
	} else if full != nil {
		result.Order = full
	}

	switch method {
	case model.PaymentMethodBankTransfer:
		s.notifier.OrderConfirmation(notify.ConfirmationFor(*result.Order))
	case model.PaymentMethodVirtualPos:
		res, err := s.payments.Initiate(ctx, payment.InitiateRequest{
			OrderID:            created.ID,
			UserID:             req.UserID,
			VirtualPosConfigID: *input.VirtualPosConfigId,
			Amount:             total,
			Installments:       input.Installments,
		})
		if err != nil {
			s.log.Error("payment initiation failed", zap.String("orderNumber", created.OrderNumber), zap.Error(err))
			result.PaymentError = PaymentErrorMessage(err)
		} else {
			result.Payment = res
		}
	}
	return result, nil
}

// PaymentErrorMessage maps a payment initiation error to a customer message.
func PaymentErrorMessage(err error) string {
	switch {
	case errors.Is(err, payment.ErrConfigNotFound):
		return constants.ERROR_POS_NOT_FOUND
	case errors.Is(err, payment.ErrAmountMismatch):
		return constants.ERROR_AMOUNT_MISMATCH
	default:
		return constants.ERROR_PAYMENT_INIT_FAILED
	}
}

// Package ledger persists orders and their line items.
package ledger

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"appliance_store/model"
	"appliance_store/utils"

	"gorm.io/gorm"
)

var ErrInvalidStatus = errors.New("invalid order status")

type Ledger struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db, now: time.Now}
}

// WithTx returns a ledger bound to tx, so order writes can share a
// transaction with other work such as coupon redemption.
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{db: tx, now: l.now}
}

// NewOrderNumber returns ORD-<unix ms>-<4 hex>. The random suffix keeps two
// orders placed in the same millisecond apart.
func NewOrderNumber(now time.Time) string {
	b := make([]byte, 2)
	if _, err := rand.Read(b); err != nil {
		b = []byte{byte(now.Nanosecond() >> 8), byte(now.Nanosecond())}
	}
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), hex.EncodeToString(b))
}

// CreateOrder assigns an order number, stores the order and then each item.
// The returned order has no items attached.
func (l *Ledger) CreateOrder(ctx context.Context, order model.Order, items []model.OrderItem) (*model.Order, error) {
	order.ID = 0
	order.Items = nil
	order.OrderNumber = NewOrderNumber(l.now())

	db := l.db.WithContext(ctx)
	if err := db.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	for i := range items {
		item := items[i]
		item.ID = 0
		item.OrderId = order.ID
		item.Product = nil
		if err := db.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
	}
	return &order, nil
}

func (l *Ledger) withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id asc")
	}).Preload("Items.Product")
}

// dropDangling removes items whose product row no longer exists.
func dropDangling(order *model.Order) {
	kept := order.Items[:0]
	for _, item := range order.Items {
		if item.Product != nil {
			kept = append(kept, item)
		}
	}
	order.Items = kept
}

func (l *Ledger) first(ctx context.Context, query any, args ...any) (*model.Order, error) {
	var order model.Order
	err := l.withItems(l.db.WithContext(ctx)).Where(query, args...).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	dropDangling(&order)
	return &order, nil
}

// GetOrder returns the order with its items and products, or nil when it
// does not exist.
func (l *Ledger) GetOrder(ctx context.Context, id uint) (*model.Order, error) {
	return l.first(ctx, "id = ?", id)
}

func (l *Ledger) GetOrderByNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	return l.first(ctx, "order_number = ?", orderNumber)
}

func (l *Ledger) ListOrdersByUser(ctx context.Context, userID uint, pagination model.Pagination) ([]model.Order, int64, error) {
	var (
		orders []model.Order
		total  int64
	)
	base := func() *gorm.DB {
		return l.db.WithContext(ctx).Model(&model.Order{}).Where("user_id = ?", userID)
	}
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := utils.ApplyPagination(l.withItems(base()), pagination.Limit, pagination.Page)
	if err := query.Order("created_at desc").Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	for i := range orders {
		dropDangling(&orders[i])
	}
	return orders, total, nil
}

func (l *Ledger) update(ctx context.Context, id uint, values map[string]any) (*model.Order, error) {
	res := l.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return l.GetOrder(ctx, id)
}

// UpdateOrderStatus overwrites the status. Transition rules are the
// caller's business; the last writer wins.
func (l *Ledger) UpdateOrderStatus(ctx context.Context, id uint, status string) (*model.Order, error) {
	if !model.IsValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}
	return l.update(ctx, id, map[string]any{"status": status})
}

func (l *Ledger) UpdateOrderTrackingCode(ctx context.Context, id uint, code string) (*model.Order, error) {
	return l.update(ctx, id, map[string]any{"tracking_code": code})
}

// MarkPaid records a completed payment and moves the order to status.
func (l *Ledger) MarkPaid(ctx context.Context, id uint, status string) (*model.Order, error) {
	if !model.IsValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}
	return l.update(ctx, id, map[string]any{
		"payment_status": model.PaymentStatusCompleted,
		"status":         status,
		"paid_at":        l.now(),
	})
}

// Package payment drives hosted 3-D Secure virtual POS payments: it signs
// the outbound bank request, renders the auto-submit form and reconciles
// the bank callback with the order.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"appliance_store/cache"
	"appliance_store/ledger"
	"appliance_store/metrics"
	"appliance_store/model"
	"appliance_store/notify"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrConfigNotFound      = errors.New("virtual pos config not found or inactive")
	ErrOrderNotFound       = errors.New("order not found")
	ErrNotVirtualPos       = errors.New("order is not paid by virtual pos")
	ErrAlreadyPaid         = errors.New("order is already paid")
	ErrOrderCancelled      = errors.New("order is cancelled")
	ErrAmountMismatch      = errors.New("amount does not match order total")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrTransactionNotFound = errors.New("payment transaction not found")
	ErrTransactionClosed   = errors.New("payment transaction is no longer pending")
)

const configTTL = 5 * time.Minute

// Notifier receives the confirmation fired after a successful payment.
type Notifier interface {
	OrderConfirmation(n notify.OrderConfirmation)
}

type Options struct {
	// APIBaseURL is this service's public base URL, used for the form link.
	APIBaseURL string
	// FrontendURL is the storefront base URL the callback redirects to.
	FrontendURL string
}

type Service struct {
	db       *gorm.DB
	ledger   *ledger.Ledger
	cache    cache.Cache
	notifier Notifier
	log      *zap.Logger
	metrics  *metrics.Metrics
	opts     Options
	now      func() time.Time
}

func NewService(db *gorm.DB, l *ledger.Ledger, c cache.Cache, n Notifier, log *zap.Logger, m *metrics.Metrics, opts Options) *Service {
	opts.APIBaseURL = strings.TrimRight(opts.APIBaseURL, "/")
	opts.FrontendURL = strings.TrimRight(opts.FrontendURL, "/")
	return &Service{db: db, ledger: l, cache: c, notifier: n, log: log, metrics: m, opts: opts, now: time.Now}
}

// LoadConfig returns an active POS configuration. The cache holds the
// configuration without its api password, which is always read from the
// database row.
func (s *Service) LoadConfig(ctx context.Context, id uint) (*model.VirtualPosConfig, error) {
	key := s.cache.GenerateKey("pos-config", fmt.Sprint(id))

	var cfg model.VirtualPosConfig
	found, err := s.cache.Get(ctx, key, &cfg)
	if err != nil || !found {
		err = s.db.WithContext(ctx).Omit("api_password").First(&cfg, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConfigNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("load pos config: %w", err)
		}
		if err := s.cache.Set(ctx, key, cfg, configTTL); err != nil {
			s.log.Warn("failed to cache pos config", zap.Uint("id", id), zap.Error(err))
		}
	}
	if !cfg.IsActive {
		return nil, ErrConfigNotFound
	}

	var passwords []string
	err = s.db.WithContext(ctx).
		Model(&model.VirtualPosConfig{}).
		Where("id = ?", id).
		Pluck("api_password", &passwords).Error
	if err != nil {
		return nil, fmt.Errorf("load pos credentials: %w", err)
	}
	if len(passwords) == 0 {
		return nil, ErrConfigNotFound
	}
	cfg.ApiPassword = passwords[0]
	return &cfg, nil
}

// ListConfigs returns the active POS configurations in display order.
func (s *Service) ListConfigs(ctx context.Context) ([]model.VirtualPosConfig, error) {
	var configs []model.VirtualPosConfig
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order asc").
		Order("id asc").
		Find(&configs).Error
	return configs, err
}

type InitiateRequest struct {
	OrderID            uint
	UserID             uint
	VirtualPosConfigID uint
	Amount             decimal.Decimal
	Installments       int
}

type InitiateResult struct {
	TransactionID  string `json:"transactionId"`
	PaymentFormURL string `json:"paymentFormUrl"`
	RedirectURL    string `json:"redirectUrl"`
}

// NewReferenceNumber returns a fresh bank-facing order reference: 32
// uppercase hex characters, unrelated to any internal id.
func NewReferenceNumber() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// Initiate records a new payment attempt for an unpaid virtual POS order and
// returns where to send the customer. Every call creates a new transaction
// with its own reference number.
func (s *Service) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	cfg, err := s.LoadConfig(ctx, req.VirtualPosConfigID)
	if err != nil {
		return nil, err
	}

	order, err := s.ledger.GetOrder(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order == nil || order.UserId != req.UserID {
		return nil, ErrOrderNotFound
	}
	if model.NormalizePaymentMethod(order.PaymentMethod) != model.PaymentMethodVirtualPos {
		return nil, ErrNotVirtualPos
	}
	if order.PaymentStatus == model.PaymentStatusCompleted {
		return nil, ErrAlreadyPaid
	}
	if order.Status == model.OrderStatusCancelled {
		return nil, ErrOrderCancelled
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !req.Amount.Equal(order.TotalAmount) {
		return nil, ErrAmountMismatch
	}

	installments := req.Installments
	if installments < 1 {
		installments = 1
	}

	tx := model.PaymentTransaction{
		TransactionId:      uuid.NewString(),
		OrderId:            order.ID,
		UserId:             order.UserId,
		VirtualPosConfigId: cfg.ID,
		Amount:             order.TotalAmount,
		Currency:           cfg.Currency,
		Status:             model.TransactionStatusPending,
		ThreeDSecure:       cfg.Is3D(),
		Installments:       installments,
		ReferenceNumber:    NewReferenceNumber(),
		RequestTimestamp:   Timestamp(s.now()),
	}
	tx.RequestHash = ComputeHash(HashInput{
		TerminalId:      cfg.TerminalId,
		ReferenceNumber: tx.ReferenceNumber,
		Amount:          tx.Amount,
		Installments:    tx.Installments,
		SuccessUrl:      cfg.SuccessUrl,
		FailUrl:         cfg.FailUrl,
		Timestamp:       tx.RequestTimestamp,
		ApiPassword:     cfg.ApiPassword,
	})

	if err := s.db.WithContext(ctx).Create(&tx).Error; err != nil {
		return nil, fmt.Errorf("create payment transaction: %w", err)
	}

	s.metrics.PaymentsInitiated.WithLabelValues(cfg.BankName).Inc()
	s.log.Info("payment initiated",
		zap.String("orderNumber", order.OrderNumber),
		zap.String("transactionId", tx.TransactionId),
		zap.String("reference", tx.ReferenceNumber),
		zap.String("bank", cfg.BankName),
	)

	formPath := "/api/payment/virtual-pos/form/" + tx.TransactionId
	return &InitiateResult{
		TransactionID:  tx.TransactionId,
		PaymentFormURL: formPath,
		RedirectURL:    s.opts.APIBaseURL + formPath,
	}, nil
}

// ExpireStale marks pending transactions older than ttl as expired. A late
// success callback still completes an expired transaction.
func (s *Service) ExpireStale(ctx context.Context, ttl time.Duration) (int64, error) {
	cutoff := s.now().Add(-ttl)
	res := s.db.WithContext(ctx).
		Model(&model.PaymentTransaction{}).
		Where("status = ? AND created_at < ?", model.TransactionStatusPending, cutoff).
		Update("status", model.TransactionStatusExpired)
	if res.Error != nil {
		return 0, fmt.Errorf("expire payment transactions: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		s.metrics.ExpiredTransaction.Add(float64(res.RowsAffected))
		s.log.Info("payment transactions expired", zap.Int64("count", res.RowsAffected))
	}
	return res.RowsAffected, nil
}

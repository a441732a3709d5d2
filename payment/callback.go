package payment

import (
	"context"
	"fmt"
	"net/url"

	"appliance_store/constants"
	"appliance_store/model"
	"appliance_store/notify"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CallbackResult is the outcome of one bank callback.
type CallbackResult struct {
	Success bool
	// Duplicate is set when the callback changed nothing because the
	// transaction was already settled.
	Duplicate   bool
	Order       *model.Order
	Message     string
	RedirectURL string
}

func (s *Service) confirmationURL(order *model.Order) string {
	return s.opts.FrontendURL + "/order-confirmation?orderNumber=" + url.QueryEscape(order.OrderNumber)
}

// FailureURL sends the customer back to checkout with message shown.
func (s *Service) FailureURL(message string) string {
	return s.opts.FrontendURL + "/checkout?error=" + url.QueryEscape(message)
}

func failureMessage(cb model.PaymentCallback) string {
	switch {
	case cb.ErrMsg != "":
		return cb.ErrMsg
	case cb.Message != "":
		return cb.Message
	default:
		return constants.ERROR_PAYMENT_FAILED
	}
}

func (s *Service) responseColumns(cb model.PaymentCallback) map[string]any {
	return map[string]any{
		"response_code":    cb.Response,
		"proc_return_code": cb.ProcReturnCode,
		"auth_code":        cb.AuthCode,
		"bank_trans_id":    cb.TransId,
		"host_ref_num":     cb.HostRefNum,
	}
}

// HandleCallback reconciles a bank callback with its transaction and order.
// Callbacks are matched on the reference number the bank echoes back in
// OrderId. A transaction completes at most once, so repeated success
// callbacks neither update the order again nor re-send the confirmation.
// A success for an order another attempt already paid completes its own
// transaction and is logged as a double payment without touching the order.
// The bank protocol carries no response signature, so the callback is
// trusted as delivered over HTTPS.
func (s *Service) HandleCallback(ctx context.Context, cb model.PaymentCallback) (*CallbackResult, error) {
	tx, err := s.findTransaction(ctx, "reference_number = ?", cb.OrderId)
	if err != nil {
		s.metrics.PaymentCallbacks.WithLabelValues("unknown").Inc()
		s.log.Warn("callback for unknown transaction", zap.String("reference", cb.OrderId), zap.Error(err))
		return nil, err
	}

	if cb.Succeeded() {
		return s.handleSuccess(ctx, tx, cb)
	}
	return s.handleFailure(ctx, tx, cb)
}

func (s *Service) handleSuccess(ctx context.Context, tx *model.PaymentTransaction, cb model.PaymentCallback) (*CallbackResult, error) {
	var (
		order      *model.Order
		duplicate  bool
		doublePaid bool
		paidRef    string
	)
	err := s.db.WithContext(ctx).Transaction(func(dbTx *gorm.DB) error {
		values := s.responseColumns(cb)
		values["status"] = model.TransactionStatusCompleted
		values["error_message"] = ""
		values["completed_at"] = s.now()

		res := dbTx.Model(&model.PaymentTransaction{}).
			Where("id = ? AND status <> ?", tx.ID, model.TransactionStatusCompleted).
			Updates(values)
		if res.Error != nil {
			return fmt.Errorf("complete payment transaction: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			duplicate = true
			return nil
		}

		l := s.ledger.WithTx(dbTx)
		current, err := l.GetOrder(ctx, tx.OrderId)
		if err != nil {
			return fmt.Errorf("load order: %w", err)
		}
		if current == nil {
			return fmt.Errorf("order %d of transaction %s: %w", tx.OrderId, tx.TransactionId, ErrOrderNotFound)
		}

		// another attempt already paid the order; keep this capture on record only
		if current.PaymentStatus == model.PaymentStatusCompleted {
			var earlier model.PaymentTransaction
			err := dbTx.Where("order_id = ? AND id <> ? AND status = ?", current.ID, tx.ID, model.TransactionStatusCompleted).
				Order("completed_at").
				Limit(1).
				Find(&earlier).Error
			if err != nil {
				return fmt.Errorf("load earlier payment: %w", err)
			}
			doublePaid = true
			paidRef = earlier.ReferenceNumber
			order = current
			return nil
		}

		next := current.Status
		switch current.Status {
		case model.OrderStatusAwaitingPayment, model.OrderStatusPending:
			next = model.OrderStatusPreparing
		case model.OrderStatusCancelled:
			s.log.Warn("payment captured for cancelled order",
				zap.String("orderNumber", current.OrderNumber),
				zap.String("reference", tx.ReferenceNumber),
			)
		}
		order, err = l.MarkPaid(ctx, current.ID, next)
		return err
	})
	if err != nil {
		return nil, err
	}

	if doublePaid {
		s.metrics.PaymentCallbacks.WithLabelValues("double_payment").Inc()
		s.log.Warn("second payment captured for paid order",
			zap.String("orderNumber", order.OrderNumber),
			zap.String("reference", tx.ReferenceNumber),
			zap.String("paidReference", paidRef),
			zap.String("authCode", cb.AuthCode),
		)
		return &CallbackResult{Success: true, Duplicate: true, Order: order, RedirectURL: s.confirmationURL(order)}, nil
	}

	if duplicate {
		s.metrics.PaymentCallbacks.WithLabelValues("duplicate").Inc()
		s.log.Info("duplicate success callback acknowledged", zap.String("reference", tx.ReferenceNumber))
		order, err = s.ledger.GetOrder(ctx, tx.OrderId)
		if err != nil {
			return nil, fmt.Errorf("load order: %w", err)
		}
		if order == nil {
			return nil, ErrOrderNotFound
		}
		return &CallbackResult{Success: true, Duplicate: true, Order: order, RedirectURL: s.confirmationURL(order)}, nil
	}

	s.metrics.PaymentCallbacks.WithLabelValues("success").Inc()
	s.log.Info("payment completed",
		zap.String("orderNumber", order.OrderNumber),
		zap.String("reference", tx.ReferenceNumber),
		zap.String("authCode", cb.AuthCode),
	)
	if order.Status != model.OrderStatusCancelled {
		s.notifier.OrderConfirmation(notify.ConfirmationFor(*order))
	}

	return &CallbackResult{Success: true, Order: order, RedirectURL: s.confirmationURL(order)}, nil
}

func (s *Service) handleFailure(ctx context.Context, tx *model.PaymentTransaction, cb model.PaymentCallback) (*CallbackResult, error) {
	message := failureMessage(cb)

	values := s.responseColumns(cb)
	values["status"] = model.TransactionStatusFailed
	values["error_message"] = message

	res := s.db.WithContext(ctx).
		Model(&model.PaymentTransaction{}).
		Where("id = ? AND status IN ?", tx.ID, []string{model.TransactionStatusPending, model.TransactionStatusExpired}).
		Updates(values)
	if res.Error != nil {
		return nil, fmt.Errorf("fail payment transaction: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		s.metrics.PaymentCallbacks.WithLabelValues("duplicate").Inc()
		// a failure arriving after the payment completed does not undo it
		if tx.Status == model.TransactionStatusCompleted {
			order, err := s.ledger.GetOrder(ctx, tx.OrderId)
			if err != nil {
				return nil, fmt.Errorf("load order: %w", err)
			}
			if order != nil {
				return &CallbackResult{Success: true, Duplicate: true, Order: order, RedirectURL: s.confirmationURL(order)}, nil
			}
		}
		return &CallbackResult{Duplicate: true, Message: message, RedirectURL: s.FailureURL(message)}, nil
	}

	s.metrics.PaymentCallbacks.WithLabelValues("failure").Inc()
	s.log.Info("payment declined",
		zap.String("reference", tx.ReferenceNumber),
		zap.String("response", cb.Response),
		zap.String("procReturnCode", cb.ProcReturnCode),
		zap.String("message", message),
	)
	return &CallbackResult{Message: message, RedirectURL: s.FailureURL(message)}, nil
}

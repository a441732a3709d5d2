package payment

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"appliance_store/model"

	"gorm.io/gorm"
)

type FormField struct {
	Name  string
	Value string
}

// Form is the POST the customer's browser submits to the bank.
type Form struct {
	Action string
	Fields []FormField
}

// Value returns the value of the named field, or "".
func (f *Form) Value(name string) string {
	for _, field := range f.Fields {
		if field.Name == name {
			return field.Value
		}
	}
	return ""
}

func (s *Service) findTransaction(ctx context.Context, query string, arg any) (*model.PaymentTransaction, error) {
	var tx model.PaymentTransaction
	err := s.db.WithContext(ctx).Where(query, arg).First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load payment transaction: %w", err)
	}
	return &tx, nil
}

// BuildForm assembles the bank form for a pending transaction from the data
// frozen at initiation, so reloading the page yields the same request.
func (s *Service) BuildForm(ctx context.Context, transactionID string) (*Form, error) {
	tx, err := s.findTransaction(ctx, "transaction_id = ?", transactionID)
	if err != nil {
		return nil, err
	}
	if tx.Status != model.TransactionStatusPending {
		return nil, ErrTransactionClosed
	}

	var cfg model.VirtualPosConfig
	if err := s.db.WithContext(ctx).First(&cfg, tx.VirtualPosConfigId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("load pos config: %w", err)
	}

	securityLevel := "NON3D"
	if tx.ThreeDSecure {
		securityLevel = "3D"
	}

	return &Form{
		Action: cfg.GatewayUrl,
		Fields: []FormField{
			{"terminalId", cfg.TerminalId},
			{"orderId", tx.ReferenceNumber},
			{"txnType", txnTypeSales},
			{"amount", FormatAmount(tx.Amount)},
			{"installmentCount", strconv.Itoa(tx.Installments)},
			{"currencyCode", currencyCodeTRY},
			{"successUrl", cfg.SuccessUrl},
			{"failUrl", cfg.FailUrl},
			{"timestamp", tx.RequestTimestamp},
			{"secureLevel", securityLevel},
			{"lang", "tr"},
			{"hashAlgorithm", "SHA256"},
			{"hash", tx.RequestHash},
		},
	}, nil
}

var formTemplate = template.Must(template.New("pos-form").Parse(`<!DOCTYPE html>
<html lang="tr">
<head>
<meta charset="utf-8">
<title>Ödeme sayfasına yönlendiriliyorsunuz</title>
</head>
<body>
<p>Bankanızın güvenli ödeme sayfasına yönlendiriliyorsunuz, lütfen bekleyin...</p>
<form id="pos-form" method="POST" action="{{.Action}}">
{{- range .Fields}}
<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{- end}}
<noscript><button type="submit">Ödemeye devam et</button></noscript>
</form>
<script>setTimeout(function () { document.getElementById("pos-form").submit(); }, 3000);</script>
</body>
</html>
`))

// RenderForm writes the auto-submitting HTML page for form.
func RenderForm(w io.Writer, form *Form) error {
	return formTemplate.Execute(w, form)
}

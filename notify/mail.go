package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"appliance_store/config"
	"appliance_store/model"
	"appliance_store/utils"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const qrSize = 400

// MailDispatcher sends HTML email over SMTP.
type MailDispatcher struct {
	from        string
	frontendURL string
	send        func(m ...*gomail.Message) error
	log         *zap.Logger
}

func NewMailDispatcher(cfg config.SMTPConfig, frontendURL string, log *zap.Logger) *MailDispatcher {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &MailDispatcher{from: cfg.From, frontendURL: frontendURL, send: d.DialAndSend, log: log}
}

// NewMailDispatcherWithSender sends through s instead of dialing SMTP.
func NewMailDispatcherWithSender(s gomail.Sender, from, frontendURL string, log *zap.Logger) *MailDispatcher {
	return &MailDispatcher{
		from:        from,
		frontendURL: frontendURL,
		send:        func(m ...*gomail.Message) error { return gomail.Send(s, m...) },
		log:         log,
	}
}

func (m *MailDispatcher) detailLink(order model.Order) string {
	return fmt.Sprintf("%s/account/orders/%d", strings.TrimRight(m.frontendURL, "/"), order.ID)
}

func render(name string, data any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", err
	}
	return body.String(), nil
}

func (m *MailDispatcher) deliver(to, subject, body string, embedQR string) bool {
	if to == "" {
		m.log.Warn("notification skipped, no recipient", zap.String("subject", subject))
		return false
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if embedQR != "" {
		qr, err := utils.OrderQRCode(embedQR, qrSize)
		if err != nil {
			m.log.Warn("failed to generate order qr", zap.String("content", embedQR), zap.Error(err))
		} else {
			msg.Embed("order_qr.png",
				gomail.SetCopyFunc(func(w io.Writer) error {
					_, err := w.Write(qr)
					return err
				}),
				gomail.SetHeader(map[string][]string{
					"Content-Type":        {"image/png"},
					"Content-ID":          {"<order_qr>"},
					"Content-Disposition": {"inline"},
				}),
			)
		}
	}

	if err := m.send(msg); err != nil {
		m.log.Error("failed to send email", zap.String("to", to), zap.String("subject", subject), zap.Error(err))
		return false
	}
	m.log.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return true
}

func (m *MailDispatcher) SendOrderConfirmation(_ context.Context, n OrderConfirmation) bool {
	order := n.Order
	data := utils.OrderConfirmationData{
		OrderNumber:     order.OrderNumber,
		CustomerName:    n.Address.FullName,
		OriginalAmount:  utils.FormatTRY(order.OriginalAmount),
		DiscountAmount:  utils.FormatTRY(order.DiscountAmount),
		TotalAmount:     utils.FormatTRY(order.TotalAmount),
		PaymentMethod:   utils.PaymentMethodLabel(order.PaymentMethod),
		PaymentPending:  order.PaymentStatus != model.PaymentStatusCompleted,
		ShippingAddress: formatAddress(n.Address),
		DetailLink:      m.detailLink(order),
	}
	if order.CouponCode != nil {
		data.CouponCode = *order.CouponCode
	}
	for _, item := range order.Items {
		line := utils.OrderLine{
			Quantity:  item.Quantity,
			UnitPrice: utils.FormatTRY(item.Price),
			LineTotal: utils.FormatTRY(item.LineTotal()),
		}
		if item.Product != nil {
			line.ProductName = item.Product.Name
		}
		if item.Warranty != nil {
			line.Warranty = utils.WarrantyLabel(*item.Warranty)
		}
		data.Lines = append(data.Lines, line)
	}

	body, err := render("order_confirmation.html", data)
	if err != nil {
		m.log.Error("failed to render order confirmation", zap.String("orderNumber", order.OrderNumber), zap.Error(err))
		return false
	}
	return m.deliver(n.Email, "Sipariş Onayı - "+order.OrderNumber, body, order.OrderNumber)
}

func (m *MailDispatcher) SendOrderStatusUpdate(_ context.Context, n OrderStatusUpdate) bool {
	data := utils.OrderStatusUpdateData{
		OrderNumber: n.Order.OrderNumber,
		OldStatus:   utils.StatusLabel(n.OldStatus),
		NewStatus:   utils.StatusLabel(n.NewStatus),
		DetailLink:  m.detailLink(n.Order),
	}
	if n.Order.TrackingCode != nil {
		data.TrackingCode = *n.Order.TrackingCode
	}

	body, err := render("order_status.html", data)
	if err != nil {
		m.log.Error("failed to render status update", zap.String("orderNumber", n.Order.OrderNumber), zap.Error(err))
		return false
	}
	return m.deliver(n.Email, "Sipariş Durumu Güncellendi - "+n.Order.OrderNumber, body, "")
}

func (m *MailDispatcher) SendReturnDecision(_ context.Context, n ReturnDecision) bool {
	data := utils.ReturnDecisionData{
		OrderNumber: n.Order.OrderNumber,
		Approved:    n.Return.Status == model.ReturnStatusApproved,
		AdminNote:   n.Return.AdminNote,
		DetailLink:  m.detailLink(n.Order),
	}

	subject := "İade Talebiniz Reddedildi - " + n.Order.OrderNumber
	if data.Approved {
		subject = "İade Talebiniz Onaylandı - " + n.Order.OrderNumber
	}

	body, err := render("return_decision.html", data)
	if err != nil {
		m.log.Error("failed to render return decision", zap.String("orderNumber", n.Order.OrderNumber), zap.Error(err))
		return false
	}
	return m.deliver(n.Email, subject, body, "")
}

func formatAddress(a model.ShippingAddressInput) string {
	parts := []string{a.FullName, a.AddressLine, a.District + " / " + a.City}
	if a.PostalCode != "" {
		parts = append(parts, a.PostalCode)
	}
	if a.Phone != "" {
		parts = append(parts, "Tel: "+a.Phone)
	}
	return strings.Join(parts, ", ")
}

package notify

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"appliance_store/metrics"
	"appliance_store/model"
	"appliance_store/utils"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

func sampleOrder() model.Order {
	coupon := "SAVE10"
	warranty := model.WarrantyTwoYear
	order := model.Order{
		OrderNumber:     "ORD-1718000000123-ab12",
		ContactEmail:    "musteri@example.com",
		OriginalAmount:  decimal.RequireFromString("1000"),
		DiscountAmount:  decimal.RequireFromString("100"),
		TotalAmount:     decimal.RequireFromString("900"),
		CouponCode:      &coupon,
		ShippingAddress: `{"fullName":"Ayşe Yılmaz","phone":"05551112233","city":"İzmir","district":"Karşıyaka","addressLine":"Cumhuriyet Cad. No:5"}`,
		PaymentMethod:   model.PaymentMethodBankTransfer,
		Status:          model.OrderStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		Items: []model.OrderItem{
			{Quantity: 1, Price: decimal.RequireFromString("1000"), Warranty: &warranty, Product: &model.Product{Name: "Buzdolabı"}},
		},
	}
	order.ID = 12
	return order
}

type capture struct {
	from string
	to   []string
	raw  string
}

func TestConfirmationFor(t *testing.T) {
	n := ConfirmationFor(sampleOrder())
	assert.Equal(t, "musteri@example.com", n.Email)
	assert.Equal(t, "Ayşe Yılmaz", n.Address.FullName)
	assert.Equal(t, "İzmir", n.Address.City)

	broken := sampleOrder()
	broken.ShippingAddress = "not json"
	n = ConfirmationFor(broken)
	assert.Empty(t, n.Address.FullName)
}

func TestRenderOrderConfirmation(t *testing.T) {
	body, err := render("order_confirmation.html", utils.OrderConfirmationData{
		OrderNumber:    "ORD-1-ab12",
		CustomerName:   "Ayşe",
		TotalAmount:    "900,00 TL",
		CouponCode:     "SAVE10",
		PaymentPending: true,
		Lines:          []utils.OrderLine{{ProductName: "Buzdolabı", Quantity: 1, Warranty: "+2 Yıl Uzatılmış Garanti"}},
	})
	require.NoError(t, err)
	assert.Contains(t, body, "ORD-1-ab12")
	assert.Contains(t, body, "900,00 TL")
	assert.Contains(t, body, "SAVE10")
	assert.Contains(t, body, "Havale")
	assert.Contains(t, body, "cid:order_qr")
}

func TestMailDispatcherSends(t *testing.T) {
	var got []capture
	sender := gomail.SendFunc(func(from string, to []string, msg io.WriterTo) error {
		c := capture{from: from, to: to}
		var sb strings.Builder
		_, _ = msg.WriteTo(&sb)
		c.raw = sb.String()
		got = append(got, c)
		return nil
	})
	d := NewMailDispatcherWithSender(sender, "magaza@example.com", "http://localhost:5173", zap.NewNop())
	ctx := context.Background()

	assert.True(t, d.SendOrderConfirmation(ctx, ConfirmationFor(sampleOrder())))
	assert.True(t, d.SendOrderStatusUpdate(ctx, OrderStatusUpdate{
		Email: "musteri@example.com", Order: sampleOrder(), OldStatus: "pending", NewStatus: "shipped",
	}))
	assert.True(t, d.SendReturnDecision(ctx, ReturnDecision{
		Email: "musteri@example.com", Order: sampleOrder(), Return: model.ReturnRequest{Status: model.ReturnStatusApproved},
	}))

	require.Len(t, got, 3)
	for _, c := range got {
		assert.Equal(t, "magaza@example.com", c.from)
		assert.Equal(t, []string{"musteri@example.com"}, c.to)
	}
	assert.Contains(t, got[0].raw, "image/png")
}

func TestMailDispatcherReportsFailure(t *testing.T) {
	sender := gomail.SendFunc(func(string, []string, io.WriterTo) error {
		return errors.New("smtp down")
	})
	d := NewMailDispatcherWithSender(sender, "magaza@example.com", "", zap.NewNop())
	assert.False(t, d.SendOrderConfirmation(context.Background(), ConfirmationFor(sampleOrder())))

	noRecipient := ConfirmationFor(sampleOrder())
	noRecipient.Email = ""
	assert.False(t, d.SendOrderConfirmation(context.Background(), noRecipient))
}

type stubDispatcher struct {
	result bool
	panics bool
}

func (s stubDispatcher) SendOrderConfirmation(context.Context, OrderConfirmation) bool {
	if s.panics {
		panic("boom")
	}
	return s.result
}

func (s stubDispatcher) SendOrderStatusUpdate(context.Context, OrderStatusUpdate) bool {
	return s.result
}

func (s stubDispatcher) SendReturnDecision(context.Context, ReturnDecision) bool {
	return s.result
}

func TestRunnerCountsResults(t *testing.T) {
	m := metrics.NewNop()

	ok := NewRunner(stubDispatcher{result: true}, zap.NewNop(), m)
	ok.OrderConfirmation(ConfirmationFor(sampleOrder()))
	ok.OrderStatusUpdate(OrderStatusUpdate{})
	ok.Wait()

	failing := NewRunner(stubDispatcher{result: false}, zap.NewNop(), m)
	failing.ReturnDecision(ReturnDecision{})
	failing.Wait()

	panicking := NewRunner(stubDispatcher{panics: true}, zap.NewNop(), m)
	panicking.OrderConfirmation(OrderConfirmation{})
	panicking.Wait()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Notifications.WithLabelValues("order_confirmation", "sent")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Notifications.WithLabelValues("order_status_update", "sent")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Notifications.WithLabelValues("return_decision", "failed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Notifications.WithLabelValues("order_confirmation", "failed")))
}

package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// OrderLine is one row of the order table in notification emails.
type OrderLine struct {
	ProductName string
	Quantity    int
	UnitPrice   string
	Warranty    string
	LineTotal   string
}

// OrderConfirmationData is the template data for the order confirmation email.
type OrderConfirmationData struct {
	OrderNumber     string
	CustomerName    string
	Lines           []OrderLine
	OriginalAmount  string
	DiscountAmount  string
	CouponCode      string
	TotalAmount     string
	PaymentMethod   string
	PaymentPending  bool
	ShippingAddress string
	DetailLink      string
}

type OrderStatusUpdateData struct {
	OrderNumber  string
	OldStatus    string
	NewStatus    string
	TrackingCode string
	DetailLink   string
}

type ReturnDecisionData struct {
	OrderNumber string
	Approved    bool
	AdminNote   string
	DetailLink  string
}

// FormatTRY renders an amount as Turkish lira, e.g. 12.345,60 TL.
func FormatTRY(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := b.String() + "," + frac + " TL"
	if neg {
		out = "-" + out
	}
	return out
}

var statusLabels = map[string]string{
	"awaiting_payment": "Ödeme Bekleniyor",
	"pending":          "Onay Bekliyor",
	"preparing":        "Hazırlanıyor",
	"ready_to_ship":    "Kargoya Hazır",
	"shipped":          "Kargoya Verildi",
	"in_transit":       "Yolda",
	"delivered":        "Teslim Edildi",
	"cancelled":        "İptal Edildi",
}

// StatusLabel returns the customer-facing Turkish label of an order status.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

var paymentMethodLabels = map[string]string{
	"bank-transfer": "Havale / EFT",
	"virtual-pos":   "Kredi Kartı",
	"credit-card":   "Kredi Kartı",
}

func PaymentMethodLabel(method string) string {
	if label, ok := paymentMethodLabels[method]; ok {
		return label
	}
	return method
}

var warrantyLabels = map[string]string{
	"2year": "+2 Yıl Uzatılmış Garanti",
	"4year": "+4 Yıl Uzatılmış Garanti",
}

func WarrantyLabel(tier string) string {
	return warrantyLabels[tier]
}

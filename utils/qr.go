package utils

import (
	"errors"

	"github.com/skip2/go-qrcode"
)

// OrderQRCode encodes an order number as a PNG. Staff scan it at delivery to
// pull up the order.
func OrderQRCode(orderNumber string, size int) ([]byte, error) {
	if orderNumber == "" {
		return nil, errors.New("empty order number")
	}
	qr, err := qrcode.New(orderNumber, qrcode.High)
	if err != nil {
		return nil, err
	}
	return qr.PNG(size)
}

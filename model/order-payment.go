package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
	TransactionStatusExpired   = "expired"
)

// PaymentTransaction is one virtual-POS payment attempt. ReferenceNumber is
// the identifier the bank sees; it is unique per attempt and never equal to
// the internal order id.
type PaymentTransaction struct {
	DTO
	TransactionId      string          `gorm:"uniqueIndex;size:36;not null" json:"transactionId"`
	OrderId            uint            `gorm:"index;not null" json:"orderId"`
	UserId             uint            `gorm:"index;not null" json:"userId"`
	VirtualPosConfigId uint            `gorm:"not null" json:"virtualPosConfigId"`
	Amount             decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency           string          `gorm:"size:3;not null" json:"currency"`
	Status             string          `gorm:"size:20;not null;index" json:"status"`
	ThreeDSecure       bool            `json:"threeDSecure"`
	Installments       int             `gorm:"not null;default:1" json:"installments"`
	ReferenceNumber    string          `gorm:"uniqueIndex;size:40;not null" json:"referenceNumber"`
	RequestTimestamp   string          `gorm:"size:14;not null" json:"-"`
	RequestHash        string          `gorm:"size:64;not null" json:"-"`

	ResponseCode   string     `gorm:"size:10" json:"responseCode,omitempty"`
	ProcReturnCode string     `gorm:"size:10" json:"procReturnCode,omitempty"`
	AuthCode       string     `gorm:"size:20" json:"authCode,omitempty"`
	BankTransId    string     `gorm:"size:64" json:"bankTransId,omitempty"`
	HostRefNum     string     `gorm:"size:64" json:"hostRefNum,omitempty"`
	ErrorMessage   string     `gorm:"size:500" json:"errorMessage,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

type InitiatePaymentInput struct {
	OrderId            uint            `json:"orderId" validate:"required,gt=0"`
	VirtualPosConfigId uint            `json:"virtualPosConfigId" validate:"required,gt=0"`
	Amount             decimal.Decimal `json:"amount"`
	Installments       int             `json:"installments" validate:"omitempty,gte=1,lte=12"`
}

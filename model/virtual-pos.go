package model

// VirtualPosConfig is admin-managed bank terminal configuration. Checkout only
// reads it.
type VirtualPosConfig struct {
	DTO
	BankName     string `gorm:"not null" json:"bankName"`
	TerminalId   string `gorm:"not null" json:"terminalId"`
	ApiPassword  string `gorm:"not null" json:"-"`
	PosType      string `gorm:"size:10;not null;default:'3d'" json:"posType"`
	Currency     string `gorm:"size:3;not null;default:'TRY'" json:"currency"`
	GatewayUrl   string `gorm:"not null" json:"gatewayUrl"`
	SuccessUrl   string `gorm:"not null" json:"successUrl"`
	FailUrl      string `gorm:"not null" json:"failUrl"`
	IsActive     bool   `gorm:"not null" json:"isActive"`
	DisplayOrder int    `gorm:"not null;default:0" json:"displayOrder"`
}

func (c VirtualPosConfig) Is3D() bool {
	return c.PosType == "3d"
}

// PaymentCallback holds the fields the bank posts back after the 3-D Secure
// page. OrderId is the bank-facing reference number.
type PaymentCallback struct {
	Response       string `form:"Response" query:"Response"`
	Message        string `form:"Message" query:"Message"`
	OrderId        string `form:"OrderId" query:"OrderId"`
	AuthCode       string `form:"AuthCode" query:"AuthCode"`
	ProcReturnCode string `form:"ProcReturnCode" query:"ProcReturnCode"`
	TransId        string `form:"TransId" query:"TransId"`
	HostRefNum     string `form:"HostRefNum" query:"HostRefNum"`
	ErrMsg         string `form:"ErrMsg" query:"ErrMsg"`
}

// Succeeded reports whether the bank approved the charge.
func (p PaymentCallback) Succeeded() bool {
	return p.Response == "00" && p.ProcReturnCode == "00"
}

package model

const (
	ReturnStatusRequested = "requested"
	ReturnStatusApproved  = "approved"
	ReturnStatusRejected  = "rejected"
)

type ReturnRequest struct {
	DTO
	OrderId   uint   `gorm:"index;not null" json:"orderId"`
	UserId    uint   `gorm:"index;not null" json:"userId"`
	Reason    string `gorm:"type:text;not null" json:"reason"`
	Status    string `gorm:"size:20;not null" json:"status"`
	AdminNote string `gorm:"type:text" json:"adminNote"`
}

type CreateReturnInput struct {
	Reason string `json:"reason" validate:"required,min=10,max=1000"`
}

type ReturnDecisionInput struct {
	Status    string `json:"status" validate:"required,oneof=approved rejected"`
	AdminNote string `json:"adminNote" validate:"max=500"`
}

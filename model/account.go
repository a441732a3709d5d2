package model

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	DTO
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	FullName string `json:"fullName"`
	Role     string `gorm:"size:20;not null;default:'customer'" json:"role"`
	IsActive bool   `gorm:"not null" json:"isActive"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenData struct {
	AccessToken string `json:"accessToken"`
}

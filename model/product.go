package model

import "github.com/shopspring/decimal"

// Product is the catalog row as seen by checkout. The catalog is managed
// elsewhere; checkout only reads it.
type Product struct {
	DTO
	Name        string          `gorm:"not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Category    string          `gorm:"index" json:"category"`
	Subcategory string          `json:"subcategory"`
	IsActive    bool            `gorm:"default:true" json:"isActive"`
}

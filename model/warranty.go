package model

import "github.com/shopspring/decimal"

// AllSubcategories marks a mapping that covers every subcategory of its
// product category.
const AllSubcategories = "ALL_SUBCATEGORIES"

type ExtendedWarrantyCategory struct {
	DTO
	CategoryName  string          `gorm:"uniqueIndex;not null" json:"categoryName"`
	TwoYearPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"twoYearPrice"`
	FourYearPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"fourYearPrice"`
}

type ExtendedWarrantyCategoryMapping struct {
	DTO
	WarrantyCategoryId uint    `gorm:"index;not null" json:"warrantyCategoryId"`
	ProductCategory    string  `gorm:"not null" json:"productCategory"`
	ProductSubcategory *string `json:"productSubcategory"`
	SortOrder          int     `gorm:"not null;default:0" json:"sortOrder"`

	WarrantyCategory ExtendedWarrantyCategory `gorm:"foreignKey:WarrantyCategoryId" json:"warrantyCategory"`
}

// CoversAllSubcategories reports whether the mapping applies regardless of
// the product's subcategory.
func (m ExtendedWarrantyCategoryMapping) CoversAllSubcategories() bool {
	return m.ProductSubcategory == nil || *m.ProductSubcategory == "" || *m.ProductSubcategory == AllSubcategories
}

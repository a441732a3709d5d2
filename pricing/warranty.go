package pricing

import (
	"context"
	"time"

	"appliance_store/cache"
	"appliance_store/model"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// CategoryKey normalizes a category name for comparison, so "Buzdolabı",
// "buzdolabi" and " BUZDOLABI " are the same key.
func CategoryKey(name string) string {
	return slug.Make(name)
}

// ResolveWarrantyCategory returns the warranty category of the first mapping
// that covers the product's category and subcategory. Mapping order matters:
// callers pass mappings already sorted.
func ResolveWarrantyCategory(mappings []model.ExtendedWarrantyCategoryMapping, category, subcategory string) *model.ExtendedWarrantyCategory {
	categoryKey := CategoryKey(category)
	if categoryKey == "" {
		return nil
	}
	subKey := CategoryKey(subcategory)

	for i := range mappings {
		m := mappings[i]
		if CategoryKey(m.ProductCategory) != categoryKey {
			continue
		}
		if m.CoversAllSubcategories() || CategoryKey(*m.ProductSubcategory) == subKey {
			wc := m.WarrantyCategory
			return &wc
		}
	}
	return nil
}

const warrantyMappingsTTL = 10 * time.Minute

// WarrantyResolver loads warranty mappings from the database through the
// injected cache.
type WarrantyResolver struct {
	db    *gorm.DB
	cache cache.Cache
}

func NewWarrantyResolver(db *gorm.DB, c cache.Cache) *WarrantyResolver {
	return &WarrantyResolver{db: db, cache: c}
}

// Mappings returns every mapping in match order (sort_order, then id).
func (r *WarrantyResolver) Mappings(ctx context.Context) ([]model.ExtendedWarrantyCategoryMapping, error) {
	key := r.cache.GenerateKey("warranty", "mappings")
	var mappings []model.ExtendedWarrantyCategoryMapping
	if found, err := r.cache.Get(ctx, key, &mappings); err == nil && found {
		return mappings, nil
	}

	if err := r.db.WithContext(ctx).
		Preload("WarrantyCategory").
		Order("sort_order asc").
		Order("id asc").
		Find(&mappings).Error; err != nil {
		return nil, err
	}
	_ = r.cache.Set(ctx, key, mappings, warrantyMappingsTTL)
	return mappings, nil
}

// Resolve returns the applicable warranty category for a product, or nil.
func (r *WarrantyResolver) Resolve(ctx context.Context, product model.Product) (*model.ExtendedWarrantyCategory, error) {
	mappings, err := r.Mappings(ctx)
	if err != nil {
		return nil, err
	}
	return ResolveWarrantyCategory(mappings, product.Category, product.Subcategory), nil
}

package database

import (
	"time"

	"appliance_store/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string { return &s }

// SeedData creates the reference rows a fresh installation needs. Existing
// rows are left untouched.
func SeedData(db *gorm.DB, log *zap.Logger) {
	bytes, err := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
	if err != nil {
		log.Error("failed to hash seed password", zap.Error(err))
		return
	}
	users := []model.User{
		{Email: "admin@example.com", Password: string(bytes), FullName: "Mağaza Yöneticisi", Role: model.RoleAdmin, IsActive: true},
	}
	for _, user := range users {
		if err := db.Where(model.User{Email: user.Email}).FirstOrCreate(&user).Error; err != nil {
			log.Warn("failed to seed user", zap.String("email", user.Email), zap.Error(err))
		}
	}

	warrantyCategories := []model.ExtendedWarrantyCategory{
		{CategoryName: "Büyük Beyaz Eşya", TwoYearPrice: price("749.00"), FourYearPrice: price("1299.00")},
		{CategoryName: "Ankastre", TwoYearPrice: price("599.00"), FourYearPrice: price("999.00")},
		{CategoryName: "Küçük Ev Aletleri", TwoYearPrice: price("199.00"), FourYearPrice: price("349.00")},
	}
	byName := map[string]uint{}
	for _, wc := range warrantyCategories {
		if err := db.Where(model.ExtendedWarrantyCategory{CategoryName: wc.CategoryName}).FirstOrCreate(&wc).Error; err != nil {
			log.Warn("failed to seed warranty category", zap.String("name", wc.CategoryName), zap.Error(err))
			continue
		}
		byName[wc.CategoryName] = wc.ID
	}

	mappings := []model.ExtendedWarrantyCategoryMapping{
		{ProductCategory: "Ankastre", ProductSubcategory: strPtr(model.AllSubcategories), WarrantyCategoryId: byName["Ankastre"], SortOrder: 10},
		{ProductCategory: "Buzdolabı", ProductSubcategory: strPtr(model.AllSubcategories), WarrantyCategoryId: byName["Büyük Beyaz Eşya"], SortOrder: 20},
		{ProductCategory: "Çamaşır Makinesi", ProductSubcategory: strPtr(model.AllSubcategories), WarrantyCategoryId: byName["Büyük Beyaz Eşya"], SortOrder: 20},
		{ProductCategory: "Bulaşık Makinesi", ProductSubcategory: strPtr(model.AllSubcategories), WarrantyCategoryId: byName["Büyük Beyaz Eşya"], SortOrder: 20},
		{ProductCategory: "Küçük Ev Aletleri", ProductSubcategory: strPtr(model.AllSubcategories), WarrantyCategoryId: byName["Küçük Ev Aletleri"], SortOrder: 30},
	}
	for _, m := range mappings {
		if m.WarrantyCategoryId == 0 {
			continue
		}
		where := model.ExtendedWarrantyCategoryMapping{ProductCategory: m.ProductCategory, WarrantyCategoryId: m.WarrantyCategoryId}
		if err := db.Where(where).FirstOrCreate(&m).Error; err != nil {
			log.Warn("failed to seed warranty mapping", zap.String("category", m.ProductCategory), zap.Error(err))
		}
	}

	products := []model.Product{
		{Name: "No Frost Buzdolabı 540 L", Price: price("24999.00"), Category: "Buzdolabı", Subcategory: "No Frost", IsActive: true},
		{Name: "9 kg Çamaşır Makinesi", Price: price("17499.00"), Category: "Çamaşır Makinesi", Subcategory: "Önden Yüklemeli", IsActive: true},
		{Name: "Ankastre Fırın", Price: price("12999.00"), Category: "Ankastre", Subcategory: "Fırın", IsActive: true},
		{Name: "Dikey Süpürge", Price: price("6499.00"), Category: "Küçük Ev Aletleri", Subcategory: "Süpürge", IsActive: true},
	}
	for _, p := range products {
		if err := db.Where(model.Product{Name: p.Name}).FirstOrCreate(&p).Error; err != nil {
			log.Warn("failed to seed product", zap.String("name", p.Name), zap.Error(err))
		}
	}

	coupons := []model.Coupon{
		{Code: "SAVE10", Type: model.CouponTypePercentage, Value: price("10"), ValidFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), IsActive: true},
		{Code: "HOSGELDIN250", Type: model.CouponTypeFixed, Value: price("250"), MinOrderAmount: price("2500"), ValidFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), IsActive: true},
	}
	for _, c := range coupons {
		if err := db.Where(model.Coupon{Code: c.Code}).FirstOrCreate(&c).Error; err != nil {
			log.Warn("failed to seed coupon", zap.String("code", c.Code), zap.Error(err))
		}
	}

	posConfigs := []model.VirtualPosConfig{
		{
			BankName:    "Test Bankası",
			TerminalId:  "10000001",
			ApiPassword: "change-me",
			PosType:     "3d",
			Currency:    "TRY",
			GatewayUrl:  "https://sanalpos-test.example.com/fim/est3Dgate",
			SuccessUrl:  "http://localhost:8002/api/payment/virtual-pos/callback",
			FailUrl:     "http://localhost:8002/api/payment/virtual-pos/callback",
			IsActive:    true,
		},
	}
	for _, pc := range posConfigs {
		if err := db.Where(model.VirtualPosConfig{BankName: pc.BankName, TerminalId: pc.TerminalId}).FirstOrCreate(&pc).Error; err != nil {
			log.Warn("failed to seed virtual pos config", zap.String("bank", pc.BankName), zap.Error(err))
		}
	}
}

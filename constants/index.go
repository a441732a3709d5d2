package constants

const (
	// Locals keys
	LOCAL_CLAIM      = "claim"
	LOCAL_INPUT      = "input"
	LOCAL_INPUT_ID   = "inputId"
	LOCAL_DEV_MODE   = "devMode"
	LOCAL_PAGINATION = "pagination"

	// Request and auth messages
	ERROR_INTERNAL_ERROR       = "Beklenmeyen bir hata oluştu, lütfen daha sonra tekrar deneyin"
	ERROR_INVALID_REQUEST      = "Geçersiz istek"
	ERROR_PARSE_DATA_TO_LOCALS = "İstek verisi okunamadı"
	DATA_INPUT_IS_NOT_NUMBER   = "Parametre sayısal olmalıdır"
	ERROR_UNAUTHORIZED         = "Lütfen giriş yapın"
	ERROR_INVALID_TOKEN        = "Oturumunuz geçersiz veya süresi dolmuş"
	ERROR_FORBIDDEN            = "Bu işlem için yetkiniz yok"
	ERROR_INVALID_CREDENTIALS  = "E-posta veya şifre hatalı"
	ERROR_ACCOUNT_INACTIVE     = "Hesabınız aktif değil"
	ERROR_SERVICE_DOWN         = "Servis şu anda kullanılamıyor"

	// Checkout, payment and return messages
	ERROR_EMPTY_CART           = "Sepetiniz boş"
	ERROR_MISSING_ADDRESS      = "Teslimat adresi zorunludur"
	ERROR_PRODUCT_UNAVAILABLE  = "Sepetinizdeki bir ürün artık satışta değil"
	ERROR_INVALID_COUPON       = "Geçersiz kupon kodu"
	ERROR_INVALID_AMOUNT       = "Geçersiz tutar"
	ERROR_CREATE_ORDER         = "Sipariş oluşturulamadı"
	ERROR_ORDER_NOT_FOUND      = "Sipariş bulunamadı"
	ERROR_INVALID_STATUS       = "Geçersiz sipariş durumu"
	ERROR_ORDER_ALREADY_PAID   = "Bu siparişin ödemesi zaten alınmış"
	ERROR_AMOUNT_MISMATCH      = "Ödeme tutarı sipariş tutarı ile uyuşmuyor"
	ERROR_WRONG_PAYMENT_TYPE   = "Bu sipariş için sanal POS ile ödeme yapılamaz"
	ERROR_POS_NOT_FOUND        = "Ödeme yöntemi şu anda kullanılamıyor"
	ERROR_PAYMENT_INIT_FAILED  = "Ödeme başlatılamadı, lütfen tekrar deneyin"
	ERROR_TRANSACTION_MISSING  = "Ödeme işlemi bulunamadı"
	ERROR_PAYMENT_FAILED       = "Ödeme işlemi başarısız oldu"
	ERROR_RETURN_NOT_ALLOWED   = "Bu sipariş için iade talebi oluşturulamaz"
	ERROR_RETURN_NOT_FOUND     = "İade talebi bulunamadı"
	ERROR_RETURN_DECIDED       = "İade talebi zaten sonuçlandırılmış"
	ERROR_COUPON_EXISTS        = "Bu kupon kodu zaten kullanılıyor"
	ERROR_WARRANTY_UNAVAILABLE = "Seçilen ürün için uzatılmış garanti sunulmuyor"
	ERROR_INVALID_QUANTITY     = "Ürün adedi geçersiz"
	ERROR_INVALID_PAYMENT      = "Geçersiz ödeme yöntemi"
	ERROR_MISSING_POS          = "Kredi kartı ile ödeme için banka seçimi zorunludur"
	ERROR_ORDER_CANCELLED      = "İptal edilmiş sipariş için ödeme yapılamaz"
	ERROR_TRANSACTION_CLOSED   = "Bu ödeme işlemi artık geçerli değil, lütfen tekrar deneyin"
	ERROR_NOT_BANK_TRANSFER    = "Bu sipariş havale ile ödenmiyor"
	ERROR_RETURN_EXISTS        = "Bu sipariş için açık bir iade talebi zaten var"
)

package handler

import (
	"context"
	"errors"
	"time"

	"appliance_store/checkout"
	"appliance_store/constants"
	"appliance_store/coupon"
	"appliance_store/ledger"
	"appliance_store/model"
	"appliance_store/notify"
	"appliance_store/payment"
	"appliance_store/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Notifier queues customer notifications without blocking the request.
type Notifier interface {
	OrderStatusUpdate(n notify.OrderStatusUpdate)
	ReturnDecision(n notify.ReturnDecision)
}

type Deps struct {
	DB        *gorm.DB
	Ledger    *ledger.Ledger
	Coupons   *coupon.Service
	Payments  *payment.Service
	Checkout  *checkout.Service
	Notifier  Notifier
	Log       *zap.Logger
	JWTSecret []byte
	// SecureCookie marks the access_token cookie Secure.
	SecureCookie bool
}

type Handler struct {
	db           *gorm.DB
	ledger       *ledger.Ledger
	coupons      *coupon.Service
	payments     *payment.Service
	checkout     *checkout.Service
	notifier     Notifier
	log          *zap.Logger
	jwtSecret    []byte
	secureCookie bool
	now          func() time.Time
}

func New(d Deps) *Handler {
	return &Handler{
		db:           d.DB,
		ledger:       d.Ledger,
		coupons:      d.Coupons,
		payments:     d.Payments,
		checkout:     d.Checkout,
		notifier:     d.Notifier,
		log:          d.Log,
		jwtSecret:    d.JWTSecret,
		secureCookie: d.SecureCookie,
		now:          time.Now,
	}
}

func input[T any](c *fiber.Ctx) (T, bool) {
	v, ok := c.Locals(constants.LOCAL_INPUT).(T)
	return v, ok
}

func inputID(c *fiber.Ctx) uint {
	id, _ := c.Locals(constants.LOCAL_INPUT_ID).(uint)
	return id
}

func pagination(c *fiber.Ctx) model.Pagination {
	p, _ := c.Locals(constants.LOCAL_PAGINATION).(model.Pagination)
	return p
}

func parseLocalsError(c *fiber.Ctx) error {
	return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("input missing from locals"))
}

func unauthorized(c *fiber.Ctx) error {
	return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.ERROR_UNAUTHORIZED, errors.New("claims missing from locals"))
}

func internalError(c *fiber.Ctx, err error) error {
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
}

// orderForCaller loads an order the caller may see. Admins see every order;
// customers only their own, anything else looks missing.
func (h *Handler) orderForCaller(c *fiber.Ctx, cl model.TokenClaim, id uint) (*model.Order, error) {
	order, err := h.ledger.GetOrder(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if order == nil || (order.UserId != cl.UserId && cl.Role != model.RoleAdmin) {
		return nil, nil
	}
	return order, nil
}

func Healthz(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, constants.ERROR_SERVICE_DOWN, err)
		}
		return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"database": "ok"})
	}
}

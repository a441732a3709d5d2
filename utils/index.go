package utils

import (
	"appliance_store/constants"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ErrorResponse writes the error envelope. The internal error text is only
// included when the dev-mode middleware flagged the request.
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	var errMsg any
	if err != nil && IsDevMode(c) {
		errMsg = err.Error()
	}
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"error":   errMsg,
	})
}

func IsDevMode(c *fiber.Ctx) bool {
	dev, ok := c.Locals(constants.LOCAL_DEV_MODE).(bool)
	return ok && dev
}

func SuccessResponse(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

func ApplyPagination(query *gorm.DB, limit, page *int) *gorm.DB {
	if limit != nil && *limit > 0 && page != nil && *page >= 1 {
		query = query.Limit(*limit)
		offset := *limit * (*page - 1)
		query = query.Offset(offset)
	}

	return query
}

func Ptr[T any](v T) *T {
	return &v
}

package validate

import (
	"errors"
	"strconv"

	"appliance_store/constants"
	"appliance_store/model"
	"appliance_store/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// parse reads the JSON body into T, runs the struct validator and, when
// check passes too, stores the input in Locals under LOCAL_INPUT.
func parse[T any](check func(c *fiber.Ctx, input *T) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input T
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INVALID_REQUEST, err)
		}
		if check != nil {
			if err := check(c, &input); err != nil {
				return err
			}
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INVALID_REQUEST, err)
		}

		c.Locals(constants.LOCAL_INPUT, input)
		return c.Next()
	}
}

func GetById(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := c.Params(key)
		valueKey, err := strconv.ParseUint(params, 10, 32)
		if err != nil || valueKey == 0 {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
		}

		c.Locals(constants.LOCAL_INPUT_ID, uint(valueKey))
		return c.Next()
	}
}

func Pagination() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p model.Pagination
		if err := c.QueryParser(&p); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, err)
		}
		if p.Limit != nil && (*p.Limit < 1 || *p.Limit > 100) {
			p.Limit = utils.Ptr(20)
		}
		if p.Page != nil && *p.Page < 1 {
			p.Page = utils.Ptr(1)
		}
		c.Locals(constants.LOCAL_PAGINATION, p)
		return c.Next()
	}
}

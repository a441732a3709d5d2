package validate

import (
	"appliance_store/model"

	"github.com/gofiber/fiber/v2"
)

func Login() fiber.Handler {
	return parse[model.LoginInput](nil)
}

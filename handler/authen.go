package handler

import (
	"errors"
	"strings"
	"time"

	"appliance_store/constants"
	"appliance_store/helper"
	"appliance_store/model"
	"appliance_store/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (h *Handler) Login(c *fiber.Ctx) error {
	loginInput, ok := input[model.LoginInput](c)
	if !ok {
		return parseLocalsError(c)
	}

	var user model.User
	err := h.db.WithContext(c.UserContext()).
		Where("email = ?", strings.ToLower(strings.TrimSpace(loginInput.Email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.ERROR_INVALID_CREDENTIALS, errors.New("email not found"))
	}
	if err != nil {
		return internalError(c, err)
	}

	if !helper.CheckPasswordHash(loginInput.Password, user.Password) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.ERROR_INVALID_CREDENTIALS, errors.New("password does not match"))
	}
	if !user.IsActive {
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.ERROR_ACCOUNT_INACTIVE, errors.New("active false"))
	}

	token, err := helper.GenerateAccessToken(h.jwtSecret, model.TokenClaim{
		UserId: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return internalError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		Expires:  h.now().Add(24 * time.Hour),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	h.log.Info("user logged in", zap.Uint("userId", user.ID), zap.String("role", user.Role))
	return utils.SuccessResponse(c, fiber.StatusOK, model.TokenData{AccessToken: token})
}

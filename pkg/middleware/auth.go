package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"print-portal/pkg/contextkeys"
	apperrors "print-portal/pkg/errors"
	"print-portal/pkg/service"
	"print-portal/pkg/utils"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		logger:     logger,
	}
}

// Auth проверяет Bearer-токен и кладёт личность вызывающего в контекст.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Warn("AuthMiddleware: Пустой заголовок Authorization")
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: Неверный формат заголовка Authorization")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: Ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err)
		}

		if claims.IsRefreshToken {
			m.logger.Warn("AuthMiddleware: Попытка доступа с refresh токеном")
			return utils.ErrorResponse(c, apperrors.ErrInvalidToken)
		}

		ctx := context.WithValue(c.Request().Context(), contextkeys.CallerKey, claims.Caller())
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// StaffOnly пропускает только админов и членов команды. Ставится после Auth.
func (m *AuthMiddleware) StaffOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, err := utils.GetCallerFromCtx(c.Request().Context())
		if err != nil {
			return utils.ErrorResponse(c, err)
		}
		if !caller.IsStaff() {
			m.logger.Warn("StaffOnly: отказ в доступе", zap.Uint64("userID", caller.ID))
			return utils.ErrorResponse(c, apperrors.ErrForbidden)
		}
		return next(c)
	}
}

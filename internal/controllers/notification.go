package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"print-portal/internal/services"
	apperrors "print-portal/pkg/errors"
	"print-portal/pkg/utils"
)

type NotificationController struct {
	notificationService services.NotificationServiceInterface
	logger              *zap.Logger
}

func NewNotificationController(
	notificationService services.NotificationServiceInterface,
	logger *zap.Logger,
) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		logger:              logger,
	}
}

func (c *NotificationController) GetMyNotifications(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	notifications, err := c.notificationService.ListMyNotifications(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, notifications, "Уведомления получены", http.StatusOK)
}

func (c *NotificationController) MarkRead(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, fmt.Errorf("неверный ID уведомления: %w", apperrors.ErrBadRequest))
	}

	if err := c.notificationService.MarkRead(reqCtx, id); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, struct{}{}, "Уведомление прочитано", http.StatusOK)
}

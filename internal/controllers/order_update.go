package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"print-portal/internal/dto"
	"print-portal/internal/services"
	apperrors "print-portal/pkg/errors"
	"print-portal/pkg/utils"
)

type OrderUpdateController struct {
	updateService services.OrderUpdateServiceInterface
	maxFileSize   int64
	logger        *zap.Logger
}

func NewOrderUpdateController(
	updateService services.OrderUpdateServiceInterface,
	maxFileSize int64,
	logger *zap.Logger,
) *OrderUpdateController {
	return &OrderUpdateController{
		updateService: updateService,
		maxFileSize:   maxFileSize,
		logger:        logger,
	}
}

// PostUpdate принимает multipart-форму: поле "text" и необязательный
// файл "attachment". Лимит размера проверяется до обращения к сервису.
func (c *OrderUpdateController) PostUpdate(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	orderID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, fmt.Errorf("неверный ID заказа: %w", apperrors.ErrBadRequest))
	}

	updateData := dto.CreateOrderUpdateDTO{Text: ctx.FormValue("text")}
	if err := ctx.Validate(&updateData); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("%s", err.Error()))
	}

	var attachment *services.UpdateAttachmentInput
	fileHeader, err := ctx.FormFile("attachment")
	if err == nil && fileHeader != nil {
		if fileHeader.Size > c.maxFileSize {
			return utils.ErrorResponse(ctx, apperrors.NewValidationError(
				"файл %q превышает допустимый размер (%d МБ)", fileHeader.Filename, c.maxFileSize>>20))
		}

		src, err := fileHeader.Open()
		if err != nil {
			return utils.ErrorResponse(ctx, apperrors.NewUploadError(fileHeader.Filename, err))
		}
		defer src.Close()

		attachment = &services.UpdateAttachmentInput{
			File:     src,
			FileName: fileHeader.Filename,
		}
	}

	newID, err := c.updateService.PostUpdate(reqCtx, orderID, updateData.Text, attachment)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, map[string]uint64{"id": newID}, "Сообщение добавлено", http.StatusCreated)
}

func (c *OrderUpdateController) ListUpdates(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	orderID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, fmt.Errorf("неверный ID заказа: %w", apperrors.ErrBadRequest))
	}

	updates, err := c.updateService.ListUpdates(reqCtx, orderID)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, updates, "Лента заказа получена", http.StatusOK)
}

func (c *OrderUpdateController) DeleteUpdate(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	updateID, err := strconv.ParseUint(ctx.Param("updateId"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, fmt.Errorf("неверный ID сообщения: %w", apperrors.ErrBadRequest))
	}

	if err := c.updateService.DeleteUpdate(reqCtx, updateID); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, struct{}{}, "Сообщение удалено", http.StatusOK)
}

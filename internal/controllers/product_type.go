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

type ProductTypeController struct {
	productTypeService services.ProductTypeServiceInterface
	logger             *zap.Logger
}

func NewProductTypeController(
	productTypeService services.ProductTypeServiceInterface,
	logger *zap.Logger,
) *ProductTypeController {
	return &ProductTypeController{
		productTypeService: productTypeService,
		logger:             logger,
	}
}

func (c *ProductTypeController) GetProductTypes(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	productTypes, err := c.productTypeService.ListProductTypes(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, productTypes, "Каталог типов продукции получен", http.StatusOK)
}

func (c *ProductTypeController) CreateProductType(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.CreateProductTypeDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, fmt.Errorf("ошибка данных в запросе: %w", apperrors.ErrBadRequest))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("%s", err.Error()))
	}

	newID, err := c.productTypeService.CreateProductType(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, map[string]uint64{"id": newID}, "Тип продукции создан", http.StatusCreated)
}

func (c *ProductTypeController) RenameProductType(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, fmt.Errorf("неверный ID типа продукции: %w", apperrors.ErrBadRequest))
	}

	var payload dto.UpdateProductTypeDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, fmt.Errorf("ошибка данных в запросе: %w", apperrors.ErrBadRequest))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("%s", err.Error()))
	}

	if err := c.productTypeService.RenameProductType(reqCtx, id, payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, struct{}{}, "Тип продукции переименован", http.StatusOK)
}

func (c *ProductTypeController) DeleteProductType(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, fmt.Errorf("неверный ID типа продукции: %w", apperrors.ErrBadRequest))
	}

	if err := c.productTypeService.DeleteProductType(reqCtx, id); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, struct{}{}, "Тип продукции удалён", http.StatusOK)
}

package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"print-portal/internal/dto"
	"print-portal/internal/services"
	"print-portal/internal/sync"
	apperrors "print-portal/pkg/errors"
	"print-portal/pkg/utils"
)

type OrderController struct {
	orderService services.OrderServiceInterface
	logger       *zap.Logger
}

func NewOrderController(orderService services.OrderServiceInterface, logger *zap.Logger) *OrderController {
	return &OrderController{
		orderService: orderService,
		logger:       logger,
	}
}

// GetOrders — список заказов, видимых вызывающему, с параметрами вида
// (вкладка, статус, тип продукции, поиск, сортировка) из query.
func (c *OrderController) GetOrders(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	caller, err := utils.GetCallerFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	orders, err := c.orderService.ListOrdersFor(reqCtx, caller)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	view := parseView(ctx)
	result := sync.ApplyView(orders, view)

	return utils.SuccessResponse(ctx, result, "Заказы успешно получены", http.StatusOK)
}

func (c *OrderController) CreateOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var orderData dto.CreateOrderDTO
	if err := ctx.Bind(&orderData); err != nil {
		return utils.ErrorResponse(ctx, fmt.Errorf("ошибка данных в запросе: %w", apperrors.ErrBadRequest))
	}
	if err := ctx.Validate(&orderData); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("%s", err.Error()))
	}

	newID, err := c.orderService.CreateOrder(reqCtx, orderData)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, map[string]uint64{"id": newID}, "Заказ успешно создан", http.StatusCreated)
}

func (c *OrderController) FindOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, fmt.Errorf("неверный ID заказа: %w", apperrors.ErrBadRequest))
	}

	order, err := c.orderService.FindOrder(reqCtx, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, order, "Заказ успешно найден", http.StatusOK)
}

func (c *OrderController) ConfirmOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, fmt.Errorf("неверный ID заказа: %w", apperrors.ErrBadRequest))
	}

	if err := c.orderService.ConfirmOrder(reqCtx, id); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, struct{}{}, "Заказ подтверждён", http.StatusOK)
}

func (c *OrderController) SetStatus(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, fmt.Errorf("неверный ID заказа: %w", apperrors.ErrBadRequest))
	}

	var statusData dto.SetStatusDTO
	if err := ctx.Bind(&statusData); err != nil {
		return utils.ErrorResponse(ctx, fmt.Errorf("ошибка данных в запросе: %w", apperrors.ErrBadRequest))
	}
	if err := ctx.Validate(&statusData); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("%s", err.Error()))
	}

	if err := c.orderService.SetStatus(reqCtx, id, statusData.Status); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, struct{}{}, "Статус заказа обновлён", http.StatusOK)
}

func (c *OrderController) DeleteOrder(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, fmt.Errorf("неверный ID заказа: %w", apperrors.ErrBadRequest))
	}

	if err := c.orderService.DeleteOrder(reqCtx, id); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, struct{}{}, "Заказ удалён", http.StatusOK)
}

func parseView(ctx echo.Context) sync.View {
	view := sync.View{
		Tab:      ctx.QueryParam("tab"),
		Status:   ctx.QueryParam("status"),
		Search:   ctx.QueryParam("search"),
		SortBy:   ctx.QueryParam("sortBy"),
		SortDesc: ctx.QueryParam("sortDir") == "desc",
	}
	if raw := ctx.QueryParam("productTypeId"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			view.ProductTypeID = id
		}
	}
	return view
}

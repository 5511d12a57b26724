package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"print-portal/internal/dto"
	"print-portal/internal/services"
	"print-portal/internal/sync"
	"print-portal/pkg/constants"
	"print-portal/pkg/utils"
)

type ReportController struct {
	orderService services.OrderServiceInterface
	logger       *zap.Logger
}

func NewReportController(orderService services.OrderServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{orderService: orderService, logger: logger}
}

// ExportOrders выгружает текущий список заказов (с теми же параметрами
// вида, что и дашборд) в XLSX, строка на каждую позицию заказа.
func (c *ReportController) ExportOrders(ctx echo.Context) error {
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

	return c.respondWithXLSX(ctx, result)
}

var exportHeaders = []string{
	"№ заказа", "Клиент", "Компания", "Телефон", "Статус заказа",
	"Тип продукции", "Количество", "Размер", "Описание",
	"Срок сдачи", "Дата оформления",
}

func subOrderRows(order dto.OrderDTO) [][]interface{} {
	dateFmt := "02.01.2006 15:04"
	statusLabel := order.Status
	if label, ok := constants.StatusLabels[order.Status]; ok {
		statusLabel = label
	}

	rows := make([][]interface{}, 0, len(order.SubOrders))
	for _, subOrder := range order.SubOrders {
		var size, delivery string
		if subOrder.Length.Valid && subOrder.Width.Valid {
			size = fmt.Sprintf("%.1f x %.1f", subOrder.Length.Float64, subOrder.Width.Float64)
		}
		if subOrder.DeliveryTime.Valid {
			delivery = subOrder.DeliveryTime.Time.Format(dateFmt)
		}

		rows = append(rows, []interface{}{
			order.ID, order.ClientName, order.ClientCompany, order.ClientPhone, statusLabel,
			subOrder.ProductTypeName, subOrder.Quantity, size, subOrder.Description,
			delivery, order.CreatedAt.Format(dateFmt),
		})
	}
	return rows
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, orders []dto.OrderDTO) error {
	f := excelize.NewFile()
	sheet := "Заказы"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &exportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "K1", style)

	rowIdx := 2
	for _, order := range orders {
		for _, row := range subOrderRows(order) {
			cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
			f.SetSheetRow(sheet, cell, &row)
			rowIdx++
		}
	}

	f.SetColWidth(sheet, "B", "D", 22)
	f.SetColWidth(sheet, "E", "F", 25)
	f.SetColWidth(sheet, "I", "I", 40)
	f.SetColWidth(sheet, "J", "K", 18)

	fileName := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}

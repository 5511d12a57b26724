package routes

import (
	"github.com/labstack/echo/v4"

	"print-portal/internal/controllers"
	"print-portal/pkg/middleware"
)

func runReportRouter(
	secureGroup *echo.Group,
	reportCtrl *controllers.ReportController,
	authMW *middleware.AuthMiddleware,
) {
	{
		secureGroup.GET("/reports/orders", reportCtrl.ExportOrders, authMW.StaffOnly)
	}
}

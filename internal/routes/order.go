package routes

import (
	"github.com/labstack/echo/v4"

	"print-portal/internal/controllers"
	"print-portal/pkg/middleware"
)

func runOrderRouter(
	secureGroup *echo.Group,
	orderCtrl *controllers.OrderController,
	updateCtrl *controllers.OrderUpdateController,
	authMW *middleware.AuthMiddleware,
) {
	{
		secureGroup.GET("/orders", orderCtrl.GetOrders)
		secureGroup.POST("/orders", orderCtrl.CreateOrder)
		secureGroup.GET("/orders/:id", orderCtrl.FindOrder)
		secureGroup.POST("/orders/:id/confirm", orderCtrl.ConfirmOrder)
		secureGroup.PUT("/orders/:id/status", orderCtrl.SetStatus, authMW.StaffOnly)
		secureGroup.DELETE("/orders/:id", orderCtrl.DeleteOrder, authMW.StaffOnly)
	}
	{
		secureGroup.GET("/orders/:id/updates", updateCtrl.ListUpdates)
		secureGroup.POST("/orders/:id/updates", updateCtrl.PostUpdate)
		secureGroup.DELETE("/orders/:id/updates/:updateId", updateCtrl.DeleteUpdate, authMW.StaffOnly)
	}
}

package routes

import (
	"github.com/labstack/echo/v4"

	"print-portal/internal/controllers"
)

func runNotificationRouter(secureGroup *echo.Group, notificationCtrl *controllers.NotificationController) {
	{
		secureGroup.GET("/notifications", notificationCtrl.GetMyNotifications)
		secureGroup.PUT("/notifications/:id/read", notificationCtrl.MarkRead)
	}
}

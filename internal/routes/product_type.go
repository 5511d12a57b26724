package routes

import (
	"github.com/labstack/echo/v4"

	"print-portal/internal/controllers"
	"print-portal/pkg/middleware"
)

func runProductTypeRouter(
	secureGroup *echo.Group,
	productTypeCtrl *controllers.ProductTypeController,
	authMW *middleware.AuthMiddleware,
) {
	{
		secureGroup.GET("/product-types", productTypeCtrl.GetProductTypes)
		secureGroup.POST("/product-types", productTypeCtrl.CreateProductType)
		secureGroup.PUT("/product-types/:id", productTypeCtrl.RenameProductType, authMW.StaffOnly)
		secureGroup.DELETE("/product-types/:id", productTypeCtrl.DeleteProductType, authMW.StaffOnly)
	}
}

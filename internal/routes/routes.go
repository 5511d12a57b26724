package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"print-portal/internal/controllers"
	"print-portal/internal/listeners"
	"print-portal/internal/repositories"
	"print-portal/internal/services"
	syncengine "print-portal/internal/sync"
	"print-portal/pkg/config"
	"print-portal/pkg/eventbus"
	"print-portal/pkg/filestorage"
	"print-portal/pkg/middleware"
	"print-portal/pkg/service"
	appwebsocket "print-portal/pkg/websocket"
)

// InitRouter собирает весь граф зависимостей: репозитории, сервисы,
// движок синхронизации, слушателей событий и контроллеры, и вешает
// маршруты на echo.
func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	hub *appwebsocket.Hub,
	bus *eventbus.Bus,
	jwtSvc service.JWTService,
	logger *zap.Logger,
	cfg *config.Config,
) {
	logger.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)

	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Server.UploadDir)
	if err != nil {
		logger.Fatal("не удалось создать файловое хранилище", zap.Error(err))
	}

	// --- 1. РЕПОЗИТОРИИ ---
	orderRepo := repositories.NewOrderRepository(dbConn)
	updateRepo := repositories.NewOrderUpdateRepository(dbConn)
	notificationRepo := repositories.NewNotificationRepository(dbConn)
	productTypeRepo := repositories.NewProductTypeRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- 2. СЕРВИСЫ ---
	productTypeService := services.NewProductTypeService(productTypeRepo, cacheRepo, logger)
	orderService := services.NewOrderService(dbConn, orderRepo, updateRepo, notificationRepo, productTypeService, bus, logger)
	updateService := services.NewOrderUpdateService(orderRepo, updateRepo, fileStorage, bus, logger)
	notificationService := services.NewNotificationService(notificationRepo, logger)

	// --- 3. СИНХРОНИЗАЦИЯ И СЛУШАТЕЛИ ---
	syncEngine := syncengine.NewEngine(orderService, logger)
	syncEngine.Register(bus)

	notificationListener := listeners.NewNotificationListener(notificationService, hub, cfg.Notify, logger)
	notificationListener.Register(bus)

	// --- 4. КОНТРОЛЛЕРЫ ---
	orderCtrl := controllers.NewOrderController(orderService, logger)
	updateCtrl := controllers.NewOrderUpdateController(updateService, cfg.Upload.MaxFileSize, logger)
	notificationCtrl := controllers.NewNotificationController(notificationService, logger)
	productTypeCtrl := controllers.NewProductTypeController(productTypeService, logger)
	reportCtrl := controllers.NewReportController(orderService, logger)
	wsCtrl := controllers.NewWebSocketController(hub, syncEngine, jwtSvc, logger)

	// --- 5. РОУТЕРЫ ---
	secureGroup := api.Group("", authMW.Auth)

	runOrderRouter(secureGroup, orderCtrl, updateCtrl, authMW)
	runNotificationRouter(secureGroup, notificationCtrl)
	runProductTypeRouter(secureGroup, productTypeCtrl, authMW)
	runReportRouter(secureGroup, reportCtrl, authMW)

	e.GET("/ws", wsCtrl.ServeWs)

	logger.Info("InitRouter: Создание маршрутов завершено")
}

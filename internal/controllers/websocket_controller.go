package controllers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	syncengine "print-portal/internal/sync"
	"print-portal/pkg/service"
	appwebsocket "print-portal/pkg/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketController struct {
	hub        *appwebsocket.Hub
	syncEngine *syncengine.Engine
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewWebSocketController(
	hub *appwebsocket.Hub,
	syncEngine *syncengine.Engine,
	jwtService service.JWTService,
	logger *zap.Logger,
) *WebSocketController {
	return &WebSocketController{
		hub:        hub,
		syncEngine: syncEngine,
		jwtService: jwtService,
		logger:     logger,
	}
}

// ServeWs поднимает соединение и открывает подписку на синхронизацию:
// клиент сразу получает начальный снимок списка заказов, затем свежий
// снимок на каждое изменение. Подписка закрывается вместе с соединением.
func (c *WebSocketController) ServeWs(ctx echo.Context) error {
	tokenString := ctx.QueryParam("token")
	if tokenString == "" {
		return ctx.String(http.StatusUnauthorized, "Missing token")
	}

	claims, err := c.jwtService.ValidateToken(tokenString)
	if err != nil || claims.IsRefreshToken {
		return ctx.String(http.StatusUnauthorized, "Invalid token")
	}
	caller := claims.Caller()

	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		c.logger.Error("WebSocket: не удалось улучшить соединение", zap.Error(err))
		return err
	}

	// Подписка открывается до регистрации в хабе: если она не поднялась,
	// в хабе не должно остаться клиента без работающих насосов.
	sub, err := c.syncEngine.Subscribe(ctx.Request().Context(), caller)
	if err != nil {
		c.logger.Error("WebSocket: не удалось открыть подписку", zap.Uint64("userID", caller.ID), zap.Error(err))
		conn.Close()
		return nil
	}

	client := appwebsocket.NewClient(c.hub, conn, caller.ID)
	client.Hub.Register <- client

	go client.WritePump()
	go func() {
		client.ReadPump()
		sub.Close()
	}()
	go func() {
		for snapshot := range sub.C {
			if err := c.hub.SendMessageToUser(caller.ID, snapshot, appwebsocket.MessageTypeOrderList); err != nil {
				c.logger.Warn("WebSocket: не удалось доставить снимок", zap.Uint64("userID", caller.ID), zap.Error(err))
			}
		}
	}()

	c.logger.Info("WebSocket: клиент успешно подключен", zap.Uint64("userID", caller.ID))
	return nil
}

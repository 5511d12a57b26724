package listeners

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"print-portal/internal/entities"
	"print-portal/internal/events"
	"print-portal/internal/services"
	"print-portal/pkg/config"
	"print-portal/pkg/eventbus"
	"print-portal/pkg/websocket"
)

// MessageSender — то, что умеет доставлять сообщения подключённым
// пользователям. Реализуется websocket.Hub.
type MessageSender interface {
	SendMessageToUser(userID uint64, payload interface{}, messageType string) error
	SendMessageToUsers(userIDs []uint64, payload interface{}, messageType string)
}

// NotificationListener — рассылка оповещений сотрудникам по событиям
// ленты изменений.
type NotificationListener struct {
	notificationService services.NotificationServiceInterface
	hub                 MessageSender
	notifyCfg           config.NotifyConfig
	logger              *zap.Logger

	// now подменяется в тестах окна свежести.
	now func() time.Time
}

func NewNotificationListener(
	notificationService services.NotificationServiceInterface,
	hub MessageSender,
	notifyCfg config.NotifyConfig,
	logger *zap.Logger,
) *NotificationListener {
	return &NotificationListener{
		notificationService: notificationService,
		hub:                 hub,
		notifyCfg:           notifyCfg,
		logger:              logger,
		now:                 time.Now,
	}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe("order.created", l.handleOrderCreated)
	bus.Subscribe("order.confirmed", l.handleOrderConfirmed)
	l.logger.Info("NotificationListener подписан на события 'order.created' и 'order.confirmed'")
}

// handleOrderCreated — транзиентное всплывающее оповещение о новом
// заказе. "Новизна" приближается возрастом заказа по настенным часам:
// запоздавшее событие по старому заказу корректно игнорируется, но
// расхождение часов может ошибочно подавить или поднять оповещение,
// поэтому окно — настройка, а не гарантия.
func (l *NotificationListener) handleOrderCreated(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderCreatedEvent)
	if !ok {
		return nil
	}

	age := l.now().Sub(e.Order.CreatedAt)
	if age < 0 || age > l.notifyCfg.FreshnessWindow {
		l.logger.Debug("событие о заказе вне окна свежести, оповещение пропущено",
			zap.Uint64("orderID", e.Order.ID), zap.Duration("age", age))
		return nil
	}

	payload := websocket.AlertPayload{
		OrderID:    e.Order.ID,
		ClientName: e.Order.ClientName,
		Message:    fmt.Sprintf("Новый заказ №%d от %s", e.Order.ID, e.Order.ClientName),
	}
	l.hub.SendMessageToUsers(l.staffRecipients(e.Order), payload, websocket.MessageTypeNewOrder)
	return nil
}

// handleOrderConfirmed — долговечные уведомления: подтверждение
// клиента фиксируется записью у каждого сотрудника и дублируется
// пушем тем, кто сейчас подключён.
func (l *NotificationListener) handleOrderConfirmed(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderConfirmedEvent)
	if !ok {
		return nil
	}

	notification := entities.Notification{
		Type:    entities.NotificationTypeOrderConfirmed,
		Title:   "Заказ подтверждён",
		Message: fmt.Sprintf("Клиент %s подтвердил заказ №%d", e.Order.ClientName, e.Order.ID),
		OrderID: e.Order.ID,
	}

	created := l.notificationService.CreateForStaff(ctx, l.staffRecipients(e.Order), notification)
	for _, n := range created {
		if err := l.hub.SendMessageToUser(n.UserID, n, websocket.MessageTypeNotify); err != nil {
			l.logger.Warn("не удалось отправить уведомление по WebSocket",
				zap.Uint64("userID", n.UserID), zap.Error(err))
		}
	}
	return nil
}

// staffRecipients — скоуп сотрудников за вычетом владельца заказа:
// сотрудник, оформивший заказ сам, о нём не оповещается.
func (l *NotificationListener) staffRecipients(order entities.Order) []uint64 {
	recipients := make([]uint64, 0, len(l.notifyCfg.StaffUserIDs))
	for _, id := range l.notifyCfg.StaffUserIDs {
		if id == order.UserID {
			continue
		}
		recipients = append(recipients, id)
	}
	return recipients
}

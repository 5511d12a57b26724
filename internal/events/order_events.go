package events

import (
	"print-portal/internal/entities"
)

// События ленты изменений: каждая зафиксированная мутация заказа
// публикует одно из них. Подписчики (движок синхронизации, рассылка
// уведомлений) видят запись только через это событие.

type OrderCreatedEvent struct {
	Order entities.Order
}

func (e OrderCreatedEvent) Name() string { return "order.created" }

type OrderConfirmedEvent struct {
	Order entities.Order
}

func (e OrderConfirmedEvent) Name() string { return "order.confirmed" }

type OrderStatusChangedEvent struct {
	Order     entities.Order
	OldStatus string
	NewStatus string
}

func (e OrderStatusChangedEvent) Name() string { return "order.status.changed" }

type OrderDeletedEvent struct {
	OrderID uint64
}

func (e OrderDeletedEvent) Name() string { return "order.deleted" }

type OrderUpdatePostedEvent struct {
	Update entities.OrderUpdate
}

func (e OrderUpdatePostedEvent) Name() string { return "order.update.posted" }

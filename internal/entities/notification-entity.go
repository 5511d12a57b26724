package entities

import "time"

// Notification — долговечная запись оповещения для сотрудника.
// Мутируется только флаг Read; удаляется каскадом вместе с заказом.
type Notification struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	OrderID   uint64    `json:"orderId"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	NotificationTypeOrderConfirmed = "ORDER_CONFIRMED"
	NotificationTypeNewOrder       = "NEW_ORDER"
)

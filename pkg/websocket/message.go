package websocket

import "time"

// Типы сообщений, уходящих на фронтенд.
const (
	MessageTypeOrderList = "ORDER_LIST"
	MessageTypeNewOrder  = "NEW_ORDER_ALERT"
	MessageTypeNotify    = "NOTIFICATION"
)

// Envelope — "конверт", в котором уходят сообщения. Тип позволяет
// фронтенду понять, что делать с полезной нагрузкой.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// AlertPayload — транзиентное всплывающее оповещение для сотрудника.
// Не сохраняется: исчезает по таймеру или при навигации.
type AlertPayload struct {
	OrderID    uint64 `json:"orderId"`
	ClientName string `json:"clientName"`
	Message    string `json:"message"`
}

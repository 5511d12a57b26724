package dto

// CreateOrderUpdateDTO — новое сообщение в ленте заказа. Текст может
// быть пустым, если есть вложение; проверка живёт в сервисе, потому
// что зависит от наличия файла в multipart-запросе.
type CreateOrderUpdateDTO struct {
	Text string `json:"text" validate:"max=2000"`
}

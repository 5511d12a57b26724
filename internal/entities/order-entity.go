package entities

import "time"

// Order — корневой агрегат: заказ клиента целиком.
// Контактные данные клиента — снимок на момент оформления, а не живая
// ссылка: переименование клиента не должно менять историю заказов.
type Order struct {
	ID                uint64    `json:"id"`
	UserID            uint64    `json:"userId"`
	ClientName        string    `json:"clientName"`
	ClientEmail       string    `json:"clientEmail"`
	ClientPhone       string    `json:"clientPhone"`
	ClientCompany     string    `json:"clientCompany"`
	Status            string    `json:"status"`
	ConfirmedByClient bool      `json:"confirmedByClient"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

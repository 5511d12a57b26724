package dto

import (
	"time"

	"github.com/aarondl/null/v8"

	"print-portal/internal/entities"
)

// SubOrderDraft — одна позиция в создаваемом заказе.
type SubOrderDraft struct {
	ProductTypeID  uint64       `json:"productTypeId" validate:"required"`
	Quantity       int          `json:"quantity" validate:"required,gt=0"`
	Length         null.Float64 `json:"length"`
	Width          null.Float64 `json:"width"`
	Cmp            null.Float64 `json:"cmp"`
	Description    string       `json:"description"`
	DesignFileURL  null.String  `json:"designFile"`
	DesignFilePath null.String  `json:"designFilePath"`
	DeliveryTime   time.Time    `json:"deliveryTime" validate:"required"`
	Notes          string       `json:"notes"`
}

// CreateOrderDTO — заказ целиком: минимум одна позиция.
// Имя и почта клиента берутся из личности вызывающего, телефон и
// компанию форма может уточнить.
type CreateOrderDTO struct {
	ClientPhone   string          `json:"clientPhone"`
	ClientCompany string          `json:"clientCompany"`
	SubOrders     []SubOrderDraft `json:"subOrders" validate:"required,min=1,dive"`
}

type SetStatusDTO struct {
	Status string `json:"status" validate:"required"`
}

// OrderDTO — заказ, соединённый со своими позициями: то, что уходит
// на дашборд и в календарь.
type OrderDTO struct {
	entities.Order
	SubOrders []entities.SubOrder `json:"subOrders"`
}

// EarliestDeliveryTime — самый ранний срок сдачи среди позиций.
// Вторым значением возвращает false, если срок не указан ни у одной.
func (o *OrderDTO) EarliestDeliveryTime() (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, so := range o.SubOrders {
		if !so.DeliveryTime.Valid {
			continue
		}
		if !found || so.DeliveryTime.Time.Before(earliest) {
			earliest = so.DeliveryTime.Time
			found = true
		}
	}
	return earliest, found
}

// TotalQuantity — суммарный тираж по всем позициям.
func (o *OrderDTO) TotalQuantity() int {
	total := 0
	for _, so := range o.SubOrders {
		total += so.Quantity
	}
	return total
}

package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// SubOrder — одна позиция заказа. Живёт строго внутри родительского
// заказа, самостоятельного жизненного цикла не имеет.
// ProductTypeName — денормализованный снимок названия из каталога.
type SubOrder struct {
	ID              uint64       `json:"id"`
	OrderID         uint64       `json:"orderId"`
	ProductTypeID   uint64       `json:"productTypeId"`
	ProductTypeName string       `json:"productTypeName"`
	IsCustomProduct bool         `json:"isCustomProduct"`
	Quantity        int          `json:"quantity"`
	Length          null.Float64 `json:"length"`
	Width           null.Float64 `json:"width"`
	Cmp             null.Float64 `json:"cmp"`
	Description     string       `json:"description"`
	DesignFileURL   null.String  `json:"designFile"`
	DesignFilePath  null.String  `json:"designFilePath"`
	DeliveryTime    null.Time    `json:"deliveryTime"`
	Notes           string       `json:"notes"`
	Status          string       `json:"status"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

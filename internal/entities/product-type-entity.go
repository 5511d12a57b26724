package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// ProductType — справочник типов продукции: встроенные позиции плюс
// пользовательские. Подзаказы ссылаются на него по id, но хранят
// снимок названия, поэтому переименование не трогает историю.
type ProductType struct {
	ID              uint64      `json:"id"`
	Name            string      `json:"name"`
	IsCustom        bool        `json:"isCustom"`
	CreatedByUserID null.Uint64 `json:"createdByUserId"`
	CreatedAt       time.Time   `json:"createdAt"`
}

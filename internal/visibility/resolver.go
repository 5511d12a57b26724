package visibility

import (
	"sort"

	sq "github.com/Masterminds/squirrel"

	"print-portal/internal/dto"
	"print-portal/pkg/types"
)

// QuerySpec — запрос списка заказов, разрешённый для вызывающего.
// Репозиторий применяет Where как есть и сортирует на сервере только
// когда ServerSorted установлен.
type QuerySpec struct {
	// Where — условие отбора; nil означает "все заказы".
	Where sq.Sqlizer
	// ServerSorted — сортировать ли по created_at DESC на сервере.
	// Для клиентской роли составного индекса (фильтр + сортировка) в
	// хранилище нет, поэтому сортировка выполняется после выборки,
	// на стороне читателя. Эта асимметрия намеренная.
	ServerSorted bool
}

// ResolveOrderQuery — чистая функция: по личности и роли вызывающего
// строит запрос видимых ему заказов.
func ResolveOrderQuery(caller types.Caller) QuerySpec {
	if caller.IsStaff() {
		return QuerySpec{
			Where:        nil,
			ServerSorted: true,
		}
	}
	return QuerySpec{
		Where:        sq.Eq{"user_id": caller.ID},
		ServerSorted: false,
	}
}

// SortClientSide упорядочивает выборку по created_at по убыванию.
// Применяется читателем, когда ServerSorted не установлен.
func SortClientSide(orders []dto.OrderDTO) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

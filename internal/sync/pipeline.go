package sync

import (
	"sort"
	"strconv"
	"strings"

	"print-portal/internal/dto"
	"print-portal/pkg/constants"
)

// Вкладки списка заказов.
const (
	TabOpen   = "open"
	TabClosed = "closed"
)

// Ключи сортировки.
const (
	SortByDelivery = "delivery"
	SortByCreated  = "created"
	SortByQuantity = "quantity"
	SortByStatus   = "status"
)

// View — параметры отображения списка, выбранные потребителем.
// Пустое значение поля означает "без этого фильтра".
type View struct {
	Tab           string
	Status        string
	ProductTypeID uint64
	Search        string
	SortBy        string
	SortDesc      bool
}

// ApplyView применяет к снимку фильтры и сортировку потребителя.
// Функция чистая и детерминированная: одинаковый снимок и вид всегда
// дают одинаковый результат, исходный срез не модифицируется.
// Порядок: вкладка → статус → тип продукции → поиск → сортировка.
func ApplyView(orders []dto.OrderDTO, v View) []dto.OrderDTO {
	result := make([]dto.OrderDTO, 0, len(orders))
	for _, o := range orders {
		if !matchesTab(o, v.Tab) {
			continue
		}
		if v.Status != "" && o.Status != v.Status {
			continue
		}
		if v.ProductTypeID != 0 && !hasProductType(o, v.ProductTypeID) {
			continue
		}
		if v.Search != "" && !matchesSearch(o, v.Search) {
			continue
		}
		result = append(result, o)
	}

	sortOrders(result, v.SortBy, v.SortDesc)
	return result
}

func matchesTab(o dto.OrderDTO, tab string) bool {
	switch tab {
	case TabOpen:
		return constants.IsOpenStatus(o.Status)
	case TabClosed:
		return !constants.IsOpenStatus(o.Status)
	default:
		return true
	}
}

// hasProductType — заказ подходит, если тип есть хотя бы у одной позиции.
func hasProductType(o dto.OrderDTO, productTypeID uint64) bool {
	for _, so := range o.SubOrders {
		if so.ProductTypeID == productTypeID {
			return true
		}
	}
	return false
}

// matchesSearch — свободный текстовый поиск по полям заказа и любой
// из его позиций, без учёта регистра.
func matchesSearch(o dto.OrderDTO, search string) bool {
	needle := strings.ToLower(search)

	haystacks := []string{
		strconv.FormatUint(o.ID, 10),
		o.ClientName,
		o.ClientEmail,
		o.ClientPhone,
		o.ClientCompany,
		o.Status,
	}
	for _, so := range o.SubOrders {
		haystacks = append(haystacks, so.ProductTypeName, so.Description, so.Notes, so.Status)
	}

	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

// statusRank — позиция статуса в рабочем процессе, для сортировки.
var statusRank = map[string]int{
	constants.StatusPendingConfirmation: 0,
	constants.StatusPending:             1,
	constants.StatusInProgress:          2,
	constants.StatusCompleted:           3,
	constants.StatusCancelled:           4,
}

// sortOrders сортирует снимок устойчиво. Заказы без ключа сортировки
// (нет ни одного срока сдачи) всегда в конце, независимо от
// направления.
func sortOrders(orders []dto.OrderDTO, sortBy string, desc bool) {
	if sortBy == "" {
		return
	}

	less := func(i, j int) bool { return false }

	switch sortBy {
	case SortByDelivery:
		// Разбиение на "с ключом" и "без ключа" делается внутри
		// компаратора: отсутствующий ключ всегда проигрывает.
		less = func(i, j int) bool {
			ti, oki := orders[i].EarliestDeliveryTime()
			tj, okj := orders[j].EarliestDeliveryTime()
			if oki != okj {
				return oki
			}
			if !oki {
				return false
			}
			if desc {
				return ti.After(tj)
			}
			return ti.Before(tj)
		}
	case SortByCreated:
		less = func(i, j int) bool {
			if desc {
				return orders[i].CreatedAt.After(orders[j].CreatedAt)
			}
			return orders[i].CreatedAt.Before(orders[j].CreatedAt)
		}
	case SortByQuantity:
		less = func(i, j int) bool {
			qi, qj := orders[i].TotalQuantity(), orders[j].TotalQuantity()
			if desc {
				return qi > qj
			}
			return qi < qj
		}
	case SortByStatus:
		less = func(i, j int) bool {
			ri, rj := statusRank[orders[i].Status], statusRank[orders[j].Status]
			if desc {
				return ri > rj
			}
			return ri < rj
		}
	default:
		return
	}

	sort.SliceStable(orders, less)
}

package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"print-portal/internal/dto"
	"print-portal/internal/entities"
	"print-portal/pkg/constants"
)

func makeOrder(id uint64, status string, createdAt time.Time, subOrders ...entities.SubOrder) dto.OrderDTO {
	return dto.OrderDTO{
		Order: entities.Order{
			ID:         id,
			ClientName: "Тестовый Клиент",
			Status:     status,
			CreatedAt:  createdAt,
		},
		SubOrders: subOrders,
	}
}

func makeSubOrder(productTypeID uint64, productTypeName string, quantity int, delivery *time.Time) entities.SubOrder {
	so := entities.SubOrder{
		ProductTypeID:   productTypeID,
		ProductTypeName: productTypeName,
		Quantity:        quantity,
	}
	if delivery != nil {
		so.DeliveryTime.SetValid(*delivery)
	}
	return so
}

func orderIDs(orders []dto.OrderDTO) []uint64 {
	ids := make([]uint64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}

func TestApplyView_TabFilter(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snapshot := []dto.OrderDTO{
		makeOrder(1, constants.StatusPendingConfirmation, base),
		makeOrder(2, constants.StatusPending, base),
		makeOrder(3, constants.StatusInProgress, base),
		makeOrder(4, constants.StatusCompleted, base),
		makeOrder(5, constants.StatusCancelled, base),
	}

	open := ApplyView(snapshot, View{Tab: TabOpen})
	assert.Equal(t, []uint64{1, 2, 3}, orderIDs(open), "во вкладке 'открытые' должны быть незавершённые заказы")

	closed := ApplyView(snapshot, View{Tab: TabClosed})
	assert.Equal(t, []uint64{4, 5}, orderIDs(closed), "во вкладке 'закрытые' — завершённые и отменённые")

	all := ApplyView(snapshot, View{})
	assert.Len(t, all, 5, "без вкладки фильтрация не применяется")
}

func TestApplyView_StatusAndProductTypeFilters(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snapshot := []dto.OrderDTO{
		makeOrder(1, constants.StatusPending, base, makeSubOrder(10, "Визитки", 100, nil)),
		makeOrder(2, constants.StatusInProgress, base, makeSubOrder(20, "Баннеры", 5, nil)),
		makeOrder(3, constants.StatusPending, base,
			makeSubOrder(10, "Визитки", 200, nil),
			makeSubOrder(20, "Баннеры", 1, nil),
		),
	}

	byStatus := ApplyView(snapshot, View{Status: constants.StatusPending})
	assert.Equal(t, []uint64{1, 3}, orderIDs(byStatus))

	byType := ApplyView(snapshot, View{ProductTypeID: 20})
	assert.Equal(t, []uint64{2, 3}, orderIDs(byType), "достаточно совпадения хотя бы одной позиции")

	combined := ApplyView(snapshot, View{Status: constants.StatusPending, ProductTypeID: 20})
	assert.Equal(t, []uint64{3}, orderIDs(combined))
}

func TestApplyView_Search(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := makeOrder(1, constants.StatusPending, base, makeSubOrder(10, "Визитки", 100, nil))
	first.ClientName = "Иван Петров"
	first.ClientCompany = "ООО Ромашка"

	second := makeOrder(2, constants.StatusPending, base, makeSubOrder(20, "Баннеры", 5, nil))
	second.ClientName = "Анна Сидорова"
	second.SubOrders[0].Notes = "срочный тираж"

	snapshot := []dto.OrderDTO{first, second}

	assert.Equal(t, []uint64{1}, orderIDs(ApplyView(snapshot, View{Search: "ромашка"})), "поиск без учёта регистра по компании")
	assert.Equal(t, []uint64{1}, orderIDs(ApplyView(snapshot, View{Search: "визитки"})), "поиск по названию типа продукции позиции")
	assert.Equal(t, []uint64{2}, orderIDs(ApplyView(snapshot, View{Search: "СРОЧНЫЙ"})), "поиск по заметкам позиции")
	assert.Equal(t, []uint64{1}, orderIDs(ApplyView(snapshot, View{Search: "1"})), "поиск по номеру заказа")
	assert.Empty(t, ApplyView(snapshot, View{Search: "нет такого"}))
}

func TestApplyView_SortByDelivery_MissingAlwaysLast(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	early := base.Add(24 * time.Hour)
	late := base.Add(72 * time.Hour)

	snapshot := []dto.OrderDTO{
		makeOrder(1, constants.StatusPending, base, makeSubOrder(10, "Визитки", 1, nil)),
		makeOrder(2, constants.StatusPending, base, makeSubOrder(10, "Визитки", 1, &late)),
		makeOrder(3, constants.StatusPending, base, makeSubOrder(10, "Визитки", 1, &early)),
	}

	asc := ApplyView(snapshot, View{SortBy: SortByDelivery})
	assert.Equal(t, []uint64{3, 2, 1}, orderIDs(asc), "по возрастанию срока, без срока — в конце")

	desc := ApplyView(snapshot, View{SortBy: SortByDelivery, SortDesc: true})
	assert.Equal(t, []uint64{2, 3, 1}, orderIDs(desc), "по убыванию срока заказ без срока всё равно в конце")
}

func TestApplyView_SortByDelivery_UsesEarliestSubOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	soon := base.Add(1 * time.Hour)
	later := base.Add(48 * time.Hour)
	middle := base.Add(24 * time.Hour)

	snapshot := []dto.OrderDTO{
		makeOrder(1, constants.StatusPending, base,
			makeSubOrder(10, "Визитки", 1, &later),
			makeSubOrder(10, "Визитки", 1, &soon),
		),
		makeOrder(2, constants.StatusPending, base, makeSubOrder(10, "Визитки", 1, &middle)),
	}

	sorted := ApplyView(snapshot, View{SortBy: SortByDelivery})
	assert.Equal(t, []uint64{1, 2}, orderIDs(sorted), "ключ заказа — самый ранний срок среди его позиций")
}

func TestApplyView_SortByQuantityAndStatus(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snapshot := []dto.OrderDTO{
		makeOrder(1, constants.StatusCompleted, base, makeSubOrder(10, "Визитки", 500, nil)),
		makeOrder(2, constants.StatusPending, base, makeSubOrder(10, "Визитки", 100, nil), makeSubOrder(10, "Визитки", 50, nil)),
		makeOrder(3, constants.StatusInProgress, base, makeSubOrder(10, "Визитки", 10, nil)),
	}

	byQuantity := ApplyView(snapshot, View{SortBy: SortByQuantity})
	assert.Equal(t, []uint64{3, 2, 1}, orderIDs(byQuantity), "количество заказа — сумма тиражей позиций")

	byQuantityDesc := ApplyView(snapshot, View{SortBy: SortByQuantity, SortDesc: true})
	assert.Equal(t, []uint64{1, 2, 3}, orderIDs(byQuantityDesc))

	byStatus := ApplyView(snapshot, View{SortBy: SortByStatus})
	assert.Equal(t, []uint64{2, 3, 1}, orderIDs(byStatus), "статусы упорядочены по рабочему процессу")
}

func TestApplyView_SortByCreated(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snapshot := []dto.OrderDTO{
		makeOrder(1, constants.StatusPending, base.Add(2*time.Hour)),
		makeOrder(2, constants.StatusPending, base),
		makeOrder(3, constants.StatusPending, base.Add(1*time.Hour)),
	}

	asc := ApplyView(snapshot, View{SortBy: SortByCreated})
	assert.Equal(t, []uint64{2, 3, 1}, orderIDs(asc))

	desc := ApplyView(snapshot, View{SortBy: SortByCreated, SortDesc: true})
	assert.Equal(t, []uint64{1, 3, 2}, orderIDs(desc))
}

func TestApplyView_PureAndDeterministic(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snapshot := []dto.OrderDTO{
		makeOrder(2, constants.StatusPending, base),
		makeOrder(1, constants.StatusCompleted, base.Add(time.Hour)),
	}
	view := View{SortBy: SortByCreated, SortDesc: true}

	first := ApplyView(snapshot, view)
	second := ApplyView(snapshot, view)
	require.Equal(t, first, second, "одинаковый снимок и вид дают одинаковый результат")

	assert.Equal(t, uint64(2), snapshot[0].ID, "исходный срез не модифицируется")
	assert.Equal(t, uint64(1), snapshot[1].ID)
}

func TestApplyView_UnknownSortKeyKeepsOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snapshot := []dto.OrderDTO{
		makeOrder(3, constants.StatusPending, base),
		makeOrder(1, constants.StatusPending, base),
		makeOrder(2, constants.StatusPending, base),
	}

	result := ApplyView(snapshot, View{SortBy: "nonsense"})
	assert.Equal(t, []uint64{3, 1, 2}, orderIDs(result), "неизвестный ключ сортировки сохраняет исходный порядок")
}

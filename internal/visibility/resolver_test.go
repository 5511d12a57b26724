package visibility

import (
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"print-portal/internal/dto"
	"print-portal/internal/entities"
	"print-portal/pkg/types"
)

func TestResolveOrderQuery_StaffSeesEverything(t *testing.T) {
	for _, caller := range []types.Caller{
		{ID: 1, IsAdmin: true},
		{ID: 2, IsTeamMember: true},
	} {
		spec := ResolveOrderQuery(caller)
		assert.Nil(t, spec.Where, "для сотрудника условие отбора отсутствует")
		assert.True(t, spec.ServerSorted, "список сотрудника сортирует сервер")
	}
}

func TestResolveOrderQuery_ClientSeesOnlyOwnOrders(t *testing.T) {
	spec := ResolveOrderQuery(types.Caller{ID: 42})

	require.NotNil(t, spec.Where)
	assert.False(t, spec.ServerSorted, "список клиента сортируется после выборки")

	sql, args, err := sq.Select("*").From("orders").Where(spec.Where).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "user_id")
	assert.Equal(t, []interface{}{uint64(42)}, args)
}

func TestSortClientSide_NewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	orders := []dto.OrderDTO{
		{Order: entities.Order{ID: 1, CreatedAt: base}},
		{Order: entities.Order{ID: 2, CreatedAt: base.Add(2 * time.Hour)}},
		{Order: entities.Order{ID: 3, CreatedAt: base.Add(time.Hour)}},
	}

	SortClientSide(orders)

	ids := []uint64{orders[0].ID, orders[1].ID, orders[2].ID}
	assert.Equal(t, []uint64{2, 3, 1}, ids)
}

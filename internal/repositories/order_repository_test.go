package repositories

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"print-portal/internal/entities"
	"print-portal/internal/visibility"
	"print-portal/pkg/constants"
	apperrors "print-portal/pkg/errors"
	"print-portal/pkg/types"
)

var testPool *pgxpool.Pool

// TestMain поднимает соединение с тестовой БД и применяет схему.
// Без TEST_DATABASE_URL интеграционные тесты пропускаются.
func TestMain(m *testing.M) {
	testDbUrl := os.Getenv("TEST_DATABASE_URL")
	if testDbUrl != "" {
		var err error
		testPool, err = pgxpool.New(context.Background(), testDbUrl)
		if err != nil {
			log.Fatalf("Не удалось подключиться к тестовой БД: %v", err)
		}
		defer testPool.Close()
		applySchema(testPool)
	}

	os.Exit(m.Run())
}

func applySchema(pool *pgxpool.Pool) {
	path, _ := filepath.Abs("../../testdata/schema.sql")
	schema, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Не удалось прочитать schema.sql: %v", err)
	}
	if _, err := pool.Exec(context.Background(), string(schema)); err != nil {
		log.Fatalf("Не удалось применить схему БД: %v", err)
	}
}

func requireDB(t *testing.T) {
	t.Helper()
	if testPool == nil {
		t.Skip("TEST_DATABASE_URL не задан, интеграционный тест пропущен")
	}
}

func cleanupTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`TRUNCATE TABLE sub_orders, order_updates, notifications, orders, product_types RESTART IDENTITY CASCADE;`)
	require.NoError(t, err, "Не удалось очистить таблицы")
}

func seedOrderInput() (entities.Order, []entities.SubOrder, entities.OrderUpdate) {
	order := entities.Order{
		UserID:      10,
		ClientName:  "Иван Петров",
		ClientEmail: "ivan@example.com",
		ClientPhone: "+992001122334",
		Status:      constants.StatusPendingConfirmation,
	}
	subOrder := entities.SubOrder{
		ProductTypeID:   1,
		ProductTypeName: "Визитки",
		Quantity:        100,
		Description:     "двусторонние, матовая ламинация",
		Status:          constants.StatusPendingConfirmation,
	}
	subOrder.DeliveryTime.SetValid(time.Now().Add(72 * time.Hour))

	systemUpdate := entities.OrderUpdate{
		UserID:    10,
		UserName:  "Иван Петров",
		UserEmail: "ivan@example.com",
		IsSystem:  true,
		Text:      "Заказ создан",
	}
	return order, []entities.SubOrder{subOrder}, systemUpdate
}

func TestOrderRepository_Integration_CreateOrderIsAtomic(t *testing.T) {
	requireDB(t)
	cleanupTables(t, testPool)
	repo := NewOrderRepository(testPool)

	order, subOrders, systemUpdate := seedOrderInput()
	created, err := repo.CreateOrder(context.Background(), order, subOrders, systemUpdate)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	fetchedSubs, err := repo.FetchSubOrders(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, fetchedSubs, 1, "позиции записаны той же транзакцией")
	assert.Equal(t, "Визитки", fetchedSubs[0].ProductTypeName)

	var updateCount int
	err = testPool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM order_updates WHERE order_id = $1 AND is_system = TRUE`, created.ID).Scan(&updateCount)
	require.NoError(t, err)
	assert.Equal(t, 1, updateCount, "системное сообщение записано той же транзакцией")
}

func TestOrderRepository_Integration_FindOrderNotFound(t *testing.T) {
	requireDB(t)
	cleanupTables(t, testPool)
	repo := NewOrderRepository(testPool)

	_, err := repo.FindOrder(context.Background(), 99999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOrderRepository_Integration_ListOrdersRespectsSpec(t *testing.T) {
	requireDB(t)
	cleanupTables(t, testPool)
	repo := NewOrderRepository(testPool)

	order, subOrders, systemUpdate := seedOrderInput()
	_, err := repo.CreateOrder(context.Background(), order, subOrders, systemUpdate)
	require.NoError(t, err)

	foreign := order
	foreign.UserID = 99
	_, err = repo.CreateOrder(context.Background(), foreign, subOrders, systemUpdate)
	require.NoError(t, err)

	all, err := repo.ListOrders(context.Background(), visibility.ResolveOrderQuery(types.Caller{ID: 1, IsAdmin: true}))
	require.NoError(t, err)
	assert.Len(t, all, 2, "сотрудник видит все заказы")

	own, err := repo.ListOrders(context.Background(), visibility.ResolveOrderQuery(types.Caller{ID: 10}))
	require.NoError(t, err)
	require.Len(t, own, 1, "клиент видит только свои заказы")
	assert.Equal(t, uint64(10), own[0].UserID)
}

func TestOrderRepository_Integration_ConfirmAndSetStatusInTx(t *testing.T) {
	requireDB(t)
	cleanupTables(t, testPool)
	repo := NewOrderRepository(testPool)

	order, subOrders, systemUpdate := seedOrderInput()
	created, err := repo.CreateOrder(context.Background(), order, subOrders, systemUpdate)
	require.NoError(t, err)

	tx, err := testPool.Begin(context.Background())
	require.NoError(t, err)
	locked, err := repo.FindOrderForUpdateInTx(context.Background(), tx, created.ID)
	require.NoError(t, err)
	assert.False(t, locked.ConfirmedByClient)
	require.NoError(t, repo.ConfirmInTx(context.Background(), tx, created.ID))
	require.NoError(t, tx.Commit(context.Background()))

	confirmed, err := repo.FindOrder(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusPending, confirmed.Status)
	assert.True(t, confirmed.ConfirmedByClient)

	tx, err = testPool.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, repo.SetStatusInTx(context.Background(), tx, created.ID, constants.StatusInProgress))
	require.NoError(t, tx.Commit(context.Background()))

	inProgress, err := repo.FindOrder(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusInProgress, inProgress.Status)
	assert.True(t, inProgress.ConfirmedByClient, "смена статуса не трогает флаг подтверждения")
}

func TestOrderRepository_Integration_DeleteCascadesToSubOrders(t *testing.T) {
	requireDB(t)
	cleanupTables(t, testPool)
	repo := NewOrderRepository(testPool)

	order, subOrders, systemUpdate := seedOrderInput()
	created, err := repo.CreateOrder(context.Background(), order, subOrders, systemUpdate)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteOrder(context.Background(), created.ID))

	_, err = repo.FindOrder(context.Background(), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	var subCount int
	err = testPool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM sub_orders WHERE order_id = $1`, created.ID).Scan(&subCount)
	require.NoError(t, err)
	assert.Zero(t, subCount, "позиции удаляются каскадом на уровне БД")
}

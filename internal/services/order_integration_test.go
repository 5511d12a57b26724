package services

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"print-portal/internal/repositories"
	"print-portal/pkg/constants"
	"print-portal/pkg/eventbus"
)

var integrationPool *pgxpool.Pool

// TestMain поднимает соединение с тестовой БД и применяет схему.
// Без TEST_DATABASE_URL интеграционные тесты пропускаются.
func TestMain(m *testing.M) {
	testDbUrl := os.Getenv("TEST_DATABASE_URL")
	if testDbUrl != "" {
		var err error
		integrationPool, err = pgxpool.New(context.Background(), testDbUrl)
		if err != nil {
			log.Fatalf("Не удалось подключиться к тестовой БД: %v", err)
		}
		defer integrationPool.Close()
		applyIntegrationSchema(integrationPool)
	}

	os.Exit(m.Run())
}

func applyIntegrationSchema(pool *pgxpool.Pool) {
	path, _ := filepath.Abs("../../testdata/schema.sql")
	schema, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Не удалось прочитать schema.sql: %v", err)
	}
	if _, err := pool.Exec(context.Background(), string(schema)); err != nil {
		log.Fatalf("Не удалось применить схему БД: %v", err)
	}
}

func requireIntegrationDB(t *testing.T) {
	t.Helper()
	if integrationPool == nil {
		t.Skip("TEST_DATABASE_URL не задан, интеграционный тест пропущен")
	}
}

func cleanupIntegrationTables(t *testing.T) {
	t.Helper()
	_, err := integrationPool.Exec(context.Background(),
		`TRUNCATE TABLE sub_orders, order_updates, notifications, orders, product_types RESTART IDENTITY CASCADE;`)
	require.NoError(t, err, "Не удалось очистить таблицы")
}

func seedIntegrationProductType(t *testing.T, id uint64, name string) {
	t.Helper()
	_, err := integrationPool.Exec(context.Background(),
		`INSERT INTO product_types (id, name) VALUES ($1, $2)`, id, name)
	require.NoError(t, err)
}

// Сервис поверх живого пула: реальные транзакции, реальные репозитории.
func newIntegrationOrderService() OrderServiceInterface {
	logger := zap.NewNop()
	productTypes := NewProductTypeService(
		repositories.NewProductTypeRepository(integrationPool), newFakeCache(), logger)
	return NewOrderService(
		integrationPool,
		repositories.NewOrderRepository(integrationPool),
		repositories.NewOrderUpdateRepository(integrationPool),
		repositories.NewNotificationRepository(integrationPool),
		productTypes,
		eventbus.New(logger),
		logger,
	)
}

func countOrderUpdates(t *testing.T, orderID uint64) int {
	t.Helper()
	var n int
	err := integrationPool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM order_updates WHERE order_id = $1`, orderID).Scan(&n)
	require.NoError(t, err)
	return n
}

func countOrderUpdatesWithText(t *testing.T, orderID uint64, text string) int {
	t.Helper()
	var n int
	err := integrationPool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM order_updates WHERE order_id = $1 AND text = $2`, orderID, text).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestOrderService_Integration_ConfirmOrderIsIdempotent(t *testing.T) {
	requireIntegrationDB(t)
	cleanupIntegrationTables(t)
	seedIntegrationProductType(t, 10, "Визитки")
	svc := newIntegrationOrderService()

	ctx := ctxWithCaller(clientCaller)
	id, err := svc.CreateOrder(ctx, validCreateDTO())
	require.NoError(t, err)

	require.NoError(t, svc.ConfirmOrder(ctx, id))
	order, err := svc.FindOrder(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusPending, order.Status)
	assert.True(t, order.ConfirmedByClient)
	assert.Equal(t, 1, countOrderUpdatesWithText(t, id, "Клиент подтвердил заказ"))

	// Повторное подтверждение — no-op: без ошибки и без второй записи в ленте.
	require.NoError(t, svc.ConfirmOrder(ctx, id))
	order, err = svc.FindOrder(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusPending, order.Status)
	assert.Equal(t, 1, countOrderUpdatesWithText(t, id, "Клиент подтвердил заказ"))
}

func TestOrderService_Integration_SetStatusWritesExactlyOneSystemUpdate(t *testing.T) {
	requireIntegrationDB(t)
	cleanupIntegrationTables(t)
	seedIntegrationProductType(t, 10, "Визитки")
	svc := newIntegrationOrderService()

	id, err := svc.CreateOrder(ctxWithCaller(clientCaller), validCreateDTO())
	require.NoError(t, err)
	require.Equal(t, 1, countOrderUpdates(t, id), "после создания в ленте одно системное сообщение")

	staffCtx := ctxWithCaller(staffCaller)
	require.NoError(t, svc.SetStatus(staffCtx, id, constants.StatusInProgress))

	order, err := svc.FindOrder(staffCtx, id)
	require.NoError(t, err)
	assert.Equal(t, constants.StatusInProgress, order.Status)
	assert.Equal(t, 2, countOrderUpdates(t, id), "смена статуса добавляет ровно одну запись")

	// Повтор того же статуса — no-op без новой записи.
	require.NoError(t, svc.SetStatus(staffCtx, id, constants.StatusInProgress))
	assert.Equal(t, 2, countOrderUpdates(t, id))
}

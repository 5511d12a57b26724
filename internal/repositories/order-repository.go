package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"print-portal/internal/entities"
	"print-portal/internal/visibility"
	"print-portal/pkg/constants"
	apperrors "print-portal/pkg/errors"
)

type OrderRepositoryInterface interface {
	CreateOrder(ctx context.Context, order entities.Order, subOrders []entities.SubOrder, systemUpdate entities.OrderUpdate) (entities.Order, error)
	FindOrder(ctx context.Context, id uint64) (*entities.Order, error)
	FindOrderForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Order, error)
	ListOrders(ctx context.Context, spec visibility.QuerySpec) ([]entities.Order, error)
	FetchSubOrders(ctx context.Context, orderID uint64) ([]entities.SubOrder, error)
	SetStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string) error
	ConfirmInTx(ctx context.Context, tx pgx.Tx, id uint64) error
	DeleteOrder(ctx context.Context, id uint64) error
}

type OrderRepository struct {
	storage *pgxpool.Pool
}

func NewOrderRepository(storage *pgxpool.Pool) OrderRepositoryInterface {
	return &OrderRepository{
		storage: storage,
	}
}

const orderColumns = `id, user_id, client_name, client_email, client_phone, client_company, status, confirmed_by_client, created_at, updated_at`

const subOrderColumns = `id, order_id, product_type_id, product_type_name, is_custom_product, quantity, length, width, cmp, description, design_file_url, design_file_path, delivery_time, notes, status, created_at, updated_at`

// CreateOrder пишет заказ, все его позиции и одно системное сообщение
// единой транзакцией: либо появляются все документы, либо ни одного.
func (r *OrderRepository) CreateOrder(ctx context.Context, order entities.Order, subOrders []entities.SubOrder, systemUpdate entities.OrderUpdate) (created entities.Order, err error) {
	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return entities.Order{}, apperrors.NewPersistenceError("createOrder.begin", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				err = apperrors.NewPersistenceError("createOrder.commit", commitErr)
				created = entities.Order{}
			}
		}
	}()

	created = order
	orderInsertQuery := `
		INSERT INTO orders (user_id, client_name, client_email, client_phone, client_company, status, confirmed_by_client, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	if err = tx.QueryRow(ctx, orderInsertQuery,
		order.UserID, order.ClientName, order.ClientEmail, order.ClientPhone, order.ClientCompany,
		order.Status, order.ConfirmedByClient,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return entities.Order{}, apperrors.NewPersistenceError("createOrder.order", err)
	}

	subOrderInsertQuery := `
		INSERT INTO sub_orders (order_id, product_type_id, product_type_name, is_custom_product, quantity, length, width, cmp, description, design_file_url, design_file_path, delivery_time, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())`
	for _, so := range subOrders {
		if _, err = tx.Exec(ctx, subOrderInsertQuery,
			created.ID, so.ProductTypeID, so.ProductTypeName, so.IsCustomProduct, so.Quantity,
			so.Length, so.Width, so.Cmp, so.Description,
			so.DesignFileURL, so.DesignFilePath, so.DeliveryTime, so.Notes, so.Status,
		); err != nil {
			return entities.Order{}, apperrors.NewPersistenceError("createOrder.subOrder", err)
		}
	}

	updateInsertQuery := `
		INSERT INTO order_updates (order_id, user_id, user_name, user_email, user_photo_url, is_admin_or_team_member, is_system, text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, NOW())`
	if _, err = tx.Exec(ctx, updateInsertQuery,
		created.ID, systemUpdate.UserID, systemUpdate.UserName, systemUpdate.UserEmail,
		systemUpdate.UserPhotoURL, systemUpdate.IsAdminOrTeamMember, systemUpdate.Text,
	); err != nil {
		return entities.Order{}, apperrors.NewPersistenceError("createOrder.systemUpdate", err)
	}

	return created, err
}

func (r *OrderRepository) FindOrder(ctx context.Context, id uint64) (*entities.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	var order entities.Order
	err := r.storage.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.UserID, &order.ClientName, &order.ClientEmail, &order.ClientPhone,
		&order.ClientCompany, &order.Status, &order.ConfirmedByClient, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования заказа: %w", err)
	}
	return &order, nil
}

// FindOrderForUpdateInTx читает заказ с блокировкой строки, чтобы
// переход статуса видел актуальное состояние.
func (r *OrderRepository) FindOrderForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1 FOR UPDATE`, orderColumns)

	var order entities.Order
	err := tx.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.UserID, &order.ClientName, &order.ClientEmail, &order.ClientPhone,
		&order.ClientCompany, &order.Status, &order.ConfirmedByClient, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("не удалось найти заказ для обновления: %w", err)
	}
	return &order, nil
}

// ListOrders выполняет запрос, построенный резолвером видимости.
// Сортировка на сервере выполняется только когда спецификация это
// разрешает; для клиентской роли сортирует читатель после выборки.
func (r *OrderRepository) ListOrders(ctx context.Context, spec visibility.QuerySpec) ([]entities.Order, error) {
	builder := sq.Select(
		"id", "user_id", "client_name", "client_email", "client_phone", "client_company",
		"status", "confirmed_by_client", "created_at", "updated_at",
	).From("orders").PlaceholderFormat(sq.Dollar)

	if spec.Where != nil {
		builder = builder.Where(spec.Where)
	}
	if spec.ServerSorted {
		builder = builder.OrderBy("created_at DESC")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка построения запроса списка заказов: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка заказов: %w", err)
	}
	defer rows.Close()

	orders := make([]entities.Order, 0)
	for rows.Next() {
		var order entities.Order
		if err := rows.Scan(
			&order.ID, &order.UserID, &order.ClientName, &order.ClientEmail, &order.ClientPhone,
			&order.ClientCompany, &order.Status, &order.ConfirmedByClient, &order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования заказа в списке: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) FetchSubOrders(ctx context.Context, orderID uint64) ([]entities.SubOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM sub_orders WHERE order_id = $1 ORDER BY id`, subOrderColumns)

	rows, err := r.storage.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения позиций заказа: %w", err)
	}
	defer rows.Close()

	subOrders := make([]entities.SubOrder, 0)
	for rows.Next() {
		var so entities.SubOrder
		if err := rows.Scan(
			&so.ID, &so.OrderID, &so.ProductTypeID, &so.ProductTypeName, &so.IsCustomProduct,
			&so.Quantity, &so.Length, &so.Width, &so.Cmp, &so.Description,
			&so.DesignFileURL, &so.DesignFilePath, &so.DeliveryTime, &so.Notes, &so.Status,
			&so.CreatedAt, &so.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования позиции заказа: %w", err)
		}
		subOrders = append(subOrders, so)
	}
	return subOrders, rows.Err()
}

func (r *OrderRepository) SetStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string) error {
	// Кроме status и updated_at ничего не меняется.
	tag, err := tx.Exec(ctx, `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении статуса заказа: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) ConfirmInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	// Подтверждение всегда переводит заказ из начального статуса.
	tag, err := tx.Exec(ctx,
		`UPDATE orders SET status = $1, confirmed_by_client = TRUE, updated_at = NOW() WHERE id = $2`,
		constants.StatusPending, id)
	if err != nil {
		return fmt.Errorf("ошибка при подтверждении заказа: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteOrder удаляет сам заказ; позиции уходят каскадом по внешнему
// ключу. Сообщения и уведомления чистит сервис отдельными запросами —
// это осознанно не атомарно.
func (r *OrderRepository) DeleteOrder(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления заказа: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"print-portal/internal/entities"
	apperrors "print-portal/pkg/errors"
)

type OrderUpdateRepositoryInterface interface {
	CreateUpdate(ctx context.Context, update entities.OrderUpdate) (uint64, error)
	CreateSystemUpdateInTx(ctx context.Context, tx pgx.Tx, update entities.OrderUpdate) error
	FindUpdate(ctx context.Context, id uint64) (*entities.OrderUpdate, error)
	ListUpdates(ctx context.Context, orderID uint64) ([]entities.OrderUpdate, error)
	DeleteUpdate(ctx context.Context, id uint64) error
	DeleteByOrderID(ctx context.Context, orderID uint64) error
}

type OrderUpdateRepository struct {
	storage *pgxpool.Pool
}

func NewOrderUpdateRepository(storage *pgxpool.Pool) OrderUpdateRepositoryInterface {
	return &OrderUpdateRepository{
		storage: storage,
	}
}

const updateColumns = `id, order_id, user_id, user_name, user_email, user_photo_url, is_admin_or_team_member, is_system, text, attachment_url, attachment_name, attachment_type, created_at`

func (r *OrderUpdateRepository) CreateUpdate(ctx context.Context, update entities.OrderUpdate) (uint64, error) {
	query := `
		INSERT INTO order_updates (order_id, user_id, user_name, user_email, user_photo_url, is_admin_or_team_member, is_system, text, attachment_url, attachment_name, attachment_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING id`

	var id uint64
	err := r.storage.QueryRow(ctx, query,
		update.OrderID, update.UserID, update.UserName, update.UserEmail, update.UserPhotoURL,
		update.IsAdminOrTeamMember, update.IsSystem, update.Text,
		update.AttachmentURL, update.AttachmentName, update.AttachmentType,
	).Scan(&id)
	if err != nil {
		return 0, apperrors.NewPersistenceError("createUpdate", err)
	}
	return id, nil
}

// CreateSystemUpdateInTx пишет системное сообщение внутри чужой
// транзакции: переход статуса и его запись в ленте фиксируются вместе.
func (r *OrderUpdateRepository) CreateSystemUpdateInTx(ctx context.Context, tx pgx.Tx, update entities.OrderUpdate) error {
	query := `
		INSERT INTO order_updates (order_id, user_id, user_name, user_email, user_photo_url, is_admin_or_team_member, is_system, text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, NOW())`

	if _, err := tx.Exec(ctx, query,
		update.OrderID, update.UserID, update.UserName, update.UserEmail, update.UserPhotoURL,
		update.IsAdminOrTeamMember, update.Text,
	); err != nil {
		return fmt.Errorf("ошибка создания системного сообщения: %w", err)
	}
	return nil
}

func (r *OrderUpdateRepository) FindUpdate(ctx context.Context, id uint64) (*entities.OrderUpdate, error) {
	query := fmt.Sprintf(`SELECT %s FROM order_updates WHERE id = $1`, updateColumns)

	var u entities.OrderUpdate
	err := r.storage.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.OrderID, &u.UserID, &u.UserName, &u.UserEmail, &u.UserPhotoURL,
		&u.IsAdminOrTeamMember, &u.IsSystem, &u.Text,
		&u.AttachmentURL, &u.AttachmentName, &u.AttachmentType, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования сообщения: %w", err)
	}
	return &u, nil
}

// ListUpdates возвращает ленту заказа: created_at по возрастанию,
// при равенстве — порядок вставки.
func (r *OrderUpdateRepository) ListUpdates(ctx context.Context, orderID uint64) ([]entities.OrderUpdate, error) {
	query := fmt.Sprintf(`SELECT %s FROM order_updates WHERE order_id = $1 ORDER BY created_at ASC, id ASC`, updateColumns)

	rows, err := r.storage.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения ленты заказа: %w", err)
	}
	defer rows.Close()

	updates := make([]entities.OrderUpdate, 0)
	for rows.Next() {
		var u entities.OrderUpdate
		if err := rows.Scan(
			&u.ID, &u.OrderID, &u.UserID, &u.UserName, &u.UserEmail, &u.UserPhotoURL,
			&u.IsAdminOrTeamMember, &u.IsSystem, &u.Text,
			&u.AttachmentURL, &u.AttachmentName, &u.AttachmentType, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования сообщения в ленте: %w", err)
		}
		updates = append(updates, u)
	}
	return updates, rows.Err()
}

func (r *OrderUpdateRepository) DeleteUpdate(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM order_updates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления сообщения: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *OrderUpdateRepository) DeleteByOrderID(ctx context.Context, orderID uint64) error {
	if _, err := r.storage.Exec(ctx, `DELETE FROM order_updates WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("ошибка каскадного удаления сообщений заказа: %w", err)
	}
	return nil
}

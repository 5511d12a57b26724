package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"print-portal/internal/entities"
	apperrors "print-portal/pkg/errors"
)

type NotificationRepositoryInterface interface {
	CreateNotification(ctx context.Context, n entities.Notification) (uint64, error)
	ListByUser(ctx context.Context, userID uint64) ([]entities.Notification, error)
	MarkRead(ctx context.Context, id uint64, userID uint64) error
	DeleteByOrderID(ctx context.Context, orderID uint64) error
}

type NotificationRepository struct {
	storage *pgxpool.Pool
}

func NewNotificationRepository(storage *pgxpool.Pool) NotificationRepositoryInterface {
	return &NotificationRepository{
		storage: storage,
	}
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, n entities.Notification) (uint64, error) {
	query := `
		INSERT INTO notifications (user_id, type, title, message, order_id, read, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, NOW())
		RETURNING id`

	var id uint64
	if err := r.storage.QueryRow(ctx, query, n.UserID, n.Type, n.Title, n.Message, n.OrderID).Scan(&id); err != nil {
		return 0, apperrors.NewPersistenceError("createNotification", err)
	}
	return id, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID uint64) ([]entities.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, order_id, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.storage.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения уведомлений: %w", err)
	}
	defer rows.Close()

	notifications := make([]entities.Notification, 0)
	for rows.Next() {
		var n entities.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.OrderID, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования уведомления: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead переключает только флаг read и только у своего уведомления.
func (r *NotificationRepository) MarkRead(ctx context.Context, id uint64, userID uint64) error {
	tag, err := r.storage.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("ошибка отметки уведомления прочитанным: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) DeleteByOrderID(ctx context.Context, orderID uint64) error {
	if _, err := r.storage.Exec(ctx, `DELETE FROM notifications WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("ошибка каскадного удаления уведомлений заказа: %w", err)
	}
	return nil
}

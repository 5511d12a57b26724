package services

import (
	"context"

	"go.uber.org/zap"

	"print-portal/internal/entities"
	"print-portal/internal/repositories"
	"print-portal/pkg/utils"
)

type NotificationServiceInterface interface {
	ListMyNotifications(ctx context.Context) ([]entities.Notification, error)
	MarkRead(ctx context.Context, id uint64) error
	CreateForStaff(ctx context.Context, staffIDs []uint64, n entities.Notification) []entities.Notification
}

type NotificationService struct {
	repo   repositories.NotificationRepositoryInterface
	logger *zap.Logger
}

func NewNotificationService(
	repo repositories.NotificationRepositoryInterface,
	logger *zap.Logger,
) NotificationServiceInterface {
	return &NotificationService{
		repo:   repo,
		logger: logger,
	}
}

func (s *NotificationService) ListMyNotifications(ctx context.Context) ([]entities.Notification, error) {
	caller, err := utils.GetCallerFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, caller.ID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id uint64) error {
	caller, err := utils.GetCallerFromCtx(ctx)
	if err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, id, caller.ID)
}

// CreateForStaff пишет по одной долговечной записи на каждого
// сотрудника. Частичный отказ не прерывает рассылку: уведомления —
// fire-and-forget.
func (s *NotificationService) CreateForStaff(ctx context.Context, staffIDs []uint64, n entities.Notification) []entities.Notification {
	created := make([]entities.Notification, 0, len(staffIDs))
	for _, staffID := range staffIDs {
		row := n
		row.UserID = staffID
		id, err := s.repo.CreateNotification(ctx, row)
		if err != nil {
			s.logger.Warn("не удалось записать уведомление",
				zap.Uint64("userID", staffID), zap.Uint64("orderID", n.OrderID), zap.Error(err))
			continue
		}
		row.ID = id
		created = append(created, row)
	}
	return created
}

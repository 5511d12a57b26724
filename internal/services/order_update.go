package services

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"

	"print-portal/internal/entities"
	"print-portal/internal/events"
	"print-portal/internal/repositories"
	apperrors "print-portal/pkg/errors"
	"print-portal/pkg/eventbus"
	"print-portal/pkg/filestorage"
	"print-portal/pkg/utils"
)

// UpdateAttachmentInput — файл из multipart-запроса, ещё не загруженный.
type UpdateAttachmentInput struct {
	File     io.Reader
	FileName string
}

type OrderUpdateServiceInterface interface {
	PostUpdate(ctx context.Context, orderID uint64, text string, attachment *UpdateAttachmentInput) (uint64, error)
	ListUpdates(ctx context.Context, orderID uint64) ([]entities.OrderUpdate, error)
	DeleteUpdate(ctx context.Context, updateID uint64) error
}

type OrderUpdateService struct {
	orderRepo   repositories.OrderRepositoryInterface
	updateRepo  repositories.OrderUpdateRepositoryInterface
	fileStorage filestorage.FileStorageInterface
	bus         *eventbus.Bus
	logger      *zap.Logger
}

func NewOrderUpdateService(
	orderRepo repositories.OrderRepositoryInterface,
	updateRepo repositories.OrderUpdateRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) OrderUpdateServiceInterface {
	return &OrderUpdateService{
		orderRepo:   orderRepo,
		updateRepo:  updateRepo,
		fileStorage: fileStorage,
		bus:         bus,
		logger:      logger,
	}
}

// PostUpdate публикует сообщение в ленту заказа. Если есть вложение,
// сначала загружается файл; неудачная загрузка прерывает публикацию,
// частичного документа не остаётся.
func (s *OrderUpdateService) PostUpdate(ctx context.Context, orderID uint64, text string, attachment *UpdateAttachmentInput) (uint64, error) {
	caller, err := utils.GetCallerFromCtx(ctx)
	if err != nil {
		return 0, err
	}

	if strings.TrimSpace(text) == "" && attachment == nil {
		return 0, apperrors.NewValidationError("сообщение должно содержать текст или вложение")
	}

	order, err := s.orderRepo.FindOrder(ctx, orderID)
	if err != nil {
		return 0, err
	}
	if !caller.IsStaff() && order.UserID != caller.ID {
		return 0, apperrors.ErrForbidden
	}

	update := entities.OrderUpdate{
		OrderID:             orderID,
		UserID:              caller.ID,
		UserName:            caller.Name,
		UserEmail:           caller.Email,
		IsAdminOrTeamMember: caller.IsStaff(), // снимок роли на момент публикации
		IsSystem:            false,
		Text:                text,
	}
	if caller.PhotoURL != "" {
		update.UserPhotoURL.SetValid(caller.PhotoURL)
	}

	if attachment != nil {
		stored, err := s.fileStorage.Save(attachment.File, attachment.FileName, "updates", caller.ID)
		if err != nil {
			s.logger.Error("загрузка вложения не удалась, сообщение не создано",
				zap.Uint64("orderID", orderID), zap.Error(err))
			return 0, apperrors.NewUploadError(attachment.FileName, err)
		}
		update.AttachmentURL.SetValid(stored.URL)
		update.AttachmentName.SetValid(stored.Name)
		update.AttachmentType.SetValid(stored.Type)
	}

	id, err := s.updateRepo.CreateUpdate(ctx, update)
	if err != nil {
		return 0, err
	}

	update.ID = id
	s.bus.Publish(ctx, events.OrderUpdatePostedEvent{Update: update})
	return id, nil
}

// ListUpdates возвращает ленту заказа. Разделение на "клиентские" и
// "служебные" сообщения происходит при чтении: клиент никогда не
// получает системные записи, хотя в логе они остаются.
func (s *OrderUpdateService) ListUpdates(ctx context.Context, orderID uint64) ([]entities.OrderUpdate, error) {
	caller, err := utils.GetCallerFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !caller.IsStaff() && order.UserID != caller.ID {
		return nil, apperrors.ErrNotFound
	}

	updates, err := s.updateRepo.ListUpdates(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if caller.IsStaff() {
		return updates, nil
	}

	visible := make([]entities.OrderUpdate, 0, len(updates))
	for _, u := range updates {
		if u.IsSystem {
			continue
		}
		visible = append(visible, u)
	}
	return visible, nil
}

// DeleteUpdate удаляет сообщение. Разрешено только сотрудникам и
// только для несистемных сообщений, автор которых был сотрудником на
// момент публикации: право оценивается по сохранённому снимку роли,
// а не по текущей роли автора.
func (s *OrderUpdateService) DeleteUpdate(ctx context.Context, updateID uint64) error {
	caller, err := utils.GetCallerFromCtx(ctx)
	if err != nil {
		return err
	}
	if !caller.IsStaff() {
		return apperrors.ErrForbidden
	}

	update, err := s.updateRepo.FindUpdate(ctx, updateID)
	if err != nil {
		return err
	}
	if update.IsSystem {
		return apperrors.ErrForbidden
	}
	if !update.IsAdminOrTeamMember {
		// Клиентские сообщения через этот интерфейс не удаляются.
		return apperrors.ErrForbidden
	}

	if err := s.updateRepo.DeleteUpdate(ctx, updateID); err != nil {
		return err
	}

	if update.AttachmentURL.Valid {
		if err := s.fileStorage.Delete(update.AttachmentURL.String); err != nil {
			s.logger.Warn("не удалось удалить файл вложения", zap.Uint64("updateID", updateID), zap.Error(err))
		}
	}
	return nil
}

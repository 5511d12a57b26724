package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"print-portal/internal/dto"
	"print-portal/internal/entities"
	"print-portal/internal/events"
	"print-portal/internal/repositories"
	"print-portal/internal/visibility"
	"print-portal/pkg/constants"
	apperrors "print-portal/pkg/errors"
	"print-portal/pkg/eventbus"
	"print-portal/pkg/types"
	"print-portal/pkg/utils"
)

type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, orderData dto.CreateOrderDTO) (uint64, error)
	FindOrder(ctx context.Context, id uint64) (*dto.OrderDTO, error)
	ListOrdersFor(ctx context.Context, caller types.Caller) ([]dto.OrderDTO, error)
	ConfirmOrder(ctx context.Context, id uint64) error
	SetStatus(ctx context.Context, id uint64, newStatus string) error
	DeleteOrder(ctx context.Context, id uint64) error
}

type OrderService struct {
	pool            *pgxpool.Pool
	orderRepo       repositories.OrderRepositoryInterface
	updateRepo      repositories.OrderUpdateRepositoryInterface
	notifRepo       repositories.NotificationRepositoryInterface
	productTypeServ ProductTypeServiceInterface
	bus             *eventbus.Bus
	logger          *zap.Logger
}

func NewOrderService(
	pool *pgxpool.Pool,
	orderRepo repositories.OrderRepositoryInterface,
	updateRepo repositories.OrderUpdateRepositoryInterface,
	notifRepo repositories.NotificationRepositoryInterface,
	productTypeServ ProductTypeServiceInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) OrderServiceInterface {
	return &OrderService{
		pool:            pool,
		orderRepo:       orderRepo,
		updateRepo:      updateRepo,
		notifRepo:       notifRepo,
		productTypeServ: productTypeServ,
		bus:             bus,
		logger:          logger,
	}
}

// CreateOrder проверяет инварианты до первой записи, собирает заказ,
// его позиции и системное сообщение "заказ создан" и фиксирует их
// одной атомарной транзакцией.
func (s *OrderService) CreateOrder(ctx context.Context, orderData dto.CreateOrderDTO) (uint64, error) {
	caller, err := utils.GetCallerFromCtx(ctx)
	if err != nil {
		return 0, err
	}

	if len(orderData.SubOrders) == 0 {
		return 0, apperrors.NewValidationError("заказ должен содержать хотя бы одну позицию")
	}
	for i, draft := range orderData.SubOrders {
		if draft.ProductTypeID == 0 {
			return 0, apperrors.NewValidationError("позиция %d: не указан тип продукции", i+1)
		}
		if draft.Quantity <= 0 {
			return 0, apperrors.NewValidationError("позиция %d: тираж должен быть положительным", i+1)
		}
		if draft.DeliveryTime.IsZero() {
			return 0, apperrors.NewValidationError("позиция %d: не указан срок сдачи", i+1)
		}
	}

	subOrders := make([]entities.SubOrder, 0, len(orderData.SubOrders))
	for i, draft := range orderData.SubOrders {
		productType, err := s.productTypeServ.FindProductType(ctx, draft.ProductTypeID)
		if err != nil {
			return 0, apperrors.NewValidationError("позиция %d: тип продукции %d не найден", i+1, draft.ProductTypeID)
		}
		so := entities.SubOrder{
			ProductTypeID:   productType.ID,
			ProductTypeName: productType.Name, // снимок названия
			IsCustomProduct: productType.IsCustom,
			Quantity:        draft.Quantity,
			Length:          draft.Length,
			Width:           draft.Width,
			Cmp:             draft.Cmp,
			Description:     draft.Description,
			DesignFileURL:   draft.DesignFileURL,
			DesignFilePath:  draft.DesignFilePath,
			Notes:           draft.Notes,
			Status:          constants.StatusPendingConfirmation,
		}
		so.DeliveryTime.SetValid(draft.DeliveryTime)
		subOrders = append(subOrders, so)
	}

	order := entities.Order{
		UserID:            caller.ID,
		ClientName:        caller.Name,
		ClientEmail:       caller.Email,
		ClientPhone:       caller.Phone,
		ClientCompany:     caller.Company,
		Status:            constants.StatusPendingConfirmation,
		ConfirmedByClient: false,
	}
	if orderData.ClientPhone != "" {
		order.ClientPhone = orderData.ClientPhone
	}
	if orderData.ClientCompany != "" {
		order.ClientCompany = orderData.ClientCompany
	}

	systemUpdate := s.systemUpdateFrom(caller, "Заказ создан")

	created, err := s.orderRepo.CreateOrder(ctx, order, subOrders, systemUpdate)
	if err != nil {
		s.logger.Error("Ошибка в orderRepo.CreateOrder", zap.Error(err))
		return 0, err
	}

	s.bus.Publish(ctx, events.OrderCreatedEvent{Order: created})
	return created.ID, nil
}

func (s *OrderService) FindOrder(ctx context.Context, id uint64) (*dto.OrderDTO, error) {
	caller, err := utils.GetCallerFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsStaff() && order.UserID != caller.ID {
		// Клиент не должен узнать даже о существовании чужого заказа.
		return nil, apperrors.ErrNotFound
	}

	return &dto.OrderDTO{Order: *order, SubOrders: s.fetchSubOrdersSoft(ctx, order.ID)}, nil
}

// ListOrdersFor возвращает соединённый список заказов, видимых
// вызывающему. Ошибка дозагрузки позиций деградирует до пустого
// списка позиций, а не валит всю выборку.
func (s *OrderService) ListOrdersFor(ctx context.Context, caller types.Caller) ([]dto.OrderDTO, error) {
	spec := visibility.ResolveOrderQuery(caller)
	orders, err := s.orderRepo.ListOrders(ctx, spec)
	if err != nil {
		return nil, err
	}

	joined := make([]dto.OrderDTO, 0, len(orders))
	for _, order := range orders {
		joined = append(joined, dto.OrderDTO{
			Order:     order,
			SubOrders: s.fetchSubOrdersSoft(ctx, order.ID),
		})
	}

	if !spec.ServerSorted {
		visibility.SortClientSide(joined)
	}
	return joined, nil
}

func (s *OrderService) fetchSubOrdersSoft(ctx context.Context, orderID uint64) []entities.SubOrder {
	subOrders, err := s.orderRepo.FetchSubOrders(ctx, orderID)
	if err != nil {
		s.logger.Warn("не удалось дозагрузить позиции заказа, показываем без них",
			zap.Uint64("orderID", orderID), zap.Error(err))
		return []entities.SubOrder{}
	}
	return subOrders
}

// ConfirmOrder — подтверждение заказа клиентом. Повторный вызов на
// уже подтверждённом заказе — no-op без ошибки.
func (s *OrderService) ConfirmOrder(ctx context.Context, id uint64) (err error) {
	caller, err := utils.GetCallerFromCtx(ctx)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return apperrors.NewPersistenceError("confirmOrder.begin", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(context.Background())
		}
	}()

	order, err := s.orderRepo.FindOrderForUpdateInTx(ctx, tx, id)
	if err != nil {
		return err
	}
	if !caller.IsStaff() && order.UserID != caller.ID {
		return apperrors.ErrForbidden
	}
	if order.ConfirmedByClient {
		// Уже подтверждён: условие перехода не выполнено, ошибки нет.
		return tx.Commit(ctx)
	}

	if err = s.orderRepo.ConfirmInTx(ctx, tx, id); err != nil {
		return err
	}

	systemUpdate := s.systemUpdateFrom(caller, "Клиент подтвердил заказ")
	systemUpdate.OrderID = id
	if err = s.updateRepo.CreateSystemUpdateInTx(ctx, tx, systemUpdate); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return apperrors.NewPersistenceError("confirmOrder.commit", err)
	}

	confirmed := *order
	confirmed.Status = constants.StatusPending
	confirmed.ConfirmedByClient = true
	s.bus.Publish(ctx, events.OrderConfirmedEvent{Order: confirmed})
	s.bus.Publish(ctx, events.OrderStatusChangedEvent{
		Order:     confirmed,
		OldStatus: order.Status,
		NewStatus: constants.StatusPending,
	})
	return nil
}

// SetStatus — переход статуса сотрудником. Выбор текущего статуса —
// no-op; каждый успешный переход добавляет ровно одно системное
// сообщение, текст которого детерминированно кодирует новый статус.
func (s *OrderService) SetStatus(ctx context.Context, id uint64, newStatus string) (err error) {
	caller, err := utils.GetCallerFromCtx(ctx)
	if err != nil {
		return err
	}
	if !caller.IsStaff() {
		return apperrors.ErrForbidden
	}
	if !constants.IsSelectableStatus(newStatus) {
		return apperrors.NewValidationError("недопустимый целевой статус: %q", newStatus)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return apperrors.NewPersistenceError("setStatus.begin", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(context.Background())
		}
	}()

	order, err := s.orderRepo.FindOrderForUpdateInTx(ctx, tx, id)
	if err != nil {
		return err
	}
	if order.Status == newStatus {
		return tx.Commit(ctx)
	}

	if err = s.orderRepo.SetStatusInTx(ctx, tx, id, newStatus); err != nil {
		return err
	}

	systemUpdate := s.systemUpdateFrom(caller, StatusChangeText(newStatus))
	systemUpdate.OrderID = id
	if err = s.updateRepo.CreateSystemUpdateInTx(ctx, tx, systemUpdate); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return apperrors.NewPersistenceError("setStatus.commit", err)
	}

	changed := *order
	changed.Status = newStatus
	s.bus.Publish(ctx, events.OrderStatusChangedEvent{
		Order:     changed,
		OldStatus: order.Status,
		NewStatus: newStatus,
	})
	return nil
}

// DeleteOrder удаляет заказ и каскадом чистит его сообщения и
// уведомления. Каскад намеренно не атомарен: осиротевшие строки лога
// безвредны, читатели игнорируют записи без родителя.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint64) error {
	caller, err := utils.GetCallerFromCtx(ctx)
	if err != nil {
		return err
	}
	if !caller.IsStaff() {
		return apperrors.ErrForbidden
	}

	if err := s.orderRepo.DeleteOrder(ctx, id); err != nil {
		return err
	}

	if err := s.updateRepo.DeleteByOrderID(ctx, id); err != nil {
		s.logger.Warn("каскадное удаление сообщений заказа не удалось", zap.Uint64("orderID", id), zap.Error(err))
	}
	if err := s.notifRepo.DeleteByOrderID(ctx, id); err != nil {
		s.logger.Warn("каскадное удаление уведомлений заказа не удалось", zap.Uint64("orderID", id), zap.Error(err))
	}

	s.bus.Publish(ctx, events.OrderDeletedEvent{OrderID: id})
	return nil
}

func (s *OrderService) systemUpdateFrom(caller types.Caller, text string) entities.OrderUpdate {
	u := entities.OrderUpdate{
		UserID:              caller.ID,
		UserName:            caller.Name,
		UserEmail:           caller.Email,
		IsAdminOrTeamMember: caller.IsStaff(),
		IsSystem:            true,
		Text:                text,
	}
	if caller.PhotoURL != "" {
		u.UserPhotoURL.SetValid(caller.PhotoURL)
	}
	return u
}

// StatusChangeText — текст системного сообщения о переходе статуса.
func StatusChangeText(newStatus string) string {
	label := constants.StatusLabels[newStatus]
	return fmt.Sprintf("Статус заказа изменён: %s (%s)", newStatus, label)
}

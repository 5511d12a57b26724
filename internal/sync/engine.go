package sync

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"print-portal/internal/dto"
	"print-portal/pkg/eventbus"
	"print-portal/pkg/types"
)

// OrderLister — источник соединённого списка заказов, видимых
// вызывающему (реализуется сервисом заказов).
type OrderLister interface {
	ListOrdersFor(ctx context.Context, caller types.Caller) ([]dto.OrderDTO, error)
}

// Subscription — живая подписка одного потребителя (дашборда,
// календаря). Держатель обязан вызвать Close при сворачивании,
// иначе фоновая доставка утечёт.
type Subscription struct {
	ID     string
	Caller types.Caller
	C      chan []dto.OrderDTO

	engine *Engine
}

func (s *Subscription) Close() {
	s.engine.Unsubscribe(s.ID)
}

// push кладёт свежий снимок, вытесняя недоставленный старый: потребителю
// всегда интересен только последний консистентный список.
func (s *Subscription) push(snapshot []dto.OrderDTO) {
	for {
		select {
		case s.C <- snapshot:
			return
		default:
			select {
			case <-s.C:
			default:
			}
		}
	}
}

// Engine — движок синхронизации: на каждое событие ленты изменений
// пересобирает снимок для каждой подписки и публикует его целиком.
type Engine struct {
	lister OrderLister
	logger *zap.Logger

	mu   sync.RWMutex
	subs map[string]*Subscription
}

func NewEngine(lister OrderLister, logger *zap.Logger) *Engine {
	return &Engine{
		lister: lister,
		logger: logger,
		subs:   make(map[string]*Subscription),
	}
}

// Register подписывает движок на все события, меняющие список заказов.
func (e *Engine) Register(bus *eventbus.Bus) {
	for _, name := range []string{
		"order.created",
		"order.confirmed",
		"order.status.changed",
		"order.deleted",
		"order.update.posted",
	} {
		bus.Subscribe(name, e.handleChange)
	}
	e.logger.Info("Движок синхронизации подписан на ленту изменений")
}

// Subscribe создаёт подписку и сразу доставляет начальный снимок.
func (e *Engine) Subscribe(ctx context.Context, caller types.Caller) (*Subscription, error) {
	snapshot, err := e.lister.ListOrdersFor(ctx, caller)
	if err != nil {
		return nil, err
	}

	sub := &Subscription{
		ID:     uuid.New().String(),
		Caller: caller,
		C:      make(chan []dto.OrderDTO, 1),
		engine: e,
	}
	sub.push(snapshot)

	e.mu.Lock()
	e.subs[sub.ID] = sub
	e.mu.Unlock()

	return sub, nil
}

func (e *Engine) Unsubscribe(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sub, ok := e.subs[id]; ok {
		delete(e.subs, id)
		close(sub.C)
	}
}

func (e *Engine) handleChange(ctx context.Context, _ eventbus.Event) error {
	e.mu.RLock()
	subs := make([]*Subscription, 0, len(e.subs))
	for _, sub := range e.subs {
		subs = append(subs, sub)
	}
	e.mu.RUnlock()

	for _, sub := range subs {
		snapshot, err := e.lister.ListOrdersFor(ctx, sub.Caller)
		if err != nil {
			// Одна неудачная выборка не должна гасить чужие подписки.
			e.logger.Warn("не удалось пересобрать снимок для подписки",
				zap.String("subscriptionID", sub.ID),
				zap.Uint64("userID", sub.Caller.ID),
				zap.Error(err))
			continue
		}

		// Блокировка на время push исключает гонку с закрытием канала
		// в Unsubscribe; сам push не блокируется.
		e.mu.RLock()
		if _, alive := e.subs[sub.ID]; alive {
			sub.push(snapshot)
		}
		e.mu.RUnlock()
	}
	return nil
}

package constants

// --- СТАТУСЫ ЗАКАЗОВ (Совпадает с кодами в БД) ---
const (
	StatusPendingConfirmation = "PENDING_CONFIRMATION"
	StatusPending             = "PENDING"
	StatusInProgress          = "IN_PROGRESS"
	StatusCompleted           = "COMPLETED"
	StatusCancelled           = "CANCELLED"
)

// AllStatuses — полный перечень допустимых статусов.
var AllStatuses = []string{
	StatusPendingConfirmation,
	StatusPending,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

// OpenStatuses — заказ ещё в работе (вкладка "открытые").
var OpenStatuses = []string{
	StatusPendingConfirmation,
	StatusPending,
	StatusInProgress,
}

// ClosedStatuses — заказ завершён или отменён (вкладка "закрытые").
var ClosedStatuses = []string{
	StatusCompleted,
	StatusCancelled,
}

func IsValidStatus(code string) bool {
	for _, s := range AllStatuses {
		if s == code {
			return true
		}
	}
	return false
}

func IsOpenStatus(code string) bool {
	for _, s := range OpenStatuses {
		if s == code {
			return true
		}
	}
	return false
}

// IsSelectableStatus — статусы, которые сотрудник может выставить вручную.
// PENDING_CONFIRMATION достижим только при создании заказа; намеренно
// разрешены любые переходы между остальными статусами, включая возврат
// завершённого заказа в работу.
func IsSelectableStatus(code string) bool {
	return IsValidStatus(code) && code != StatusPendingConfirmation
}

// StatusLabels — человекочитаемые названия для системных сообщений.
var StatusLabels = map[string]string{
	StatusPendingConfirmation: "Ожидает подтверждения",
	StatusPending:             "Подтверждён",
	StatusInProgress:          "В работе",
	StatusCompleted:           "Завершён",
	StatusCancelled:           "Отменён",
}

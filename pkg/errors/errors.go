package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Авторизация
	ErrEmptyAuthHeader   = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidToken      = fmt.Errorf("недопустимый токен")
	ErrTokenExpired      = fmt.Errorf("срок действия токена истёк")
	ErrUnauthorized      = fmt.Errorf("неавторизован")
	ErrForbidden         = fmt.Errorf("доступ запрещён")

	// Контекст
	ErrCallerNotFoundInContext = fmt.Errorf("пользователь не найден в контексте запроса")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")
)

// ValidationError — входные данные нарушают инварианты модели.
// Возникает строго до первой записи в хранилище.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// PersistenceError — операция с хранилищем не удалась. Для атомарных
// операций вызывающий считает, что не записано ничего, и может повторить.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("ошибка хранилища при операции %q: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func NewPersistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// UploadError — загрузка файла во внешнее хранилище не удалась.
// Прерывает всю охватывающую запись, частичных документов не остаётся.
type UploadError struct {
	FileName string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("не удалось загрузить файл %q: %v", e.FileName, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

func NewUploadError(fileName string, err error) error {
	return &UploadError{FileName: fileName, Err: err}
}

// HttpError — ошибка с HTTP-статусом для ответа клиенту.
type HttpError struct {
	Code    int
	Message string
	Err     error
}

func (e *HttpError) Error() string { return e.Message }

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err}
}

// StatusCode подбирает HTTP-статус так, чтобы клиент мог отличить
// ошибку прав, ошибку связности и неизвестную ошибку.
func StatusCode(err error) int {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}
	var uploadErr *UploadError
	if errors.As(err, &uploadErr) {
		return http.StatusBadGateway
	}
	var persistenceErr *PersistenceError
	if errors.As(err, &persistenceErr) {
		return http.StatusServiceUnavailable
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrEmptyAuthHeader),
		errors.Is(err, ErrInvalidAuthHeader),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

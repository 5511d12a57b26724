package utils

import (
	"github.com/labstack/echo/v4"

	apperrors "print-portal/pkg/errors"
)

type HttpResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	var response *HttpResponse = &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	}
	return ctx.JSON(code, response)
}

func ErrorResponse(ctx echo.Context, err error) error {
	var response *HttpResponse = &HttpResponse{
		Status:  false,
		Body:    struct{}{},
		Message: err.Error(),
	}
	return ctx.JSON(apperrors.StatusCode(err), response)
}

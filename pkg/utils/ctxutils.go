package utils

import (
	"context"

	"print-portal/pkg/contextkeys"
	apperrors "print-portal/pkg/errors"
	"print-portal/pkg/types"
)

func GetCallerFromCtx(ctx context.Context) (types.Caller, error) {
	caller, ok := ctx.Value(contextkeys.CallerKey).(types.Caller)
	if !ok {
		return types.Caller{}, apperrors.ErrCallerNotFoundInContext
	}
	return caller, nil
}

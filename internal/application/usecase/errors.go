package usecase

import (
	"github.com/google/uuid"

	apperrors "github.com/oulia/oulia/gateway/pkg/errors"
)

// invalid wraps a domain validation error for the caller.
func invalid(err error) error {
	return apperrors.NewInvalidInputError(err.Error())
}

// IDFunc generates entity ids.
type IDFunc func() string

func defaultID(f IDFunc) IDFunc {
	if f == nil {
		return uuid.NewString
	}
	return f
}

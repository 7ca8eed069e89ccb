package persistence

import (
	"errors"

	"gorm.io/gorm"

	domainErrors "github.com/oulia/oulia/gateway/pkg/errors"
)

// storeError maps a GORM error to the application error vocabulary.
func storeError(what string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainErrors.NewNotFoundError(what + " not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domainErrors.NewAlreadyExistsError(what + " already exists")
	default:
		return domainErrors.NewInternalErrorWithCause("failed to access "+what, err)
	}
}

package application

import (
	"errors"

	"github.com/oksasatya/bookshelf-api/internal/domain/repository"
	"github.com/oksasatya/bookshelf-api/pkg/apperror"
)

// storeError translates repository sentinels into client-facing errors so that
// storage details never leak past the service layer.
func storeError(err error, notFoundMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperror.NotFound(notFoundMsg)
	case errors.Is(err, repository.ErrInvalidID):
		return apperror.BadRequest(apperror.MsgInvalidID).Wrap(err)
	case errors.Is(err, repository.ErrDuplicateEmail):
		return apperror.Conflict(apperror.MsgConflictEmail)
	default:
		return apperror.Internal(err)
	}
}

func validationFailed(field, msg string) error {
	return apperror.BadRequest(apperror.MsgValidationFailed).WithDetails(map[string]string{field: msg})
}

package employee

import (
	"errors"
	"strings"

	employeeerrors "go-directory/internal/employee/errors"
	"go-directory/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const emailUniqueConstraint = "uq_employees_email"

// mapRepositoryError turns store errors into domain errors. Anything it
// does not recognise is wrapped as an internal error so the cause is
// logged but never sent to clients.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == emailUniqueConstraint {
			return employeeerrors.ErrEmployeeEmailAlreadyExists
		}
		if pgErr.Code == "23514" {
			return apperror.Wrap(err, apperror.CodeInvalidInput, "Employee violates a data constraint", apperror.ErrInvalidInput.HTTPStatus)
		}
	}

	// sqlite and drivers that only surface a message
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, emailUniqueConstraint) ||
		(strings.Contains(errMsg, "unique constraint") && strings.Contains(errMsg, "email")) {
		return employeeerrors.ErrEmployeeEmailAlreadyExists
	}

	return apperror.Wrap(err, apperror.CodeInternalError, "Internal server error", apperror.ErrInternal.HTTPStatus)
}

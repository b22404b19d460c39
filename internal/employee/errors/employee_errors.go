package employeeerrors

import (
	"go-directory/internal/shared/apperror"
	"net/http"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeEmailAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee with the same email already exists",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be one of active, inactive, terminated",
		http.StatusBadRequest,
	)
	ErrNegativeSalary = apperror.New(
		apperror.CodeInvalidInput,
		"Salary must not be negative",
		http.StatusBadRequest,
	)
	ErrInvalidHiredAt = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid hiredAt format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidEmail = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid email format",
		http.StatusBadRequest,
	)
	ErrInvalidPhotoURL = apperror.New(
		apperror.CodeInvalidInput,
		"Photo URL must be an absolute URL",
		http.StatusBadRequest,
	)
)

// RequiredField reports which required field was left blank.
func RequiredField(field string) *apperror.AppError {
	return apperror.New(apperror.CodeInvalidInput, field+" is required", http.StatusBadRequest)
}

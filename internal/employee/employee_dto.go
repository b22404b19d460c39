package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type CreateEmployeeRequest struct {
	FirstName    string           `json:"firstName" binding:"required"`
	LastName     string           `json:"lastName" binding:"required"`
	Email        string           `json:"email" binding:"required,email"`
	PhoneNumber  string           `json:"phoneNumber"`
	IDCardNumber string           `json:"idCardNumber" binding:"required"`
	Position     string           `json:"position" binding:"required"`
	Department   string           `json:"department"`
	Salary       *decimal.Decimal `json:"salary" binding:"required"`
	Status       string           `json:"status" binding:"omitempty,oneof=active inactive terminated"`
	Notes        string           `json:"notes"`
	PhotoURL     string           `json:"photoUrl" binding:"omitempty,url"`
	HiredAt      string           `json:"hiredAt" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateEmployeeRequest carries a partial update: nil fields are left
// untouched. An empty string clears an optional field.
type UpdateEmployeeRequest struct {
	FirstName    *string          `json:"firstName"`
	LastName     *string          `json:"lastName"`
	Email        *string          `json:"email"`
	PhoneNumber  *string          `json:"phoneNumber"`
	IDCardNumber *string          `json:"idCardNumber"`
	Position     *string          `json:"position"`
	Department   *string          `json:"department"`
	Salary       *decimal.Decimal `json:"salary"`
	Status       *string          `json:"status"`
	Notes        *string          `json:"notes"`
	PhotoURL     *string          `json:"photoUrl"`
	HiredAt      *string          `json:"hiredAt"`
}

type EmployeeResponse struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PhoneNumber  *string   `json:"phoneNumber"`
	IDCardNumber string    `json:"idCardNumber"`
	Position     string    `json:"position"`
	Department   *string   `json:"department"`
	Salary       float64   `json:"salary"`
	Status       string    `json:"status"`
	Notes        *string   `json:"notes"`
	PhotoURL     *string   `json:"photoUrl"`
	HiredAt      string    `json:"hiredAt"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
	StatusTerminated Status = "terminated"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusTerminated:
		return true
	}
	return false
}

type Employee struct {
	ID           int64           `gorm:"primaryKey;autoIncrement"`
	FirstName    string          `gorm:"not null"`
	LastName     string          `gorm:"not null"`
	Email        string          `gorm:"not null;uniqueIndex:uq_employees_email"`
	PhoneNumber  *string         `gorm:"column:phone_number"`
	IDCardNumber string          `gorm:"column:id_card_number;not null"`
	Position     string          `gorm:"not null"`
	Department   *string         `gorm:"column:department"`
	Salary       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status       Status          `gorm:"type:text;not null"`
	Notes        *string         `gorm:"column:notes"`
	PhotoURL     *string         `gorm:"column:photo_url"`
	HiredAt      time.Time       `gorm:"type:date;not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Employee) TableName() string {
	return "employees"
}

package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// employeesTable is read directly so this package does not depend on the
// employee module, which imports it to invalidate the stats cache.
const employeesTable = "employees"

//go:generate mockgen -source=dashboard_repo.go -destination=mock/dashboard_repo_mock.go -package=mock
type Repository interface {
	CountAll(ctx context.Context) (int64, error)
	CountHiredSince(ctx context.Context, since time.Time) (int64, error)
	AverageSalary(ctx context.Context) (decimal.Decimal, error)
	RecentHires(ctx context.Context) ([]RecentHire, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table(employeesTable).Count(&count).Error
	return count, err
}

func (r *repository) CountHiredSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table(employeesTable).
		Where("hired_at >= ?", since).
		Count(&count).Error
	return count, err
}

// AverageSalary is 0 when there are no employees.
func (r *repository) AverageSalary(ctx context.Context) (decimal.Decimal, error) {
	var avg decimal.Decimal
	err := r.db.WithContext(ctx).
		Table(employeesTable).
		Select("COALESCE(AVG(salary), 0)").
		Row().
		Scan(&avg)
	return avg, err
}

func (r *repository) RecentHires(ctx context.Context) ([]RecentHire, error) {
	var rows []RecentHire
	err := r.db.WithContext(ctx).
		Table(employeesTable).
		Select("id, first_name, last_name, position, hired_at").
		Order("hired_at DESC, id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Table(employeesTable).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&rows).Error
	return rows, err
}

package dashboard_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"go-directory/internal/dashboard"
	"go-directory/internal/employee"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupStore(t *testing.T) (employee.Service, dashboard.Service) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(
		sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&employee.Employee{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	employees := employee.NewService(sqlDB, employee.NewRepository(db), nil)
	return employees, dashboard.NewService(dashboard.NewRepository(db), nil)
}

func hire(t *testing.T, svc employee.Service, name string, salary string, daysAgo int, status string) employee.EmployeeResponse {
	t.Helper()
	s := decimal.RequireFromString(salary)
	resp, err := svc.Create(context.Background(), employee.CreateEmployeeRequest{
		FirstName:    name,
		LastName:     "Test",
		Email:        strings.ToLower(name) + "@example.com",
		IDCardNumber: "ID-" + name,
		Position:     "Engineer",
		Department:   name + " Lab",
		Salary:       &s,
		Status:       status,
		HiredAt:      time.Now().UTC().AddDate(0, 0, -daysAgo).Format("2006-01-02"),
	})
	require.NoError(t, err)
	return resp
}

func TestDashboardStats_Empty(t *testing.T) {
	_, stats := setupStore(t)

	got, err := stats.GetStats(context.Background())

	require.NoError(t, err)
	assert.Zero(t, got.TotalEmployees)
	assert.Zero(t, got.NewHires)
	assert.Zero(t, got.AverageSalary)
	assert.Empty(t, got.RecentHires)
}

func TestDashboardStats_Aggregates(t *testing.T) {
	employees, stats := setupStore(t)
	ctx := context.Background()

	hire(t, employees, "Ada", "100", 0, "")
	hire(t, employees, "Grace", "200", 10, "inactive")
	old := hire(t, employees, "Alan", "301", 60, "")

	got, err := stats.GetStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), got.TotalEmployees)
	assert.Equal(t, int64(2), got.NewHires)
	assert.Equal(t, 200.33, got.AverageSalary)
	assert.Equal(t, map[string]int64{"active": 2, "inactive": 1}, got.ByStatus)
	require.Len(t, got.RecentHires, 3)
	assert.Equal(t, "Ada", got.RecentHires[0].FirstName)
	assert.Equal(t, "Grace", got.RecentHires[1].FirstName)
	assert.Equal(t, "inactive", got.RecentHires[1].Status)
	require.NotNil(t, got.RecentHires[1].Department)
	assert.Equal(t, "Grace Lab", *got.RecentHires[1].Department)
	assert.Equal(t, "Alan", got.RecentHires[2].FirstName)
	assert.Equal(t, "active", got.RecentHires[2].Status)

	require.NoError(t, employees.Delete(ctx, fmt.Sprint(old.ID)))

	got, err = stats.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.TotalEmployees)
	assert.Equal(t, 150.0, got.AverageSalary)
}

func TestDashboardStats_ListsEveryEmployee(t *testing.T) {
	employees, stats := setupStore(t)

	for i := 0; i < 8; i++ {
		hire(t, employees, fmt.Sprintf("Emp%d", i), "10", i, "")
	}

	got, err := stats.GetStats(context.Background())
	require.NoError(t, err)

	require.Len(t, got.RecentHires, 8)
	assert.Equal(t, "Emp0", got.RecentHires[0].FirstName)
	assert.Equal(t, "Emp7", got.RecentHires[7].FirstName)
}

package dashboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-directory/internal/dashboard"
	dashboardMock "go-directory/internal/dashboard/mock"
	"go-directory/internal/shared/apperror"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type serviceDeps struct {
	service dashboard.Service
	repo    *dashboardMock.MockRepository
	rdb     *redis.Client
	mr      *miniredis.Miniredis
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()
	ctrl := gomock.NewController(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	repo := dashboardMock.NewMockRepository(ctrl)

	return &serviceDeps{
		service: dashboard.NewService(repo, rdb),
		repo:    repo,
		rdb:     rdb,
		mr:      mr,
	}
}

func strPtr(s string) *string { return &s }

func (d *serviceDeps) expectCompute(total int64, avg string) {
	d.repo.EXPECT().CountAll(gomock.Any()).Return(total, nil)
	d.expectRest(avg)
}

func (d *serviceDeps) expectRest(avg string) {
	d.repo.EXPECT().CountHiredSince(gomock.Any(), gomock.Any()).Return(int64(1), nil)
	d.repo.EXPECT().AverageSalary(gomock.Any()).Return(decimal.RequireFromString(avg), nil)
	d.repo.EXPECT().RecentHires(gomock.Any()).Return([]dashboard.RecentHire{
		{ID: 9, FirstName: "Ada", LastName: "Lovelace", Position: "Engineer", Department: strPtr("R&D"), Status: "active", HiredAt: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)},
	}, nil)
	d.repo.EXPECT().CountByStatus(gomock.Any()).Return([]dashboard.StatusCount{
		{Status: "active", Count: 2},
		{Status: "terminated", Count: 1},
	}, nil)
}

func expectedStats(total int64, avg float64) dashboard.StatsResponse {
	return dashboard.StatsResponse{
		TotalEmployees: total,
		NewHires:       1,
		AverageSalary:  avg,
		RecentHires: []dashboard.RecentHireResponse{
			{ID: 9, FirstName: "Ada", LastName: "Lovelace", Position: "Engineer", Department: strPtr("R&D"), Status: "active", HiredAt: "2026-03-04"},
		},
		ByStatus: map[string]int64{"active": 2, "terminated": 1},
	}
}

func (d *serviceDeps) cached(t *testing.T) dashboard.StatsResponse {
	t.Helper()
	raw, err := d.mr.Get(dashboard.StatsCacheKey)
	require.NoError(t, err)
	var got dashboard.StatsResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	return got
}

func TestDashboardService_GetStats(t *testing.T) {
	ctx := context.Background()

	t.Run("cache miss computes and stores", func(t *testing.T) {
		deps := setupServiceTest(t)
		want := expectedStats(3, 200.33)
		deps.expectCompute(3, "200.333333")

		got, err := deps.service.GetStats(ctx)

		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, want, deps.cached(t))
		assert.Equal(t, dashboard.StatsCacheTTL, deps.mr.TTL(dashboard.StatsCacheKey))
	})

	t.Run("cache hit skips the store", func(t *testing.T) {
		deps := setupServiceTest(t)
		want := expectedStats(3, 150)
		payload, err := json.Marshal(want)
		require.NoError(t, err)
		require.NoError(t, deps.mr.Set(dashboard.StatsCacheKey, string(payload)))

		got, err := deps.service.GetStats(ctx)

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("store error is internal", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().CountAll(gomock.Any()).Return(int64(0), errors.New("connection reset"))

		_, err := deps.service.GetStats(ctx)

		require.Error(t, err)
		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, 500, httpErr.Status)
		assert.NotContains(t, httpErr.Message, "connection reset")
		assert.False(t, deps.mr.Exists(dashboard.StatsCacheKey))
	})

	t.Run("works without redis", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := dashboardMock.NewMockRepository(ctrl)
		svc := dashboard.NewService(repo, nil)
		deps := &serviceDeps{repo: repo}
		deps.expectCompute(3, "0")

		got, err := svc.GetStats(ctx)

		require.NoError(t, err)
		assert.Equal(t, 0.0, got.AverageSalary)
		assert.Equal(t, int64(3), got.TotalEmployees)
	})
}

func TestDashboardService_Refresh(t *testing.T) {
	deps := setupServiceTest(t)
	deps.expectCompute(3, "1234.565")

	got, err := deps.service.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1234.57, got.AverageSalary)
	assert.Equal(t, expectedStats(3, 1234.57), deps.cached(t))
}

func TestDashboardService_WriteDuringRefreshIsNotMasked(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)

	// An employee is added and the cache invalidated while the first
	// computation still holds the old count.
	deps.repo.EXPECT().CountAll(gomock.Any()).DoAndReturn(func(ctx context.Context) (int64, error) {
		require.NoError(t, dashboard.InvalidateStats(ctx, deps.rdb))
		return 1, nil
	})
	deps.expectRest("100")

	stale, err := deps.service.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stale.TotalEmployees)
	assert.False(t, deps.mr.Exists(dashboard.StatsCacheKey))

	deps.expectCompute(2, "100")

	fresh, err := deps.service.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fresh.TotalEmployees)
	assert.Equal(t, int64(2), deps.cached(t).TotalEmployees)

	again, err := deps.service.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), again.TotalEmployees)
}

func TestInvalidateStats(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)
	require.NoError(t, deps.mr.Set(dashboard.StatsCacheKey, "{}"))

	require.NoError(t, dashboard.InvalidateStats(ctx, deps.rdb))
	require.NoError(t, dashboard.InvalidateStats(ctx, deps.rdb))

	assert.False(t, deps.mr.Exists(dashboard.StatsCacheKey))
	version, err := deps.mr.Get(dashboard.StatsVersionKey)
	require.NoError(t, err)
	assert.Equal(t, "2", version)

	assert.NoError(t, dashboard.InvalidateStats(ctx, nil))
}

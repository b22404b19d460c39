package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-directory/internal/shared/apperror"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	StatsCacheKey   = "dashboard:stats"
	StatsVersionKey = "dashboard:stats:version"
	StatsCacheTTL   = 5 * time.Minute
	NewHireWindow   = 30 * 24 * time.Hour
)

var errStatsOutdated = errors.New("dashboard stats outdated by a newer write")

const dateLayout = "2006-01-02"

//go:generate mockgen -source=dashboard_service.go -destination=mock/dashboard_service_mock.go -package=mock
type Service interface {
	GetStats(ctx context.Context) (StatsResponse, error)
	Refresh(ctx context.Context) (StatsResponse, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("dashboard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		now:    time.Now,
		logger: l,
	}
}

// GetStats serves the cached figures when present and otherwise computes
// them once for all concurrent callers.
func (s *service) GetStats(ctx context.Context) (StatsResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, StatsCacheKey).Result(); err == nil {
			var resp StatsResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(StatsCacheKey, func() (interface{}, error) {
		return s.Refresh(ctx)
	})
	if err != nil {
		return StatsResponse{}, err
	}

	return v.(StatsResponse), nil
}

// Refresh recomputes the figures from the store and rewrites the cache.
// The result is only cached when no write bumped the stats version while
// it was being computed.
func (s *service) Refresh(ctx context.Context) (StatsResponse, error) {
	version, versionErr := s.cacheVersion(ctx)

	resp, err := s.compute(ctx)
	if err != nil {
		s.logger.Error("compute dashboard stats failed", zap.Error(err))
		return StatsResponse{}, apperror.Wrap(err, apperror.CodeInternalError, "Internal server error", apperror.ErrInternal.HTTPStatus)
	}

	if s.rdb == nil {
		return resp, nil
	}
	if versionErr != nil {
		s.logger.Warn("failed to read dashboard stats version", zap.Error(versionErr))
		return resp, nil
	}

	jsonData, err := json.Marshal(resp)
	if err != nil {
		return resp, nil
	}
	switch err := s.storeIfCurrent(ctx, version, jsonData); {
	case err == nil:
	case errors.Is(err, errStatsOutdated), errors.Is(err, redis.TxFailedErr):
		s.logger.Debug("skip caching outdated dashboard stats", zap.Int64("version", version))
	default:
		s.logger.Warn("failed to cache dashboard stats", zap.Error(err))
	}

	return resp, nil
}

func (s *service) cacheVersion(ctx context.Context) (int64, error) {
	if s.rdb == nil {
		return 0, nil
	}
	return readVersion(ctx, s.rdb)
}

func (s *service) storeIfCurrent(ctx context.Context, version int64, payload []byte) error {
	return s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readVersion(ctx, tx)
		if err != nil {
			return err
		}
		if current != version {
			return errStatsOutdated
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, StatsCacheKey, payload, StatsCacheTTL)
			return nil
		})
		return err
	}, StatsVersionKey)
}

type versionReader interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readVersion(ctx context.Context, r versionReader) (int64, error) {
	v, err := r.Get(ctx, StatsVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// InvalidateStats drops the cached figures after a write. Bumping the
// version first stops a Refresh already in flight from caching numbers
// read before the write.
func InvalidateStats(ctx context.Context, rdb *redis.Client) error {
	if rdb == nil {
		return nil
	}
	if err := rdb.Incr(ctx, StatsVersionKey).Err(); err != nil {
		return err
	}
	return rdb.Del(ctx, StatsCacheKey).Err()
}

func (s *service) compute(ctx context.Context) (StatsResponse, error) {
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return StatsResponse{}, err
	}

	newHires, err := s.repo.CountHiredSince(ctx, hireWindowStart(s.now()))
	if err != nil {
		return StatsResponse{}, err
	}

	avg, err := s.repo.AverageSalary(ctx)
	if err != nil {
		return StatsResponse{}, err
	}

	recent, err := s.repo.RecentHires(ctx)
	if err != nil {
		return StatsResponse{}, err
	}

	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return StatsResponse{}, err
	}

	resp := StatsResponse{
		TotalEmployees: total,
		NewHires:       newHires,
		AverageSalary:  avg.Round(2).InexactFloat64(),
		RecentHires:    make([]RecentHireResponse, len(recent)),
		ByStatus:       make(map[string]int64, len(byStatus)),
	}
	for i, h := range recent {
		resp.RecentHires[i] = RecentHireResponse{
			ID:         h.ID,
			FirstName:  h.FirstName,
			LastName:   h.LastName,
			Position:   h.Position,
			Department: h.Department,
			Status:     h.Status,
			HiredAt:    h.HiredAt.Format(dateLayout),
		}
	}
	for _, sc := range byStatus {
		resp.ByStatus[sc.Status] = sc.Count
	}

	return resp, nil
}

// hireWindowStart is the first calendar day (UTC) that still counts as a
// new hire. hired_at is a date, so the cutoff is truncated to midnight.
func hireWindowStart(now time.Time) time.Time {
	t := now.UTC().Add(-NewHireWindow)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package employee

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"go-directory/internal/dashboard"
	employeeerrors "go-directory/internal/employee/errors"
	"go-directory/internal/events"
	"go-directory/internal/messaging/kafka"
	"go-directory/internal/shared/contextutil"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, query string) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

var validate = validator.New()

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	rdb    *redis.Client
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		rdb:    rdb,
		logger: l,
	}
}

func (s *service) List(ctx context.Context, query string) ([]EmployeeResponse, error) {
	query = strings.TrimSpace(query)
	s.logger.Debug("list employees requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("query", query),
	)

	empls, err := s.repo.FindAll(ctx, query)
	if err != nil {
		s.logger.Error("list employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(empls), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("employee_id", id),
	)

	employeeID, err := parseID(id)
	if err != nil {
		return EmployeeResponse{}, err
	}

	empl, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		mapped := mapRepositoryError(err)
		if !errors.Is(mapped, employeeerrors.ErrEmployeeNotFound) {
			s.logger.Error("get employee by id failed", zap.Int64("employee_id", employeeID), zap.Error(err))
		}
		return EmployeeResponse{}, mapped
	}

	return mapToResponse(*empl), nil
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
	)

	empl, err := newEmployeeFromRequest(req, time.Now())
	if err != nil {
		s.logger.Warn("create employee validation failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.ExistsByEmail(ctx, empl.Email, 0)
	if err != nil {
		s.logger.Error("create employee email lookup failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if exists {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeEmailAlreadyExists
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.queueLifecycleEvent(ctx, tx, events.EmployeeCreated, empl.ID); err != nil {
		s.logger.Error("create employee outbox persist failed",
			zap.String("request_id", rid),
			zap.Int64("employee_id", empl.ID),
			zap.Error(err),
		)
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.invalidateStats(ctx)

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.Int64("employee_id", empl.ID),
	)

	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update employee requested",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
	)

	employeeID, err := parseID(id)
	if err != nil {
		return EmployeeResponse{}, err
	}

	if err := validateUpdateRequest(req); err != nil {
		s.logger.Warn("update employee validation failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	empl, err := qtx.FindByID(ctx, employeeID)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	emailChanged := req.Email != nil && !strings.EqualFold(strings.TrimSpace(*req.Email), empl.Email)
	applyUpdate(empl, req)

	if emailChanged {
		exists, err := qtx.ExistsByEmail(ctx, empl.Email, empl.ID)
		if err != nil {
			s.logger.Error("update employee email lookup failed", zap.String("request_id", rid), zap.Error(err))
			return EmployeeResponse{}, mapRepositoryError(err)
		}
		if exists {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeEmailAlreadyExists
		}
	}

	empl.UpdatedAt = time.Now()
	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.queueLifecycleEvent(ctx, tx, events.EmployeeUpdated, empl.ID); err != nil {
		s.logger.Error("update employee outbox persist failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.invalidateStats(ctx)

	s.logger.Info("update employee success",
		zap.String("request_id", rid),
		zap.Int64("employee_id", empl.ID),
	)

	return mapToResponse(*empl), nil
}

// Delete removes the row permanently. Deleting an id that does not exist
// (including one that was already deleted) returns ErrEmployeeNotFound.
func (s *service) Delete(ctx context.Context, id string) error {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("delete employee requested",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
	)

	employeeID, err := parseID(id)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Delete(ctx, employeeID); err != nil {
		return mapRepositoryError(err)
	}

	if err := s.queueLifecycleEvent(ctx, tx, events.EmployeeDeleted, employeeID); err != nil {
		s.logger.Error("delete employee outbox persist failed", zap.String("request_id", rid), zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return mapRepositoryError(err)
	}

	s.invalidateStats(ctx)

	s.logger.Info("delete employee success",
		zap.String("request_id", rid),
		zap.Int64("employee_id", employeeID),
	)
	return nil
}

// invalidateStats drops the cached dashboard figures. A failure only
// delays freshness until the cache TTL, so it is logged and ignored.
func (s *service) invalidateStats(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := dashboard.InvalidateStats(ctx, s.rdb); err != nil {
		s.logger.Error("failed to invalidate dashboard stats cache",
			zap.Error(err),
			zap.String("key", dashboard.StatsCacheKey),
		)
	}
}

func parseID(id string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || v <= 0 {
		return 0, employeeerrors.ErrInvalidEmployeeID
	}
	return v, nil
}

func newEmployeeFromRequest(req CreateEmployeeRequest, now time.Time) (*Employee, error) {
	required := []struct {
		label string
		value string
	}{
		{"First Name", req.FirstName},
		{"Last Name", req.LastName},
		{"Email", req.Email},
		{"Id Card Number", req.IDCardNumber},
		{"Position", req.Position},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, employeeerrors.RequiredField(f.label)
		}
	}
	if req.Salary == nil {
		return nil, employeeerrors.RequiredField("Salary")
	}
	if req.Salary.IsNegative() {
		return nil, employeeerrors.ErrNegativeSalary
	}

	email := strings.TrimSpace(req.Email)
	if validate.Var(email, "email") != nil {
		return nil, employeeerrors.ErrInvalidEmail
	}

	if validate.Var(strings.TrimSpace(req.PhotoURL), "omitempty,url") != nil {
		return nil, employeeerrors.ErrInvalidPhotoURL
	}

	status := StatusActive
	if strings.TrimSpace(req.Status) != "" {
		status = Status(strings.TrimSpace(req.Status))
		if !status.Valid() {
			return nil, employeeerrors.ErrInvalidStatus
		}
	}

	hiredAt := truncateToDate(now)
	if strings.TrimSpace(req.HiredAt) != "" {
		d, err := time.Parse(dateLayout, strings.TrimSpace(req.HiredAt))
		if err != nil {
			return nil, employeeerrors.ErrInvalidHiredAt
		}
		hiredAt = d
	}

	return &Employee{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PhoneNumber:  optional(req.PhoneNumber),
		IDCardNumber: strings.TrimSpace(req.IDCardNumber),
		Position:     strings.TrimSpace(req.Position),
		Department:   optional(req.Department),
		Salary:       req.Salary.Round(2),
		Status:       status,
		Notes:        optional(req.Notes),
		PhotoURL:     optional(req.PhotoURL),
		HiredAt:      hiredAt,
	}, nil
}

func validateUpdateRequest(req UpdateEmployeeRequest) error {
	required := []struct {
		label string
		value *string
	}{
		{"First Name", req.FirstName},
		{"Last Name", req.LastName},
		{"Email", req.Email},
		{"Id Card Number", req.IDCardNumber},
		{"Position", req.Position},
	}
	for _, f := range required {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			return employeeerrors.RequiredField(f.label)
		}
	}
	if req.Email != nil && validate.Var(strings.TrimSpace(*req.Email), "email") != nil {
		return employeeerrors.ErrInvalidEmail
	}
	if req.Salary != nil && req.Salary.IsNegative() {
		return employeeerrors.ErrNegativeSalary
	}
	if req.PhotoURL != nil && validate.Var(strings.TrimSpace(*req.PhotoURL), "omitempty,url") != nil {
		return employeeerrors.ErrInvalidPhotoURL
	}
	if req.Status != nil && !Status(strings.TrimSpace(*req.Status)).Valid() {
		return employeeerrors.ErrInvalidStatus
	}
	if req.HiredAt != nil {
		if _, err := time.Parse(dateLayout, strings.TrimSpace(*req.HiredAt)); err != nil {
			return employeeerrors.ErrInvalidHiredAt
		}
	}
	return nil
}

// applyUpdate merges a validated partial update into empl.
func applyUpdate(empl *Employee, req UpdateEmployeeRequest) {
	if req.FirstName != nil {
		empl.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		empl.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		empl.Email = strings.TrimSpace(*req.Email)
	}
	if req.PhoneNumber != nil {
		empl.PhoneNumber = optional(*req.PhoneNumber)
	}
	if req.IDCardNumber != nil {
		empl.IDCardNumber = strings.TrimSpace(*req.IDCardNumber)
	}
	if req.Position != nil {
		empl.Position = strings.TrimSpace(*req.Position)
	}
	if req.Department != nil {
		empl.Department = optional(*req.Department)
	}
	if req.Salary != nil {
		empl.Salary = req.Salary.Round(2)
	}
	if req.Status != nil {
		empl.Status = Status(strings.TrimSpace(*req.Status))
	}
	if req.Notes != nil {
		empl.Notes = optional(*req.Notes)
	}
	if req.PhotoURL != nil {
		empl.PhotoURL = optional(*req.PhotoURL)
	}
	if req.HiredAt != nil {
		empl.HiredAt, _ = time.Parse(dateLayout, strings.TrimSpace(*req.HiredAt))
	}
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           empl.ID,
		FirstName:    empl.FirstName,
		LastName:     empl.LastName,
		Email:        empl.Email,
		PhoneNumber:  empl.PhoneNumber,
		IDCardNumber: empl.IDCardNumber,
		Position:     empl.Position,
		Department:   empl.Department,
		Salary:       empl.Salary.InexactFloat64(),
		Status:       string(empl.Status),
		Notes:        empl.Notes,
		PhotoURL:     empl.PhotoURL,
		HiredAt:      empl.HiredAt.Format(dateLayout),
		CreatedAt:    empl.CreatedAt,
		UpdatedAt:    empl.UpdatedAt,
	}
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

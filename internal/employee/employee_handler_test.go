package employee_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-directory/internal/config"
	"go-directory/internal/employee"
	employeeerrors "go-directory/internal/employee/errors"
	"go-directory/internal/shared/apperror"
	"go-directory/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeService struct {
	ListFn    func(ctx context.Context, query string) ([]employee.EmployeeResponse, error)
	GetByIDFn func(ctx context.Context, id string) (employee.EmployeeResponse, error)
	CreateFn  func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)
	UpdateFn  func(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error)
	DeleteFn  func(ctx context.Context, id string) error
}

func (f *fakeEmployeeService) List(ctx context.Context, query string) ([]employee.EmployeeResponse, error) {
	return f.ListFn(ctx, query)
}
func (f *fakeEmployeeService) GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeEmployeeService) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.CreateFn(ctx, req)
}
func (f *fakeEmployeeService) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.UpdateFn(ctx, id, req)
}
func (f *fakeEmployeeService) Delete(ctx context.Context, id string) error {
	return f.DeleteFn(ctx, id)
}

func init() {
	gin.SetMode(gin.TestMode)
	apperror.Init()
}

func setupRouter(svc employee.Service) *gin.Engine {
	r := gin.New()
	api := r.Group("/api/v1")
	employee.RegisterRoutes(api, employee.NewHandler(svc), config.RateLimitConfig{}, nil)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.ApiEnvelope {
	t.Helper()
	var env response.ApiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestEmployeeHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, "Ada", req.FirstName)
				assert.Equal(t, "90000", req.Salary.String())
				return employee.EmployeeResponse{
					ID:        1,
					FirstName: req.FirstName,
					LastName:  req.LastName,
					Email:     req.Email,
					Salary:    90000,
					Status:    "active",
				}, nil
			},
		}

		body := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","idCardNumber":"X1","position":"Engineer","salary":90000}`
		w := doRequest(setupRouter(svc), http.MethodPost, "/api/v1/employees", body)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w)
		assert.True(t, env.Ok)
		assert.Contains(t, w.Body.String(), `"status":"active"`)
		assert.Contains(t, w.Body.String(), `"firstName":"Ada"`)
	})

	t.Run("missing required field", func(t *testing.T) {
		svc := &fakeEmployeeService{}

		body := `{"lastName":"Lovelace","email":"ada@example.com","idCardNumber":"X1","position":"Engineer","salary":1}`
		w := doRequest(setupRouter(svc), http.MethodPost, "/api/v1/employees", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w)
		assert.False(t, env.Ok)
		require.NotNil(t, env.Error)
		assert.Equal(t, apperror.CodeInvalidInput, env.Error.Code)
		assert.Equal(t, "First Name is required", env.Error.Message)
		assert.Equal(t, env.Error.Message, env.Message)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc := &fakeEmployeeService{}

		body := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","idCardNumber":"X1","position":"Engineer","salary":1,"status":"retired"}`
		w := doRequest(setupRouter(svc), http.MethodPost, "/api/v1/employees", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Status is invalid")
	})

	t.Run("malformed json", func(t *testing.T) {
		w := doRequest(setupRouter(&fakeEmployeeService{}), http.MethodPost, "/api/v1/employees", `{"firstName":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("service error is not leaked", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, errors.New("database connection failed")
			},
		}

		body := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","idCardNumber":"X1","position":"Engineer","salary":1}`
		w := doRequest(setupRouter(svc), http.MethodPost, "/api/v1/employees", body)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Internal server error")
		assert.NotContains(t, w.Body.String(), "database connection failed")
	})

	t.Run("duplicate email returns conflict", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeEmailAlreadyExists
			},
		}

		body := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","idCardNumber":"X1","position":"Engineer","salary":1}`
		w := doRequest(setupRouter(svc), http.MethodPost, "/api/v1/employees", body)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), apperror.CodeConflict)
	})
}

func TestEmployeeHandler_GetAll(t *testing.T) {
	people := []employee.EmployeeResponse{
		{ID: 1, FirstName: "John", LastName: "Smith"},
		{ID: 2, FirstName: "Jane", LastName: "Smithers"},
		{ID: 3, FirstName: "Smithy", LastName: "Jones"},
	}

	t.Run("passes query and returns everything without paging", func(t *testing.T) {
		svc := &fakeEmployeeService{
			ListFn: func(ctx context.Context, query string) ([]employee.EmployeeResponse, error) {
				assert.Equal(t, "smith", query)
				return people, nil
			},
		}

		w := doRequest(setupRouter(svc), http.MethodGet, "/api/v1/employees?query=smith", "")

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.Nil(t, env.Meta)
		assert.Len(t, env.Data, 3)
	})

	t.Run("paging slices the result", func(t *testing.T) {
		svc := &fakeEmployeeService{
			ListFn: func(ctx context.Context, query string) ([]employee.EmployeeResponse, error) {
				assert.Equal(t, "", query)
				return people, nil
			},
		}

		w := doRequest(setupRouter(svc), http.MethodGet, "/api/v1/employees?page=2&page_size=2", "")

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		require.NotNil(t, env.Meta)
		assert.Equal(t, int64(3), env.Meta.Total)
		assert.Equal(t, 2, env.Meta.TotalPages)
		assert.Len(t, env.Data, 1)
		assert.Contains(t, w.Body.String(), "Smithy")
	})

	t.Run("service error", func(t *testing.T) {
		svc := &fakeEmployeeService{
			ListFn: func(ctx context.Context, query string) ([]employee.EmployeeResponse, error) {
				return nil, errors.New("database error")
			},
		}

		w := doRequest(setupRouter(svc), http.MethodGet, "/api/v1/employees", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestEmployeeHandler_GetById(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GetByIDFn: func(ctx context.Context, id string) (employee.EmployeeResponse, error) {
				assert.Equal(t, "7", id)
				return employee.EmployeeResponse{ID: 7, FirstName: "Grace"}, nil
			},
		}

		w := doRequest(setupRouter(svc), http.MethodGet, "/api/v1/employees/7", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Grace")
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GetByIDFn: func(ctx context.Context, id string) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
			},
		}

		w := doRequest(setupRouter(svc), http.MethodGet, "/api/v1/employees/404", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, apperror.CodeNotFound, env.Error.Code)
		assert.Equal(t, "Employee not found", env.Message)
	})
}

func TestEmployeeHandler_Update(t *testing.T) {
	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		t.Run(method+" success", func(t *testing.T) {
			svc := &fakeEmployeeService{
				UpdateFn: func(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
					assert.Equal(t, "5", id)
					require.NotNil(t, req.Position)
					assert.Equal(t, "CTO", *req.Position)
					assert.Nil(t, req.FirstName)
					return employee.EmployeeResponse{ID: 5, Position: "CTO"}, nil
				},
			}

			w := doRequest(setupRouter(svc), method, "/api/v1/employees/5", `{"position":"CTO"}`)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), "CTO")
		})
	}

	t.Run("negative salary", func(t *testing.T) {
		svc := &fakeEmployeeService{
			UpdateFn: func(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrNegativeSalary
			},
		}

		w := doRequest(setupRouter(svc), http.MethodPut, "/api/v1/employees/5", `{"salary":-5}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Salary must not be negative")
	})

	t.Run("wrong type", func(t *testing.T) {
		w := doRequest(setupRouter(&fakeEmployeeService{}), http.MethodPut, "/api/v1/employees/5", `{"firstName":12}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "First Name is invalid")
	})
}

func TestEmployeeHandler_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			DeleteFn: func(ctx context.Context, id string) error {
				assert.Equal(t, "3", id)
				return nil
			},
		}

		w := doRequest(setupRouter(svc), http.MethodDelete, "/api/v1/employees/3", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true,"data":{"deleted":true}}`, w.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeEmployeeService{
			DeleteFn: func(ctx context.Context, id string) error {
				return employeeerrors.ErrEmployeeNotFound
			},
		}

		w := doRequest(setupRouter(svc), http.MethodDelete, "/api/v1/employees/3", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

package directoryclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-directory/internal/dashboard"
	"go-directory/internal/employee"
	"go-directory/internal/shared/response"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	defaultTimeout = 10 * time.Second
	defaultRetries = 2
)

// Client talks to the directory HTTP API.
type Client struct {
	http *resty.Client
}

type Option func(*resty.Client)

func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

func WithRetries(n int) Option {
	return func(c *resty.Client) { c.SetRetryCount(n) }
}

// New builds a client for the API rooted at baseURL, for example
// http://localhost:3000/api/v1.
func New(baseURL string, opts ...Option) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(defaultRetries).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(retryCondition)

	for _, opt := range opts {
		opt(c)
	}
	return &Client{http: c}
}

func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}

type envelope[T any] struct {
	Ok      bool                     `json:"ok"`
	Data    T                        `json:"data"`
	Meta    *response.PaginationMeta `json:"meta"`
	Error   *response.ErrorBody      `json:"error"`
	Message string                   `json:"message"`
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is an API 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func do[T any](ctx context.Context, req *resty.Request, method, path string) (T, error) {
	var (
		result  envelope[T]
		failure envelope[any]
		zero    T
	)

	resp, err := req.
		SetContext(ctx).
		SetResult(&result).
		SetError(&failure).
		Execute(method, path)
	if err != nil {
		return zero, fmt.Errorf("request failed: %w", err)
	}

	if resp.IsError() {
		apiErr := &APIError{Status: resp.StatusCode(), Message: failure.Message}
		if failure.Error != nil {
			apiErr.Code = failure.Error.Code
			apiErr.Message = failure.Error.Message
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode())
		}
		return zero, apiErr
	}

	return result.Data, nil
}

func (c *Client) List(ctx context.Context, query string) ([]employee.EmployeeResponse, error) {
	req := c.http.R()
	if query != "" {
		req.SetQueryParam("query", query)
	}
	return do[[]employee.EmployeeResponse](ctx, req, http.MethodGet, "/employees")
}

func (c *Client) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	req := c.http.R().SetPathParam("id", id)
	return do[employee.EmployeeResponse](ctx, req, http.MethodGet, "/employees/{id}")
}

// Create sends a fresh Idempotency-Key so retried attempts are not
// applied twice.
func (c *Client) Create(ctx context.Context, in employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	req := c.http.R().
		SetHeader("Idempotency-Key", uuid.NewString()).
		SetBody(in)
	return do[employee.EmployeeResponse](ctx, req, http.MethodPost, "/employees")
}

func (c *Client) Update(ctx context.Context, id string, in employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	req := c.http.R().SetPathParam("id", id).SetBody(in)
	return do[employee.EmployeeResponse](ctx, req, http.MethodPatch, "/employees/{id}")
}

func (c *Client) Delete(ctx context.Context, id string) error {
	req := c.http.R().SetPathParam("id", id)
	_, err := do[map[string]bool](ctx, req, http.MethodDelete, "/employees/{id}")
	return err
}

func (c *Client) Stats(ctx context.Context) (dashboard.StatsResponse, error) {
	return do[dashboard.StatsResponse](ctx, c.http.R(), http.MethodGet, "/dashboard/stats")
}

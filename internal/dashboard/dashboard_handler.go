package dashboard

import (
	"net/http"
	"strconv"

	"go-directory/internal/shared/apperror"
	"go-directory/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("dashboard.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.handler")
	}
	return &Handler{service: service, logger: l}
}

// GetStats returns the dashboard figures. The optional `limit` query
// parameter caps recentHires; without it every employee is listed.
func (h *Handler) GetStats(c *gin.Context) {
	h.logger.Debug("http get dashboard stats")

	limit := -1
	if raw, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httpErr := apperror.ToHTTP(apperror.InvalidField("Limit"))
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
			return
		}
		limit = n
	}

	resp, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Error("dashboard request failed", zap.Int("status", httpErr.Status), zap.Error(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	if limit >= 0 && limit < len(resp.RecentHires) {
		resp.RecentHires = resp.RecentHires[:limit]
	}

	response.Success(c, http.StatusOK, resp, nil)
}

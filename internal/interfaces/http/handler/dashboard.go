package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pharma/backend/internal/application/report"
	"github.com/pharma/backend/internal/interfaces/http/dto"
)

const defaultRecentLimit = 5

// DashboardHandler exposes the dashboard aggregation endpoints
type DashboardHandler struct {
	BaseHandler
	service *report.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service *report.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats handles GET /api/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Sales handles GET /api/dashboard/sales?period=daily|weekly|monthly
func (h *DashboardHandler) Sales(c *gin.Context) {
	period := c.DefaultQuery("period", report.PeriodDaily)
	switch period {
	case report.PeriodDaily, report.PeriodWeekly, report.PeriodMonthly:
	default:
		resp := dto.NewErrorResponseWithRequestID(dto.ErrCodeInvalidInput,
			"period must be daily, weekly, or monthly", getRequestID(c))
		c.JSON(dto.GetHTTPStatus(dto.ErrCodeInvalidInput), resp)
		return
	}

	points, err := h.service.GetSalesSeries(c.Request.Context(), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, points)
}

// CategoryShare handles GET /api/dashboard/categories
func (h *DashboardHandler) CategoryShare(c *gin.Context) {
	shares, err := h.service.GetCategoryShare(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shares)
}

// RecentTransactions handles GET /api/dashboard/recent-transactions?limit=n
func (h *DashboardHandler) RecentTransactions(c *gin.Context) {
	limit := defaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			resp := dto.NewErrorResponseWithRequestID(dto.ErrCodeInvalidInput,
				"limit must be an integer between 1 and 100", getRequestID(c))
			c.JSON(dto.GetHTTPStatus(dto.ErrCodeInvalidInput), resp)
			return
		}
		limit = parsed
	}

	recent, err := h.service.GetRecentTransactions(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, recent)
}

// LowStock handles GET /api/dashboard/low-stock
func (h *DashboardHandler) LowStock(c *gin.Context) {
	detail, err := h.service.GetLowStockDetail(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}

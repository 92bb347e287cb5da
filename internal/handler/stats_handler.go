package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sleekinvoices/internal/export"
	"sleekinvoices/internal/service"
)

// StatsHandler handles dashboard analytics endpoints.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Dashboard handles GET /api/v1/stats/dashboard
// @Summary Get dashboard summary statistics
// @Description Aggregates revenue, outstanding balance, counts by status, this month's collections and expenses, and active client count.
// @Tags stats
// @Produce json
// @Success 200 {object} Response{data=domain.DashboardStats} "Dashboard statistics"
// @Security BearerAuth
// @Router /stats/dashboard [get]
func (h *StatsHandler) Dashboard(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	stats, err := h.statsService.Dashboard(c.Request.Context(), tenantID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, stats)
}

// RevenueByMonth handles GET /api/v1/stats/revenue
// @Summary Get monthly revenue and expense totals
// @Tags stats
// @Produce json
// @Param months query int false "Number of months to include (max 36)" default(12)
// @Success 200 {object} Response{data=[]domain.MonthlyRevenue} "Monthly revenue"
// @Security BearerAuth
// @Router /stats/revenue [get]
func (h *StatsHandler) RevenueByMonth(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	rows, err := h.statsService.RevenueByMonth(c.Request.Context(), tenantID, queryInt(c, "months", 12))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rows)
}

// TopClients handles GET /api/v1/stats/top-clients
// @Summary Get clients ranked by billed revenue
// @Tags stats
// @Produce json
// @Param limit query int false "Number of clients to return (max 50)" default(10)
// @Success 200 {object} Response{data=[]domain.ClientRevenue} "Top clients"
// @Security BearerAuth
// @Router /stats/top-clients [get]
func (h *StatsHandler) TopClients(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	rows, err := h.statsService.TopClients(c.Request.Context(), tenantID, queryInt(c, "limit", 10))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rows)
}

// ExpensesByCategory handles GET /api/v1/stats/expense-categories
// @Summary Get expense totals grouped by category
// @Tags stats
// @Produce json
// @Param from query string false "Start date (RFC 3339), defaults to start of current year"
// @Param to query string false "End date (RFC 3339), defaults to now"
// @Success 200 {object} Response{data=[]domain.CategoryTotal} "Category totals"
// @Security BearerAuth
// @Router /stats/expense-categories [get]
func (h *StatsHandler) ExpensesByCategory(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}

	rows, err := h.statsService.ExpensesByCategory(c.Request.Context(), tenantID, from, to)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rows)
}

// ExportXLSX handles GET /api/v1/stats/export
// @Summary Export analytics as an XLSX workbook
// @Description Builds a workbook with monthly revenue, top clients, and expense category sheets.
// @Tags stats
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param months query int false "Number of months to include (max 36)" default(12)
// @Success 200 {file} binary "XLSX workbook"
// @Security BearerAuth
// @Router /stats/export [get]
func (h *StatsHandler) ExportXLSX(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	months := queryInt(c, "months", 12)

	revenue, err := h.statsService.RevenueByMonth(ctx, tenantID, months)
	if err != nil {
		HandleError(c, err)
		return
	}
	topClients, err := h.statsService.TopClients(ctx, tenantID, 10)
	if err != nil {
		HandleError(c, err)
		return
	}
	now := time.Now().UTC()
	categories, err := h.statsService.ExpensesByCategory(ctx, tenantID,
		now.AddDate(0, -months, 0), now)
	if err != nil {
		HandleError(c, err)
		return
	}

	workbook, err := export.WriteAnalyticsXLSX(export.AnalyticsWorkbook{
		Revenue:    revenue,
		TopClients: topClients,
		Categories: categories,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename("analytics", "xlsx")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}

// parseDateRange parses from/to query parameters. Returns false if a supplied
// value is malformed (error response already written).
func parseDateRange(c *gin.Context) (from, to time.Time, ok bool) {
	now := time.Now().UTC()
	from = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	to = now

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "from must be an RFC 3339 timestamp")
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "to must be an RFC 3339 timestamp")
			return time.Time{}, time.Time{}, false
		}
		to = parsed
	}
	return from, to, true
}

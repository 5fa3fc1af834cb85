package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"visaflow/internal/services"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

// limit reads ?limit=, defaulting to services.DashboardLimit. "all" means no cap.
func limit(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("limit", strconv.Itoa(services.DashboardLimit))
	if raw == "all" {
		return -1, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer or \"all\""})
		return 0, false
	}
	return n, true
}

// Dashboard godoc
// @Summary      Dashboard counts, totals and rankings
// @Description  Sections the caller's role cannot see are omitted
// @Tags         Reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  services.DashboardView
// @Router       /dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	view, err := h.Service.Dashboard(c.Request.Context(), capabilities(c))
	if err != nil {
		writeError(c, "report.dashboard", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ReportHandler) Outstanding(c *gin.Context) {
	n, ok := limit(c)
	if !ok {
		return
	}
	data, err := h.Service.Outstanding(c.Request.Context(), n)
	if err != nil {
		writeError(c, "report.outstanding", err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *ReportHandler) TopAgents(c *gin.Context) {
	n, ok := limit(c)
	if !ok {
		return
	}
	data, err := h.Service.TopAgents(c.Request.Context(), n)
	if err != nil {
		writeError(c, "report.top_agents", err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *ReportHandler) TeamPerformance(c *gin.Context) {
	data, err := h.Service.TeamPerformance(c.Request.Context())
	if err != nil {
		writeError(c, "report.team", err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// Transactions godoc
// @Summary   Payments and expenses of all clients, newest first
// @Tags      Reports
// @Produce   json
// @Security  BearerAuth
// @Param     type  query     string  false  "payment or expense"
// @Success   200   {array}   services.Transaction
// @Failure   400   {object}  map[string]string
// @Failure   403   {object}  map[string]string
// @Router    /transactions [get]
func (h *ReportHandler) Transactions(c *gin.Context) {
	data, err := h.Service.Transactions(c.Request.Context(), services.TransactionType(c.Query("type")))
	if err != nil {
		writeError(c, "report.transactions", err)
		return
	}
	c.JSON(http.StatusOK, data)
}

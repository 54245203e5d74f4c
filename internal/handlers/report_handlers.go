package handlers

import (
	"net/http"
	"time"

	"erp-service/internal/services"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// GenerateReport builds a report as of now
// GET /api/v1/reports/:type
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	report, err := h.reports.Generate(c.Request.Context(), tenantID(c), c.Param("type"), time.Now())
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to generate report")
		return
	}
	respondOK(c, http.StatusOK, report, "")
}

// ListSnapshots lists delivered report runs
func (h *ReportHandler) ListSnapshots(c *gin.Context) {
	params := listParams(c)
	snapshots, total, err := h.reports.ListSnapshots(c.Request.Context(), tenantID(c), c.Query("type"), params)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve report history")
		return
	}
	respondList(c, snapshots, total, params)
}

// Dashboard returns the landing-page summary
// GET /api/v1/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.reports.Dashboard(c.Request.Context(), tenantID(c), time.Now())
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to load dashboard")
		return
	}
	respondOK(c, http.StatusOK, stats, "")
}

package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/amt-results-api/internal/service"
	appErrors "github.com/noah-isme/amt-results-api/pkg/errors"
	"github.com/noah-isme/amt-results-api/pkg/response"
)

// ExportHandler serves CSV and PDF downloads.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// RankingsCSV godoc
// @Summary Download one test's ranking as CSV
// @Tags Exports
// @Produce text/csv
// @Param testName path string true "Test name"
// @Param date query string false "Test date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Router /exports/rankings/{testName}.csv [get]
func (h *ExportHandler) RankingsCSV(c *gin.Context) {
	testName := strings.TrimSuffix(strings.TrimSpace(c.Param("testName")), ".csv")

	var testDate *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD"))
			return
		}
		testDate = &parsed
	}

	payload, err := h.exports.RankingsCSV(c.Request.Context(), testName, testDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ranking-%s.csv"`, testName))
	c.Data(http.StatusOK, "text/csv", payload)
}

// StudentReportPDF godoc
// @Summary Download one student's report card as PDF
// @Tags Exports
// @Produce application/pdf
// @Param id path string true "Student ID"
// @Success 200 {file} file
// @Router /exports/students/{id}/report.pdf [get]
func (h *ExportHandler) StudentReportPDF(c *gin.Context) {
	studentID := c.Param("id")

	payload, err := h.exports.StudentReportPDF(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="report-%s.pdf"`, studentID))
	c.Data(http.StatusOK, "application/pdf", payload)
}

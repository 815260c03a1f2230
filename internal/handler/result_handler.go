package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/amt-results-api/internal/dto"
	"github.com/noah-isme/amt-results-api/internal/service"
	appErrors "github.com/noah-isme/amt-results-api/pkg/errors"
	"github.com/noah-isme/amt-results-api/pkg/response"
)

// ResultHandler exposes score record endpoints.
type ResultHandler struct {
	results *service.ResultService
}

// NewResultHandler constructs ResultHandler.
func NewResultHandler(results *service.ResultService) *ResultHandler {
	return &ResultHandler{results: results}
}

// List godoc
// @Summary List all results with derived totals and verdicts
// @Tags Results
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /results [get]
func (h *ResultHandler) List(c *gin.Context) {
	views, err := h.results.ListResults(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, nil)
}

// StudentResults godoc
// @Summary One student's results with totals, verdicts and flat pass flag
// @Tags Results
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/results [get]
func (h *ResultHandler) StudentResults(c *gin.Context) {
	views, err := h.results.StudentResults(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, nil)
}

// StudentStats godoc
// @Summary Aggregated statistics for one student
// @Tags Results
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/stats [get]
func (h *ResultHandler) StudentStats(c *gin.Context) {
	stats, err := h.results.StudentStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Import godoc
// @Summary Batch import score records
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body dto.ImportScoresRequest true "Rows, or a text/csv body with a header row"
// @Success 200 {object} response.Envelope
// @Router /results/import [post]
func (h *ResultHandler) Import(c *gin.Context) {
	var req dto.ImportScoresRequest
	if strings.Contains(c.ContentType(), "text/csv") {
		parsed, err := dto.ParseScoresCSV(c.Request.Body)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid csv payload"))
			return
		}
		req = parsed
	} else if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	report, err := h.results.ImportScores(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/amt-results-api/internal/service"
	appErrors "github.com/noah-isme/amt-results-api/pkg/errors"
	"github.com/noah-isme/amt-results-api/pkg/response"
)

// RankingHandler exposes ranking endpoints.
type RankingHandler struct {
	rankings *service.RankingService
}

// NewRankingHandler constructs RankingHandler.
func NewRankingHandler(rankings *service.RankingService) *RankingHandler {
	return &RankingHandler{rankings: rankings}
}

// TestRanking godoc
// @Summary Ranking within one test
// @Tags Rankings
// @Produce json
// @Param testName path string true "Test name"
// @Param date query string false "Test date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /rankings/tests/{testName} [get]
func (h *RankingHandler) TestRanking(c *gin.Context) {
	testName := strings.TrimSpace(c.Param("testName"))

	var testDate *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD"))
			return
		}
		testDate = &parsed
	}

	ranking, err := h.rankings.TestRanking(c.Request.Context(), testName, testDate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ranking, nil)
}

// OverallRanking godoc
// @Summary One student's overall ranking across all tests
// @Tags Rankings
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/ranking [get]
func (h *RankingHandler) OverallRanking(c *gin.Context) {
	ranking, err := h.rankings.OverallRanking(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ranking, nil)
}

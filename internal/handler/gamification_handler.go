package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/amt-results-api/internal/service"
	"github.com/noah-isme/amt-results-api/pkg/response"
)

// GamificationHandler exposes level and badge endpoints.
type GamificationHandler struct {
	gamification *service.GamificationService
}

// NewGamificationHandler constructs GamificationHandler.
func NewGamificationHandler(gamification *service.GamificationService) *GamificationHandler {
	return &GamificationHandler{gamification: gamification}
}

// Level godoc
// @Summary One student's gamification level and experience
// @Tags Gamification
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/level [get]
func (h *GamificationHandler) Level(c *gin.Context) {
	level, err := h.gamification.Level(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, level, nil)
}

// Badges godoc
// @Summary One student's badge evaluation
// @Tags Gamification
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/badges [get]
func (h *GamificationHandler) Badges(c *gin.Context) {
	badges, err := h.gamification.Badges(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, badges, nil)
}

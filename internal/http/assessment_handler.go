package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skillsphere/internal/analysis"
	"skillsphere/internal/domain"
	"skillsphere/internal/service"
)

// AssessmentHandler expone el banco de preguntas y el envio de
// evaluaciones al oraculo de analisis.
type AssessmentHandler struct {
	logger      *zap.Logger
	assessments *service.AssessmentService
}

func NewAssessmentHandler(logger *zap.Logger, assessments *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{logger: logger, assessments: assessments}
}

// Questions maneja GET /api/assessments/questions/:type.
func (h *AssessmentHandler) Questions(c *gin.Context) {
	assessmentType := c.Param("type")
	if assessmentType != domain.AssessmentBehavioral && assessmentType != domain.AssessmentSkill {
		respondError(c, http.StatusBadRequest, "type must be behavioral or skill")
		return
	}
	questions := service.QuestionBank(assessmentType)
	respondData(c, http.StatusOK, "", gin.H{"questions": questions, "count": len(questions)})
}

// Submit maneja POST /api/assessments. La evaluacion se guarda siempre;
// si el oraculo no responde queda sin procesar y se devuelve 502 para
// que el cliente reintente.
func (h *AssessmentHandler) Submit(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	var req struct {
		Type              string                     `json:"type" binding:"required"`
		Responses         []string                   `json:"responses" binding:"required"`
		TimingData        analysis.TimingData        `json:"timing_data"`
		BehavioralMetrics analysis.BehavioralMetrics `json:"behavioral_metrics"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	assessment, err := h.assessments.Submit(c.Request.Context(), service.SubmitAssessmentInput{
		UserID:            claims.UserID,
		Type:              req.Type,
		Responses:         req.Responses,
		TimingData:        req.TimingData,
		BehavioralMetrics: req.BehavioralMetrics,
	})
	switch {
	case errors.Is(err, service.ErrNoResponses):
		respondError(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "user not found")
		return
	case errors.Is(err, service.ErrAnalysisFailed):
		c.JSON(http.StatusBadGateway, gin.H{
			"success":    false,
			"message":    "assessment stored but analysis is unavailable",
			"assessment": assessment,
		})
		return
	case err != nil:
		h.logger.Error("submit assessment failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not submit assessment")
		return
	}
	respondData(c, http.StatusCreated, "assessment processed", gin.H{"assessment": assessment})
}

// History maneja GET /api/assessments/user/:user_id.
func (h *AssessmentHandler) History(c *gin.Context) {
	assessments, err := h.assessments.History(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		h.logger.Error("assessment history failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not fetch assessments")
		return
	}
	respondData(c, http.StatusOK, "", gin.H{"assessments": assessments, "count": len(assessments)})
}

package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skillsphere/internal/domain"
	"skillsphere/internal/service"
)

// SkillHandler expone los vectores de habilidad de cuatro ejes y el
// ADN de habilidades por nombre.
type SkillHandler struct {
	logger *zap.Logger
	skills *service.SkillService
}

func NewSkillHandler(logger *zap.Logger, skills *service.SkillService) *SkillHandler {
	return &SkillHandler{logger: logger, skills: skills}
}

// CreateVector maneja POST /api/skill-vectors.
func (h *SkillHandler) CreateVector(c *gin.Context) {
	var req struct {
		UserID           string `json:"user_id" binding:"required"`
		LogicalReasoning int    `json:"logical_reasoning"`
		Creativity       int    `json:"creativity"`
		Communication    int    `json:"communication"`
		Collaboration    int    `json:"collaboration"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	vector, err := h.skills.CreateVector(c.Request.Context(), domain.SkillVector{
		UserID:           req.UserID,
		LogicalReasoning: req.LogicalReasoning,
		Creativity:       req.Creativity,
		Communication:    req.Communication,
		Collaboration:    req.Collaboration,
	})
	switch {
	case errors.Is(err, service.ErrSkillLevelOutOfRange):
		respondError(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "user not found")
		return
	case errors.Is(err, service.ErrSkillVectorExists):
		respondError(c, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.logger.Error("create skill vector failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not create skill vector")
		return
	}
	respondData(c, http.StatusCreated, "skill vector created", gin.H{"skill_vector": vector})
}

// GetVector maneja GET /api/skill-vectors/user/:user_id.
func (h *SkillHandler) GetVector(c *gin.Context) {
	vector, err := h.skills.GetVector(c.Request.Context(), c.Param("user_id"))
	if errors.Is(err, service.ErrSkillVectorNotFound) {
		respondError(c, http.StatusNotFound, "skill vector not found")
		return
	}
	if err != nil {
		h.logger.Error("get skill vector failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not fetch skill vector")
		return
	}
	respondData(c, http.StatusOK, "", gin.H{"skill_vector": vector})
}

// ListVectors maneja GET /api/skill-vectors.
func (h *SkillHandler) ListVectors(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	vectors, total, err := h.skills.ListVectors(c.Request.Context(), page, limit)
	if err != nil {
		h.logger.Error("list skill vectors failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not list skill vectors")
		return
	}
	respondPage(c, gin.H{"skill_vectors": vectors}, newPagination(page, limit, total))
}

// UpdateVector maneja PATCH /api/skill-vectors/user/:user_id.
func (h *SkillHandler) UpdateVector(c *gin.Context) {
	var req struct {
		LogicalReasoning *int `json:"logical_reasoning"`
		Creativity       *int `json:"creativity"`
		Communication    *int `json:"communication"`
		Collaboration    *int `json:"collaboration"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	vector, err := h.skills.UpdateVector(c.Request.Context(), c.Param("user_id"), service.VectorPatch{
		LogicalReasoning: req.LogicalReasoning,
		Creativity:       req.Creativity,
		Communication:    req.Communication,
		Collaboration:    req.Collaboration,
	})
	switch {
	case errors.Is(err, service.ErrSkillLevelOutOfRange):
		respondError(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrSkillVectorNotFound):
		respondError(c, http.StatusNotFound, "skill vector not found")
		return
	case err != nil:
		h.logger.Error("update skill vector failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not update skill vector")
		return
	}
	respondData(c, http.StatusOK, "skill vector updated", gin.H{"skill_vector": vector})
}

// DeleteVector maneja DELETE /api/skill-vectors/user/:user_id.
func (h *SkillHandler) DeleteVector(c *gin.Context) {
	err := h.skills.DeleteVector(c.Request.Context(), c.Param("user_id"))
	if errors.Is(err, service.ErrSkillVectorNotFound) {
		respondError(c, http.StatusNotFound, "skill vector not found")
		return
	}
	if err != nil {
		h.logger.Error("delete skill vector failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not delete skill vector")
		return
	}
	respondData(c, http.StatusOK, "skill vector deleted", nil)
}

// SimilarVectors maneja GET /api/skill-vectors/user/:user_id/similar:
// vecinos mas cercanos por distancia coseno sobre los cuatro ejes.
func (h *SkillHandler) SimilarVectors(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	vectors, err := h.skills.SimilarVectors(c.Request.Context(), c.Param("user_id"), limit)
	if errors.Is(err, service.ErrSkillVectorNotFound) {
		respondError(c, http.StatusNotFound, "skill vector not found")
		return
	}
	if err != nil {
		h.logger.Error("similar skill vectors failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not find similar vectors")
		return
	}
	respondData(c, http.StatusOK, "", gin.H{"similar_vectors": vectors, "count": len(vectors)})
}

// UpdateSkillDNA maneja POST /api/users/me/skill-dna.
func (h *SkillHandler) UpdateSkillDNA(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	var req struct {
		SkillScores    map[string]int `json:"skill_scores" binding:"required"`
		AssessmentType string         `json:"assessment_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	entries, err := h.skills.UpdateSkillDNA(c.Request.Context(), claims.UserID, req.SkillScores, req.AssessmentType)
	switch {
	case errors.Is(err, service.ErrSkillLevelOutOfRange):
		respondError(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "user not found")
		return
	case err != nil:
		h.logger.Error("update skill dna failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not update skill dna")
		return
	}
	respondData(c, http.StatusOK, "skill dna updated", gin.H{"skill_dna": entries})
}

// GetSkillDNA maneja GET /api/users/:id/skill-dna.
func (h *SkillHandler) GetSkillDNA(c *gin.Context) {
	entries, err := h.skills.GetSkillDNA(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrUserNotFound) {
		respondError(c, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		h.logger.Error("get skill dna failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not fetch skill dna")
		return
	}
	respondData(c, http.StatusOK, "", gin.H{"skill_dna": entries})
}

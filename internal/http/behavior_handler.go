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

// BehaviorHandler expone los vectores de comportamiento y sus derivados:
// similitud, compatibilidad por pares y analitica de rasgos.
type BehaviorHandler struct {
	logger   *zap.Logger
	behavior *service.BehaviorService
}

func NewBehaviorHandler(logger *zap.Logger, behavior *service.BehaviorService) *BehaviorHandler {
	return &BehaviorHandler{logger: logger, behavior: behavior}
}

// Upsert maneja POST /api/behavior-vectors. Crea (201) o actualiza (200)
// el vector del usuario en una sola operacion.
func (h *BehaviorHandler) Upsert(c *gin.Context) {
	var req struct {
		UserID         string `json:"user_id" binding:"required"`
		CognitiveStyle string `json:"cognitive_style" binding:"required"`
		LearningMode   string `json:"learning_mode" binding:"required"`
		Communication  string `json:"communication" binding:"required"`
		Motivation     string `json:"motivation" binding:"required"`
		DominantTrait  string `json:"dominant_trait" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	vector, created, err := h.behavior.CreateOrUpdate(c.Request.Context(), domain.BehaviorVector{
		UserID:         req.UserID,
		CognitiveStyle: req.CognitiveStyle,
		LearningMode:   req.LearningMode,
		Communication:  req.Communication,
		Motivation:     req.Motivation,
		DominantTrait:  req.DominantTrait,
	})
	var invalidTrait *service.InvalidTraitError
	switch {
	case errors.As(err, &invalidTrait):
		respondError(c, http.StatusBadRequest, invalidTrait.Error())
		return
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "user not found")
		return
	case err != nil:
		h.logger.Error("upsert behavior vector failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not save behavior vector")
		return
	}

	status := http.StatusOK
	message := "behavior vector updated"
	if created {
		status = http.StatusCreated
		message = "behavior vector created"
	}
	respondData(c, status, message, gin.H{"behavior_vector": vector})
}

// Get maneja GET /api/behavior-vectors/user/:user_id.
func (h *BehaviorHandler) Get(c *gin.Context) {
	vector, err := h.behavior.Get(c.Request.Context(), c.Param("user_id"))
	if errors.Is(err, service.ErrVectorNotFound) {
		respondError(c, http.StatusNotFound, "behavior vector not found")
		return
	}
	if err != nil {
		h.logger.Error("get behavior vector failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not fetch behavior vector")
		return
	}
	respondData(c, http.StatusOK, "", gin.H{"behavior_vector": vector})
}

// List maneja GET /api/behavior-vectors con filtros por rasgo.
func (h *BehaviorHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	filter := map[string]string{}
	for _, trait := range domain.TraitNames() {
		if v := c.Query(trait); v != "" {
			filter[trait] = v
		}
	}

	vectors, total, err := h.behavior.List(c.Request.Context(), filter, page, limit)
	if err != nil {
		h.logger.Error("list behavior vectors failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not list behavior vectors")
		return
	}
	respondPage(c, gin.H{"behavior_vectors": vectors}, newPagination(page, limit, total))
}

// Delete maneja DELETE /api/behavior-vectors/user/:user_id.
func (h *BehaviorHandler) Delete(c *gin.Context) {
	err := h.behavior.Delete(c.Request.Context(), c.Param("user_id"))
	if errors.Is(err, service.ErrVectorNotFound) {
		respondError(c, http.StatusNotFound, "behavior vector not found")
		return
	}
	if err != nil {
		h.logger.Error("delete behavior vector failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not delete behavior vector")
		return
	}
	respondData(c, http.StatusOK, "behavior vector deleted", nil)
}

// Similar maneja GET /api/behavior-vectors/user/:user_id/similar.
func (h *BehaviorHandler) Similar(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	target, similar, err := h.behavior.FindSimilar(c.Request.Context(), c.Param("user_id"), limit)
	if errors.Is(err, service.ErrVectorNotFound) {
		respondError(c, http.StatusNotFound, "behavior vector not found")
		return
	}
	if err != nil {
		h.logger.Error("find similar users failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not find similar users")
		return
	}
	respondData(c, http.StatusOK, "", gin.H{
		"target_profile": target,
		"similar_users":  similar,
		"count":          len(similar),
	})
}

// Compatibility maneja GET /api/behavior-vectors/compatibility/:user_id_1/:user_id_2.
func (h *BehaviorHandler) Compatibility(c *gin.Context) {
	result, err := h.behavior.Compatibility(c.Request.Context(), c.Param("user_id_1"), c.Param("user_id_2"))
	if errors.Is(err, service.ErrVectorNotFound) {
		respondError(c, http.StatusNotFound, "behavior vector not found for one of the users")
		return
	}
	if err != nil {
		h.logger.Error("compatibility failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not compute compatibility")
		return
	}
	respondData(c, http.StatusOK, "", gin.H{"compatibility": result})
}

// Analytics maneja GET /api/behavior-vectors/analytics: distribucion de
// valores por rasgo sobre todos los vectores.
func (h *BehaviorHandler) Analytics(c *gin.Context) {
	distributions, total, err := h.behavior.Analytics(c.Request.Context())
	if err != nil {
		h.logger.Error("behavior analytics failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not compute analytics")
		return
	}
	respondData(c, http.StatusOK, "", gin.H{
		"trait_distributions": distributions,
		"total_profiles":      total,
	})
}

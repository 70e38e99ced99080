package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skillsphere/internal/domain"
	"skillsphere/internal/repository"
	"skillsphere/internal/service"
)

// OpportunityHandler expone las oportunidades, sus puntajes de
// compatibilidad y las postulaciones.
type OpportunityHandler struct {
	logger        *zap.Logger
	opportunities *service.OpportunityService
}

func NewOpportunityHandler(logger *zap.Logger, opportunities *service.OpportunityService) *OpportunityHandler {
	return &OpportunityHandler{logger: logger, opportunities: opportunities}
}

type requiredSkillRequest struct {
	SkillName    string  `json:"skill_name" binding:"required"`
	MinimumLevel int     `json:"minimum_level"`
	Weight       float64 `json:"weight"`
}

func toRequiredSkills(reqs []requiredSkillRequest) []domain.RequiredSkill {
	skills := make([]domain.RequiredSkill, 0, len(reqs))
	for _, r := range reqs {
		skills = append(skills, domain.RequiredSkill{
			SkillName:    r.SkillName,
			MinimumLevel: r.MinimumLevel,
			Weight:       r.Weight,
		})
	}
	return skills
}

// Create maneja POST /api/opportunities.
func (h *OpportunityHandler) Create(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	var req struct {
		Title          string                 `json:"title" binding:"required"`
		Description    string                 `json:"description"`
		RoleType       string                 `json:"role_type" binding:"required"`
		RequiredSkills []requiredSkillRequest `json:"required_skills"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	opp, err := h.opportunities.Create(c.Request.Context(), service.CreateOpportunityInput{
		Title:          req.Title,
		Description:    req.Description,
		RoleType:       req.RoleType,
		RequiredSkills: toRequiredSkills(req.RequiredSkills),
		CreatedBy:      claims.UserID,
	})
	var invalidSkill *service.InvalidRequiredSkillError
	switch {
	case errors.Is(err, service.ErrInvalidRoleType), errors.As(err, &invalidSkill):
		respondError(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrOnlyMentorsCanCreate):
		respondError(c, http.StatusForbidden, err.Error())
		return
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "user not found")
		return
	case err != nil:
		h.logger.Error("create opportunity failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not create opportunity")
		return
	}
	respondData(c, http.StatusCreated, "opportunity created", gin.H{"opportunity": opp})
}

// List maneja GET /api/opportunities con filtros opcionales.
func (h *OpportunityHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	filter := repository.OpportunityFilter{
		RoleType:  c.Query("role_type"),
		Search:    c.Query("search"),
		CreatedBy: c.Query("created_by"),
	}
	if skills := c.Query("skills"); skills != "" {
		for _, s := range strings.Split(skills, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Skills = append(filter.Skills, s)
			}
		}
	}

	opps, total, err := h.opportunities.List(c.Request.Context(), filter, page, limit)
	if err != nil {
		h.logger.Error("list opportunities failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not list opportunities")
		return
	}
	respondPage(c, gin.H{"opportunities": opps}, newPagination(page, limit, total))
}

// Get maneja GET /api/opportunities/:id.
func (h *OpportunityHandler) Get(c *gin.Context) {
	opp, err := h.opportunities.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrOpportunityNotFound) {
		respondError(c, http.StatusNotFound, "opportunity not found")
		return
	}
	if err != nil {
		h.logger.Error("get opportunity failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not fetch opportunity")
		return
	}
	respondData(c, http.StatusOK, "", gin.H{"opportunity": opp})
}

// Update maneja PUT /api/opportunities/:id.
func (h *OpportunityHandler) Update(c *gin.Context) {
	var req struct {
		Title          *string                `json:"title"`
		Description    *string                `json:"description"`
		RoleType       *string                `json:"role_type"`
		RequiredSkills []requiredSkillRequest `json:"required_skills"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	input := service.UpdateOpportunityInput{
		Title:       req.Title,
		Description: req.Description,
		RoleType:    req.RoleType,
	}
	if req.RequiredSkills != nil {
		input.RequiredSkills = toRequiredSkills(req.RequiredSkills)
	}

	opp, err := h.opportunities.Update(c.Request.Context(), c.Param("id"), input)
	var invalidSkill *service.InvalidRequiredSkillError
	switch {
	case errors.Is(err, service.ErrInvalidRoleType), errors.As(err, &invalidSkill):
		respondError(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrOpportunityNotFound):
		respondError(c, http.StatusNotFound, "opportunity not found")
		return
	case err != nil:
		h.logger.Error("update opportunity failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not update opportunity")
		return
	}
	respondData(c, http.StatusOK, "opportunity updated", gin.H{"opportunity": opp})
}

// Delete maneja DELETE /api/opportunities/:id.
func (h *OpportunityHandler) Delete(c *gin.Context) {
	err := h.opportunities.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrOpportunityNotFound) {
		respondError(c, http.StatusNotFound, "opportunity not found")
		return
	}
	if err != nil {
		h.logger.Error("delete opportunity failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not delete opportunity")
		return
	}
	respondData(c, http.StatusOK, "opportunity deleted", nil)
}

// SetCompatibility maneja PATCH /api/opportunities/:id/compatibility.
func (h *OpportunityHandler) SetCompatibility(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
		Score  *int   `json:"score" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	entry, err := h.opportunities.SetCompatibility(c.Request.Context(), c.Param("id"), req.UserID, *req.Score)
	switch {
	case errors.Is(err, service.ErrScoreOutOfRange):
		respondError(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrOpportunityNotFound):
		respondError(c, http.StatusNotFound, "opportunity not found")
		return
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "user not found")
		return
	case err != nil:
		h.logger.Error("set compatibility failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not set compatibility score")
		return
	}
	respondData(c, http.StatusOK, "compatibility score saved", gin.H{"compatibility": entry})
}

// GetCompatibility maneja GET /api/opportunities/:id/compatibility/:user_id.
func (h *OpportunityHandler) GetCompatibility(c *gin.Context) {
	entry, err := h.opportunities.GetCompatibility(c.Request.Context(), c.Param("id"), c.Param("user_id"))
	switch {
	case errors.Is(err, service.ErrOpportunityNotFound):
		respondError(c, http.StatusNotFound, "opportunity not found")
		return
	case errors.Is(err, service.ErrCompatibilityNotFound):
		respondError(c, http.StatusNotFound, "compatibility score not found for this user")
		return
	case err != nil:
		h.logger.Error("get compatibility failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not fetch compatibility score")
		return
	}
	respondData(c, http.StatusOK, "", gin.H{"compatibility": entry})
}

// Ranked maneja GET /api/opportunities/user/:user_id/ranked.
func (h *OpportunityHandler) Ranked(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	ranked, total, err := h.opportunities.Ranked(c.Request.Context(), c.Param("user_id"), page, limit)
	if err != nil {
		h.logger.Error("ranked opportunities failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not rank opportunities")
		return
	}
	respondPage(c, gin.H{"opportunities": ranked}, newPagination(page, limit, total))
}

// Apply maneja POST /api/opportunities/:id/apply. El puntaje de match se
// calcula al postular, sobre el ADN de habilidades vigente del usuario.
func (h *OpportunityHandler) Apply(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	var req struct {
		CoverLetter string `json:"cover_letter"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	app, err := h.opportunities.Apply(c.Request.Context(), c.Param("id"), claims.UserID, req.CoverLetter)
	switch {
	case errors.Is(err, service.ErrOpportunityNotFound):
		respondError(c, http.StatusNotFound, "opportunity not found")
		return
	case errors.Is(err, service.ErrAlreadyApplied):
		respondError(c, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.logger.Error("apply failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not apply to opportunity")
		return
	}
	respondData(c, http.StatusCreated, "application submitted", gin.H{"application": app})
}

// Applications maneja GET /api/opportunities/:id/applications.
func (h *OpportunityHandler) Applications(c *gin.Context) {
	apps, err := h.opportunities.Applications(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrOpportunityNotFound) {
		respondError(c, http.StatusNotFound, "opportunity not found")
		return
	}
	if err != nil {
		h.logger.Error("list applications failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not list applications")
		return
	}
	respondData(c, http.StatusOK, "", gin.H{"applications": apps, "count": len(apps)})
}

// UpdateApplicationStatus maneja PATCH /api/opportunities/:id/applications/:application_id.
func (h *OpportunityHandler) UpdateApplicationStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	app, err := h.opportunities.UpdateApplicationStatus(c.Request.Context(), c.Param("application_id"), req.Status)
	switch {
	case errors.Is(err, service.ErrInvalidStatus):
		respondError(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrApplicationNotFound):
		respondError(c, http.StatusNotFound, "application not found")
		return
	case err != nil:
		h.logger.Error("update application status failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not update application")
		return
	}
	respondData(c, http.StatusOK, "application updated", gin.H{"application": app})
}

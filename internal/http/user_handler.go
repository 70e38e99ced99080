package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skillsphere/internal/service"
)

// UserHandler expone registro, autenticacion y perfil.
type UserHandler struct {
	logger *zap.Logger
	users  *service.UserService
	jwts   *service.JWTService
}

func NewUserHandler(logger *zap.Logger, users *service.UserService, jwts *service.JWTService) *UserHandler {
	return &UserHandler{logger: logger, users: users, jwts: jwts}
}

// Register maneja POST /api/auth/register.
func (h *UserHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	switch {
	case errors.Is(err, service.ErrInvalidEmail), errors.Is(err, service.ErrInvalidRole), errors.Is(err, service.ErrWeakPassword):
		respondError(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrEmailTaken):
		respondError(c, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.logger.Error("register failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not register user")
		return
	}

	pair, err := h.jwts.GeneratePair(user)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not issue tokens")
		return
	}
	respondData(c, http.StatusCreated, "user registered", gin.H{"user": user, "tokens": pair})
}

// Login maneja POST /api/auth/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrRateLimited):
		respondError(c, http.StatusTooManyRequests, "too many login attempts, try again later")
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "invalid credentials")
		return
	case err != nil:
		h.logger.Error("login failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not log in")
		return
	}

	pair, err := h.jwts.GeneratePair(user)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not issue tokens")
		return
	}
	respondData(c, http.StatusOK, "login successful", gin.H{"user": user, "tokens": pair})
}

// Refresh maneja POST /api/auth/refresh: rota el refresh token.
func (h *UserHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	pair, err := h.jwts.RefreshPair(req.RefreshToken)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}
	respondData(c, http.StatusOK, "", gin.H{"tokens": pair})
}

// Logout maneja POST /api/auth/logout: revoca el refresh token.
func (h *UserHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.jwts.RevokeRefresh(req.RefreshToken); err != nil {
		respondError(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	respondData(c, http.StatusOK, "logged out", nil)
}

// Me maneja GET /api/users/me.
func (h *UserHandler) Me(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	user, err := h.users.Get(c.Request.Context(), claims.UserID)
	if errors.Is(err, service.ErrUserNotFound) {
		respondError(c, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		h.logger.Error("get user failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not fetch user")
		return
	}
	respondData(c, http.StatusOK, "", gin.H{"user": user})
}

// GetUser maneja GET /api/users/:id.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrUserNotFound) {
		respondError(c, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		h.logger.Error("get user failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not fetch user")
		return
	}
	respondData(c, http.StatusOK, "", gin.H{"user": user})
}

// UpdateProfile maneja PUT /api/users/me.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	var req struct {
		Name                *string  `json:"name"`
		Bio                 *string  `json:"bio"`
		Education           *string  `json:"education"`
		Interests           []string `json:"interests"`
		PreferredIndustries []string `json:"preferred_industries"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), claims.UserID, service.ProfileInput{
		Name:                req.Name,
		Bio:                 req.Bio,
		Education:           req.Education,
		Interests:           req.Interests,
		PreferredIndustries: req.PreferredIndustries,
	})
	if errors.Is(err, service.ErrUserNotFound) {
		respondError(c, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		h.logger.Error("update profile failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not update profile")
		return
	}
	respondData(c, http.StatusOK, "profile updated", gin.H{"user": user})
}

// DeleteUser maneja DELETE /api/users/:id. Solo el propio usuario puede
// borrarse; las filas dependientes caen por cascada en la base.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	id := c.Param("id")
	if claims.UserID != id {
		respondError(c, http.StatusForbidden, "cannot delete another user")
		return
	}
	err := h.users.Delete(c.Request.Context(), id)
	if errors.Is(err, service.ErrUserNotFound) {
		respondError(c, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		h.logger.Error("delete user failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not delete user")
		return
	}
	// La cuenta ya no existe; sus refresh tokens tampoco deben servir.
	if err := h.jwts.RevokeAllForUser(id); err != nil {
		h.logger.Warn("revoke sessions after delete failed", zap.Error(err))
	}
	respondData(c, http.StatusOK, "user deleted", nil)
}

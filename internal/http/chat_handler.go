package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skillsphere/internal/service"
)

// ChatHandler expone la mensajeria uno a uno.
type ChatHandler struct {
	logger *zap.Logger
	chat   *service.ChatService
}

func NewChatHandler(logger *zap.Logger, chat *service.ChatService) *ChatHandler {
	return &ChatHandler{logger: logger, chat: chat}
}

// Send maneja POST /api/chat/send. El mensaje se persiste siempre; la
// notificacion en vivo es best-effort.
func (h *ChatHandler) Send(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	var req struct {
		ReceiverID string `json:"receiver_id" binding:"required"`
		Message    string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request")
		return
	}

	msg, err := h.chat.Send(c.Request.Context(), claims.UserID, req.ReceiverID, req.Message)
	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		respondError(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "receiver not found")
		return
	case err != nil:
		h.logger.Error("send message failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not send message")
		return
	}
	respondData(c, http.StatusCreated, "message sent", gin.H{"chat_message": msg})
}

// History maneja GET /api/chat/:room_id.
func (h *ChatHandler) History(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	messages, err := h.chat.History(c.Request.Context(), c.Param("room_id"), page, limit)
	if err != nil {
		h.logger.Error("chat history failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not fetch chat history")
		return
	}
	respondData(c, http.StatusOK, "", gin.H{"messages": messages, "count": len(messages)})
}

// Rooms maneja GET /api/chat/rooms/list.
func (h *ChatHandler) Rooms(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	rooms, err := h.chat.Rooms(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("list chat rooms failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not list chat rooms")
		return
	}
	respondData(c, http.StatusOK, "", gin.H{"rooms": rooms, "count": len(rooms)})
}

// MarkRead maneja PUT /api/chat/:room_id/read: marca como leidos los
// mensajes entrantes del usuario autenticado en la sala.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	updated, err := h.chat.MarkRead(c.Request.Context(), c.Param("room_id"), claims.UserID)
	if err != nil {
		h.logger.Error("mark read failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not mark messages read")
		return
	}
	respondData(c, http.StatusOK, "messages marked read", gin.H{"updated": updated})
}

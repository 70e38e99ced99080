package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skillsphere/internal/domain"
	"skillsphere/internal/notify"
	"skillsphere/internal/repository"
)

var ErrEmptyMessage = errors.New("message body is required")

// ChatService persiste mensajes y emite el aviso en vivo en dos pasos
// explicitos: primero la escritura durable, despues la publicacion best
// effort. Una falla al publicar se registra y nunca se reintenta.
type ChatService struct {
	logger   *zap.Logger
	messages repository.MessageRepository
	users    repository.UserRepository
	notifier notify.Notifier
}

func NewChatService(logger *zap.Logger, messages repository.MessageRepository, users repository.UserRepository, notifier notify.Notifier) *ChatService {
	if notifier == nil {
		notifier = notify.NewDisabledNotifier("notifier not configured")
	}
	return &ChatService{
		logger:   logger,
		messages: messages,
		users:    users,
		notifier: notifier,
	}
}

func (s *ChatService) Send(ctx context.Context, senderID, receiverID, body string) (domain.Message, error) {
	if body == "" {
		return domain.Message{}, ErrEmptyMessage
	}
	exists, err := s.users.Exists(ctx, receiverID)
	if err != nil {
		return domain.Message{}, err
	}
	if !exists {
		return domain.Message{}, ErrUserNotFound
	}

	message := domain.Message{
		ID:         uuid.NewString(),
		RoomID:     domain.RoomID(senderID, receiverID),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return domain.Message{}, err
	}

	if err := s.notifier.NotifyMessage(ctx, message); err != nil {
		s.logger.Warn("chat notify failed",
			zap.String("room_id", message.RoomID),
			zap.Error(err),
		)
	}
	return message, nil
}

func (s *ChatService) History(ctx context.Context, roomID string, page, limit int) ([]domain.Message, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	return s.messages.ListByRoom(ctx, roomID, (page-1)*limit, limit)
}

func (s *ChatService) Rooms(ctx context.Context, userID string) ([]domain.ChatRoom, error) {
	return s.messages.ListRooms(ctx, userID)
}

func (s *ChatService) MarkRead(ctx context.Context, roomID, receiverID string) (int, error) {
	return s.messages.MarkRead(ctx, roomID, receiverID)
}

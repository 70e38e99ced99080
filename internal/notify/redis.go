package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"skillsphere/internal/domain"
)

type redisNotifier struct {
	client *redis.Client
	prefix string
}

// NewRedisNotifier publica mensajes serializados en el canal de la sala
// (prefix + room_id). Los suscriptores son efimeros por diseño: no hay
// ack, reintento ni garantia de orden respecto a la escritura durable.
func NewRedisNotifier(client *redis.Client, prefix string) Notifier {
	if client == nil {
		return nil
	}
	if prefix == "" {
		prefix = "chat:room:"
	}
	return &redisNotifier{client: client, prefix: prefix}
}

func (n *redisNotifier) NotifyMessage(ctx context.Context, message domain.Message) error {
	raw, err := json.Marshal(message)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return n.client.Publish(ctx, n.prefix+message.RoomID, raw).Err()
}

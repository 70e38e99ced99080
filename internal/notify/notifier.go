// Package notify publica avisos transitorios de chat sobre un canal
// pub/sub. La entrega es fire and forget: el mensaje ya quedo persistido
// antes de publicar y un peer desconectado lo recupera por historial.
package notify

import (
	"context"

	"skillsphere/internal/domain"
)

type Notifier interface {
	NotifyMessage(ctx context.Context, message domain.Message) error
}

type disabledNotifier struct {
	reason string
}

// NewDisabledNotifier devuelve un notificador inerte para entornos sin redis.
func NewDisabledNotifier(reason string) Notifier {
	return &disabledNotifier{reason: reason}
}

func (n *disabledNotifier) NotifyMessage(context.Context, domain.Message) error {
	return nil
}

package email

import (
	"context"
	"errors"
)

// Sender define la interfaz para avisos de postulacion por correo.
type Sender interface {
	SendApplicationStatus(ctx context.Context, toEmail, name, opportunityTitle, status string) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendApplicationStatus(_ context.Context, _, _, _, _ string) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}

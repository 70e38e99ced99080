package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"skillsphere/internal/domain"
)

type mockNotifier struct {
	notified []domain.Message
	err      error
}

func (m *mockNotifier) NotifyMessage(_ context.Context, msg domain.Message) error {
	if m.err != nil {
		return m.err
	}
	m.notified = append(m.notified, msg)
	return nil
}

func newChatFixture(t *testing.T) (*ChatService, *mockMessageRepo, *mockNotifier, *mockUserRepo) {
	t.Helper()
	users := newMockUserRepo()
	messages := &mockMessageRepo{}
	notifier := &mockNotifier{}
	svc := NewChatService(zap.NewNop(), messages, users, notifier)
	return svc, messages, notifier, users
}

func TestSendPersistsThenNotifies(t *testing.T) {
	svc, messages, notifier, users := newChatFixture(t)
	seedUser(t, users, "alice")
	seedUser(t, users, "bob")

	msg, err := svc.Send(context.Background(), "bob", "alice", "hola")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.RoomID != "alice-bob" {
		t.Fatalf("room id = %q, want alice-bob", msg.RoomID)
	}
	if len(messages.messages) != 1 {
		t.Fatalf("stored messages = %d, want 1", len(messages.messages))
	}
	if len(notifier.notified) != 1 || notifier.notified[0].ID != msg.ID {
		t.Fatalf("notified = %+v, want the stored message", notifier.notified)
	}
}

func TestSendNotifyFailureDoesNotFail(t *testing.T) {
	svc, messages, notifier, users := newChatFixture(t)
	seedUser(t, users, "alice")
	seedUser(t, users, "bob")
	notifier.err = errors.New("redis down")

	msg, err := svc.Send(context.Background(), "alice", "bob", "sigue ahi?")
	if err != nil {
		t.Fatalf("send must survive notify failure: %v", err)
	}
	if len(messages.messages) != 1 || messages.messages[0].ID != msg.ID {
		t.Fatalf("message was not persisted: %+v", messages.messages)
	}
}

func TestSendStoreFailureDoesNotNotify(t *testing.T) {
	svc, messages, notifier, users := newChatFixture(t)
	seedUser(t, users, "alice")
	seedUser(t, users, "bob")
	messages.failNext = errors.New("db down")

	_, err := svc.Send(context.Background(), "alice", "bob", "hola")
	if err == nil {
		t.Fatal("send should fail when the insert fails")
	}
	if len(notifier.notified) != 0 {
		t.Fatalf("no notification expected on failed insert, got %+v", notifier.notified)
	}
}

func TestSendRejectsEmptyBody(t *testing.T) {
	svc, _, _, users := newChatFixture(t)
	seedUser(t, users, "alice")
	seedUser(t, users, "bob")

	_, err := svc.Send(context.Background(), "alice", "bob", "")
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
}

func TestSendRejectsUnknownReceiver(t *testing.T) {
	svc, _, _, users := newChatFixture(t)
	seedUser(t, users, "alice")

	_, err := svc.Send(context.Background(), "alice", "ghost", "hola")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestMarkReadCountsOnlyIncomingUnread(t *testing.T) {
	svc, _, _, users := newChatFixture(t)
	seedUser(t, users, "alice")
	seedUser(t, users, "bob")

	for i := 0; i < 3; i++ {
		if _, err := svc.Send(context.Background(), "alice", "bob", "msg"); err != nil {
			t.Fatalf("send: %v", err)
		}
	}
	if _, err := svc.Send(context.Background(), "bob", "alice", "reply"); err != nil {
		t.Fatalf("send reply: %v", err)
	}

	updated, err := svc.MarkRead(context.Background(), domain.RoomID("alice", "bob"), "bob")
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if updated != 3 {
		t.Fatalf("updated = %d, want 3", updated)
	}
}

func TestRoomIDIsOrderIndependent(t *testing.T) {
	if domain.RoomID("bob", "alice") != domain.RoomID("alice", "bob") {
		t.Fatal("room id must not depend on argument order")
	}
}

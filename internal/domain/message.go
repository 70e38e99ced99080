package domain

import (
	"sort"
	"strings"
	"time"
)

type Message struct {
	ID         string    `json:"id"`
	RoomID     string    `json:"room_id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Body       string    `json:"message"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// ChatRoom resume una conversacion: el otro participante, el ultimo
// mensaje y cuantos mensajes entrantes siguen sin leer.
type ChatRoom struct {
	RoomID      string   `json:"room_id"`
	PeerID      string   `json:"peer_id"`
	LastMessage *Message `json:"last_message,omitempty"`
	UnreadCount int      `json:"unread_count"`
}

// RoomID deriva el identificador canonico de la sala entre dos usuarios:
// ambos IDs ordenados y unidos con "-", sin importar quien escribe primero.
func RoomID(userA, userB string) string {
	ids := []string{userA, userB}
	sort.Strings(ids)
	return strings.Join(ids, "-")
}

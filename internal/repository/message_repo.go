package repository

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"skillsphere/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, message domain.Message) error
	// ListByRoom pagina desde el mensaje mas reciente; la pagina se devuelve
	// en orden cronologico ascendente.
	ListByRoom(ctx context.Context, roomID string, offset, limit int) ([]domain.Message, error)
	ListRooms(ctx context.Context, userID string) ([]domain.ChatRoom, error)
	MarkRead(ctx context.Context, roomID, receiverID string) (int, error)
}

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) Create(ctx context.Context, message domain.Message) error {
	const query = `
		INSERT INTO messages (id, room_id, sender_id, receiver_id, body, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.RoomID,
		message.SenderID,
		message.ReceiverID,
		message.Body,
		message.IsRead,
		message.CreatedAt,
	)
	return err
}

func (r *PgMessageRepository) ListByRoom(ctx context.Context, roomID string, offset, limit int) ([]domain.Message, error) {
	const query = `
		SELECT id, room_id, sender_id, receiver_id, body, is_read, created_at
		FROM (
			SELECT id, room_id, sender_id, receiver_id, body, is_read, created_at
			FROM messages
			WHERE room_id = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		) page
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, roomID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.RoomID, &m.SenderID, &m.ReceiverID, &m.Body, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

// ListRooms arma el resumen de conversaciones del usuario a partir de los
// mensajes persistidos: ultimo mensaje por sala y no leidos entrantes.
func (r *PgMessageRepository) ListRooms(ctx context.Context, userID string) ([]domain.ChatRoom, error) {
	const query = `
		SELECT DISTINCT ON (m.room_id)
			m.room_id,
			CASE WHEN m.sender_id = $1 THEN m.receiver_id ELSE m.sender_id END::text,
			m.id, m.sender_id, m.receiver_id, m.body, m.is_read, m.created_at,
			(
				SELECT count(*) FROM messages u
				WHERE u.room_id = m.room_id AND u.receiver_id = $1 AND NOT u.is_read
			)
		FROM messages m
		WHERE m.sender_id = $1 OR m.receiver_id = $1
		ORDER BY m.room_id, m.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []domain.ChatRoom
	for rows.Next() {
		var room domain.ChatRoom
		var last domain.Message
		if err := rows.Scan(
			&room.RoomID,
			&room.PeerID,
			&last.ID,
			&last.SenderID,
			&last.ReceiverID,
			&last.Body,
			&last.IsRead,
			&last.CreatedAt,
			&room.UnreadCount,
		); err != nil {
			return nil, err
		}
		last.RoomID = room.RoomID
		room.LastMessage = &last
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Conversacion mas reciente primero.
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].LastMessage.CreatedAt.After(rooms[j].LastMessage.CreatedAt)
	})
	return rooms, nil
}

func (r *PgMessageRepository) MarkRead(ctx context.Context, roomID, receiverID string) (int, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE messages SET is_read = TRUE WHERE room_id = $1 AND receiver_id = $2 AND NOT is_read`,
		roomID, receiverID,
	)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// Package messages provides the PostgreSQL-backed repository for the chat
// history store.
package messages

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/roomchat/internal/dbx"
	"github.com/dmitrijs2005/roomchat/internal/server/models"
)

// PostgresRepository implements message storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Append inserts a message row. The store assigns id and created_at; both
// are written back into msg.
func (r *PostgresRepository) Append(ctx context.Context, msg *models.Message) (*models.Message, error) {

	query :=
		`INSERT INTO messages (content, sender_id, room_id)
         VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		msg.Content, msg.SenderID, msg.RoomID).Scan(&msg.ID, &msg.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return msg, nil
}

// RecentByRoom returns the last limit messages of a room, newest first,
// each joined with the sender's username.
func (r *PostgresRepository) RecentByRoom(ctx context.Context, roomID int64, limit int) ([]*models.Message, error) {
	query :=
		`SELECT m.id, m.content, m.created_at, m.sender_id, m.room_id, u.username AS sender
		 FROM messages m
		 JOIN users u ON m.sender_id = u.id
		 WHERE m.room_id = $1
		 ORDER BY m.created_at DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Message
	for rows.Next() {
		msg := &models.Message{}
		if err := rows.Scan(&msg.ID, &msg.Content, &msg.CreatedAt, &msg.SenderID, &msg.RoomID, &msg.Sender); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

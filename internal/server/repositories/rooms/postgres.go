// Package rooms provides the PostgreSQL-backed repository for chat rooms.
// Rooms are addressed by their unguessable token everywhere outside this
// package; numeric IDs stay internal to the schema.
package rooms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/roomchat/internal/common"
	"github.com/dmitrijs2005/roomchat/internal/dbx"
	"github.com/dmitrijs2005/roomchat/internal/server/models"
)

// PostgresRepository implements room storage. It holds the *sql.DB rather
// than a dbx.DBTX because Create spans two statements in one transaction.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the room and enrolls its creator as a participant in a
// single transaction.
func (r *PostgresRepository) Create(ctx context.Context, room *models.Room) (*models.Room, error) {

	query :=
		`INSERT INTO rooms (name, description, created_by, is_private, room_token)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	participantQuery :=
		`INSERT INTO room_participants (room_id, user_id)
         VALUES ($1, $2)
		 `

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		err := tx.QueryRowContext(ctx, query,
			room.Name, room.Description, room.CreatedBy, room.IsPrivate, room.Token).
			Scan(&room.ID, &room.CreatedAt)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, participantQuery, room.ID, room.CreatedBy)
		return err
	})

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return room, nil
}

func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*models.Room, error) {
	query :=
		`SELECT id, name, description, created_by, is_private, room_token FROM rooms
		 WHERE room_token = $1
		 `

	room := &models.Room{}
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&room.ID, &room.Name, &room.Description, &room.CreatedBy, &room.IsPrivate, &room.Token)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return room, nil
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Room, error) {
	query :=
		`SELECT id, name, description, created_by, is_private, room_token FROM rooms
		 WHERE name = $1
		 `

	room := &models.Room{}
	err := r.db.QueryRowContext(ctx, query, name).
		Scan(&room.ID, &room.Name, &room.Description, &room.CreatedBy, &room.IsPrivate, &room.Token)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return room, nil
}

// ListForUser returns rooms the user created or participates in.
func (r *PostgresRepository) ListForUser(ctx context.Context, userID int64) ([]*models.Room, error) {
	query :=
		`SELECT DISTINCT r.id, r.name, r.description, r.created_by, r.is_private, r.room_token
		 FROM rooms r
		 LEFT JOIN room_participants rp ON r.id = rp.room_id
		 WHERE r.created_by = $1 OR rp.user_id = $1
		 ORDER BY r.id
		 `

	return r.queryRooms(ctx, query, userID)
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Room, error) {
	query :=
		`SELECT id, name, description, created_by, is_private, room_token FROM rooms
		 ORDER BY id
		 `

	return r.queryRooms(ctx, query)
}

func (r *PostgresRepository) queryRooms(ctx context.Context, query string, args ...any) ([]*models.Room, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Room
	for rows.Next() {
		room := &models.Room{}
		if err := rows.Scan(&room.ID, &room.Name, &room.Description, &room.CreatedBy, &room.IsPrivate, &room.Token); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) UpdateName(ctx context.Context, token string, name string) (*models.Room, error) {
	query :=
		`UPDATE rooms SET name = $1
		 WHERE room_token = $2
		 RETURNING id, name
		 `

	room := &models.Room{Token: token}
	err := r.db.QueryRowContext(ctx, query, name, token).Scan(&room.ID, &room.Name)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return room, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	query :=
		`DELETE FROM rooms
		 WHERE room_token = $1
		 `

	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

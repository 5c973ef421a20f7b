package messages

import (
	"context"

	"github.com/dmitrijs2005/roomchat/internal/server/models"
)

type Repository interface {
	Append(ctx context.Context, msg *models.Message) (*models.Message, error)
	RecentByRoom(ctx context.Context, roomID int64, limit int) ([]*models.Message, error)
}

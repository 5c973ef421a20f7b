package rooms

import (
	"context"

	"github.com/dmitrijs2005/roomchat/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, room *models.Room) (*models.Room, error)
	GetByToken(ctx context.Context, token string) (*models.Room, error)
	GetByName(ctx context.Context, name string) (*models.Room, error)
	ListForUser(ctx context.Context, userID int64) ([]*models.Room, error)
	List(ctx context.Context) ([]*models.Room, error)
	UpdateName(ctx context.Context, token string, name string) (*models.Room, error)
	Delete(ctx context.Context, token string) error
}

package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/roomchat/internal/server/repositories/messages"
	"github.com/dmitrijs2005/roomchat/internal/server/repositories/rooms"
	"github.com/dmitrijs2005/roomchat/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Rooms() rooms.Repository
	Messages() messages.Repository
}

// Package httpapi exposes the REST and WebSocket surface of the chat
// server over net/http.
package httpapi

import (
	"github.com/dmitrijs2005/roomchat/internal/logging"
	"github.com/dmitrijs2005/roomchat/internal/server/auth"
	"github.com/dmitrijs2005/roomchat/internal/server/chat"
	"github.com/dmitrijs2005/roomchat/internal/server/services"
)

// API bundles the services behind the HTTP handlers.
type API struct {
	users    *services.UserService
	rooms    *services.RoomService
	sessions *chat.SessionHandler
	verifier *auth.TokenVerifier
	logger   logging.Logger
}

func NewAPI(users *services.UserService, rooms *services.RoomService,
	sessions *chat.SessionHandler, verifier *auth.TokenVerifier, logger logging.Logger) *API {
	return &API{
		users:    users,
		rooms:    rooms,
		sessions: sessions,
		verifier: verifier,
		logger:   logger.With("module", "httpapi"),
	}
}

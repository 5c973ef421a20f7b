package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// pongWait is how long a peer may stay silent before its reads time
	// out. The session layer pings well inside this window, so a healthy
	// peer's pongs keep pushing the deadline forward.
	pongWait = 60 * time.Second
	// maxMessageSize caps an inbound frame; chat messages are short.
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleWebSocket upgrades the connection and hands it to the session
// handler. Credential checks happen after the upgrade so the failure
// reaches the client as a close frame rather than a plain HTTP error.
func (a *API) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	roomToken := r.PathValue("room_token")
	credential := r.URL.Query().Get("token")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.logger.Warn(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	// A peer that stops answering pings runs out its read deadline and the
	// session winds down instead of holding a registry slot forever.
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	a.sessions.Handle(r.Context(), conn, roomToken, credential)
}

package chat

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/roomchat/internal/logging"
	"github.com/dmitrijs2005/roomchat/internal/server/auth"
	"github.com/dmitrijs2005/roomchat/internal/server/models"
	"github.com/gorilla/websocket"
)

// historyRequest is the one recognized control message. History is sent
// at join time, so the request is acknowledged by being ignored.
const historyRequest = `{"type":"get_history"}`

// CredentialVerifier validates a bearer credential and yields the
// identity it carries.
type CredentialVerifier interface {
	Verify(credential string) (*auth.Identity, error)
}

// RoomDirectory maps a room token to the room it addresses.
type RoomDirectory interface {
	ResolveByToken(ctx context.Context, token string) (*models.Room, error)
}

// HistoryStore persists messages and retrieves recent history,
// newest first.
type HistoryStore interface {
	Append(ctx context.Context, roomID, senderID int64, content string) (*models.Message, error)
	Recent(ctx context.Context, roomID int64, limit int) ([]*models.Message, error)
}

// SessionHandler drives connections through their lifecycle:
// authenticate, resolve the room, register, replay history, then stream
// until disconnect. One Handle call runs on the connection's own
// goroutine and processes inbound frames strictly sequentially.
type SessionHandler struct {
	hub          *Hub
	verifier     CredentialVerifier
	rooms        RoomDirectory
	history      HistoryStore
	historyLimit int
	logger       logging.Logger
}

func NewSessionHandler(hub *Hub, verifier CredentialVerifier, rooms RoomDirectory,
	history HistoryStore, historyLimit int, logger logging.Logger) *SessionHandler {
	return &SessionHandler{
		hub:          hub,
		verifier:     verifier,
		rooms:        rooms,
		history:      history,
		historyLimit: historyLimit,
		logger:       logger.With("module", "chat_session"),
	}
}

// Handle runs one connection from the just-accepted transport to close.
// The connection is accepted before credential checks so that rejections
// can reach the peer as proper close frames.
func (h *SessionHandler) Handle(ctx context.Context, conn Conn, roomToken, credential string) {
	client := NewClient(conn)

	identity, err := h.verifier.Verify(credential)
	if err != nil {
		h.logger.Warn(ctx, "credential rejected", "room", roomToken, "error", err)
		client.CloseWithCode(websocket.ClosePolicyViolation, "invalid credential")
		return
	}

	// The registry keys users by the durable store's integer id.
	senderID, err := strconv.ParseInt(identity.UserID, 10, 64)
	if err != nil {
		h.logger.Warn(ctx, "credential carries malformed user id", "user_id", identity.UserID)
		client.CloseWithCode(websocket.ClosePolicyViolation, "invalid credential")
		return
	}

	room, err := h.rooms.ResolveByToken(ctx, roomToken)
	if err != nil {
		h.logger.Warn(ctx, "room resolution failed", "room", roomToken, "error", err)
		client.CloseWithCode(websocket.CloseProtocolError, "room not found")
		return
	}

	// Identity and room are established: from here on every exit path
	// must release the registry entry.
	defer h.teardown(ctx, client, identity, room)

	// Last join wins. A second connection of the same user to the same
	// room replaces the first, which is closed rather than orphaned.
	if prev := h.hub.Registry().Register(room.Token, identity.UserID, client); prev != nil {
		h.logger.Info(ctx, "duplicate join, closing previous connection",
			"room", room.Token, "user", identity.UserID)
		prev.CloseWithCode(websocket.CloseNormalClosure, "replaced by a newer connection")
	}

	// Periodic pings keep intermediaries from dropping an idle connection
	// and surface a dead peer as a write error.
	stopPings := make(chan struct{})
	defer close(stopPings)
	go h.keepalive(client, pingPeriod, stopPings)

	if err := client.Send(WelcomeFrame(identity, room)); err != nil {
		return
	}

	h.replayHistory(ctx, client, room.ID)

	h.stream(ctx, client, identity, room, senderID)
}

// replayHistory sends the most recent messages to the joining connection,
// re-reversed to oldest first. A store failure degrades to a single error
// frame; the session goes on streaming.
func (h *SessionHandler) replayHistory(ctx context.Context, client *Client, roomID int64) {
	msgs, err := h.history.Recent(ctx, roomID, h.historyLimit)
	if err != nil {
		h.logger.Error(ctx, "history fetch failed", "room_id", roomID, "error", err)
		_ = client.Send(ErrorFrame("Could not load message history"))
		return
	}

	for i := len(msgs) - 1; i >= 0; i-- {
		if err := client.Send(HistoryFrame(msgs[i])); err != nil {
			return
		}
	}
}

// keepalive pings the peer until the session winds down. A failed ping
// closes the transport, which unblocks the session's read loop.
func (h *SessionHandler) keepalive(client *Client, period time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := client.Ping(); err != nil {
				client.Close()
				return
			}
		case <-stop:
			return
		}
	}
}

// stream is the strictly sequential read loop: nothing proceeds past the
// blocking read until the previous frame's persistence and broadcast have
// completed.
func (h *SessionHandler) stream(ctx context.Context, client *Client, identity *auth.Identity, room *models.Room, senderID int64) {
	for {
		data, err := client.Read()
		if err != nil {
			h.logger.Info(ctx, "connection closed",
				"room", room.Token, "user", identity.Username, "error", err)
			return
		}

		if strings.TrimSpace(string(data)) == historyRequest {
			continue
		}

		msg, err := h.history.Append(ctx, room.ID, senderID, string(data))
		if err != nil {
			h.logger.Error(ctx, "message append failed",
				"room", room.Token, "user", identity.Username, "error", err)
			_ = client.Send(ErrorFrame("Failed to send message"))
			continue
		}

		// Everyone in the room sees the message, the sender included.
		h.hub.Broadcast(ctx, room.Token, ChatFrame(msg, identity.Username), "")
	}
}

// teardown runs on every exit path once identity and room are known:
// notify the room, release the registry entry, close the transport. It
// must not fail even if the connection is already gone.
func (h *SessionHandler) teardown(ctx context.Context, client *Client, identity *auth.Identity, room *models.Room) {
	if r := recover(); r != nil {
		h.logger.Error(ctx, "session panic", "room", room.Token, "user", identity.Username, "panic", r)
		client.CloseWithCode(websocket.CloseInternalServerErr, "internal error")
	}

	// Deregister this client first so the leave notice never targets the
	// connection that is going away. If the user still has a live entry,
	// this session was replaced by a newer join and the user has not
	// actually left.
	h.hub.Registry().Deregister(room.Token, identity.UserID, client)
	if !h.hub.Registry().Contains(room.Token, identity.UserID) {
		h.hub.Broadcast(ctx, room.Token, SystemFrame(identity.Username+" left the chat"), "")
	}
	client.Close()
}

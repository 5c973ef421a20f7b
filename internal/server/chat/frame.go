// Package chat implements the real-time core of the service: the registry
// of live connections per room, the best-effort broadcast engine, and the
// per-connection session lifecycle.
package chat

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/roomchat/internal/server/auth"
	"github.com/dmitrijs2005/roomchat/internal/server/models"
)

// Frame type discriminators.
const (
	FrameSystem  = "system"
	FrameHistory = "history"
	FrameChat    = "chat"
	FrameError   = "error"
)

// UserInfo is the identity payload attached to the welcome notice.
type UserInfo struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Frame is the tagged JSON record sent to clients. Fields that do not
// apply to a variant are omitted from the wire form.
type Frame struct {
	Type      string    `json:"type"`
	ID        int64     `json:"id,omitempty"`
	Sender    string    `json:"sender,omitempty"`
	Content   string    `json:"content,omitempty"`
	Timestamp string    `json:"timestamp,omitempty"`
	RoomID    int64     `json:"room_id,omitempty"`
	User      *UserInfo `json:"user,omitempty"`
}

// WelcomeFrame is the system notice sent to a connection itself right
// after it joins a room.
func WelcomeFrame(identity *auth.Identity, room *models.Room) Frame {
	return Frame{
		Type:    FrameSystem,
		Content: fmt.Sprintf("Welcome %s to %s", identity.Username, room.Name),
		User: &UserInfo{
			UserID:   identity.UserID,
			Username: identity.Username,
			Role:     identity.Role,
		},
	}
}

// SystemFrame is a room-wide notice such as a member leaving.
func SystemFrame(content string) Frame {
	return Frame{Type: FrameSystem, Content: content}
}

// HistoryFrame wraps one replayed message.
func HistoryFrame(msg *models.Message) Frame {
	return Frame{
		Type:      FrameHistory,
		ID:        msg.ID,
		Sender:    msg.Sender,
		Content:   msg.Content,
		Timestamp: msg.CreatedAt.Format(time.RFC3339),
	}
}

// ChatFrame wraps one live message. Sender is passed explicitly because a
// freshly inserted row does not carry the username join.
func ChatFrame(msg *models.Message, sender string) Frame {
	return Frame{
		Type:      FrameChat,
		ID:        msg.ID,
		Sender:    sender,
		Content:   msg.Content,
		Timestamp: msg.CreatedAt.Format(time.RFC3339),
		RoomID:    msg.RoomID,
	}
}

// ErrorFrame reports a delivery-layer failure that is non-fatal to the
// session.
func ErrorFrame(content string) Frame {
	return Frame{Type: FrameError, Content: content}
}

package chat

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/roomchat/internal/logging"
)

// Hub is the broadcast engine: it fans one frame out to every connection
// registered in a room, best effort. Delivery failures never reach the
// caller; a member whose send fails is evicted from the registry and its
// connection closed.
type Hub struct {
	registry *Registry
	logger   logging.Logger
}

func NewHub(registry *Registry, logger logging.Logger) *Hub {
	return &Hub{registry: registry, logger: logger.With("module", "chat_hub")}
}

func (h *Hub) Registry() *Registry {
	return h.registry
}

// Broadcast delivers frame to every member of the room present in the
// registry snapshot at call time, except excludeUserID when non-empty.
// The frame is serialized once; per-recipient send order follows the
// order Broadcast was invoked because each client serializes its writes.
func (h *Hub) Broadcast(ctx context.Context, roomToken string, frame Frame, excludeUserID string) {
	payload, err := json.Marshal(frame)
	if err != nil {
		// Frames are built from plain structs; this does not happen in
		// practice but must never take the caller down.
		h.logger.Error(ctx, "frame marshal failed", "room", roomToken, "error", err)
		return
	}

	delivered := 0
	for _, member := range h.registry.Snapshot(roomToken) {
		if excludeUserID != "" && member.UserID == excludeUserID {
			continue
		}

		if err := member.Client.SendRaw(payload); err != nil {
			h.logger.Warn(ctx, "send failed, evicting member",
				"room", roomToken, "user", member.UserID, "error", err)
			h.registry.Deregister(roomToken, member.UserID, member.Client)
			member.Client.Close()
			continue
		}
		delivered++
	}

	h.logger.Debug(ctx, "frame broadcast", "room", roomToken, "type", frame.Type, "delivered", delivered)
}

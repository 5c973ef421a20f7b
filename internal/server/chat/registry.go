package chat

import "sync"

// Member pairs a user id with its live connection in a snapshot.
type Member struct {
	UserID string
	Client *Client
}

// Registry is the in-memory source of truth for live room membership:
// room token -> user id -> connection. A room entry exists iff at least
// one member is connected. The zero value is not usable; construct with
// NewRegistry. Instances are injectable so tests can run isolated
// registries side by side.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*Client
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]map[string]*Client)}
}

// Register inserts the (room, user) -> client mapping, creating the room
// entry if absent. If the user already had a connection in the room, the
// new one wins and the previous client is returned so the caller can
// close it.
func (r *Registry) Register(roomToken, userID string, client *Client) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[roomToken]
	if !ok {
		members = make(map[string]*Client)
		r.rooms[roomToken] = members
	}

	prev := members[userID]
	members[userID] = client
	return prev
}

// Deregister removes the (room, user) mapping and drops the room entry
// when it becomes empty. Idempotent: removing an absent entry is a no-op.
// When client is non-nil the mapping is removed only if it still points
// at that client, so a stale session cannot evict the connection that
// superseded it.
func (r *Registry) Deregister(roomToken, userID string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[roomToken]
	if !ok {
		return
	}

	current, ok := members[userID]
	if !ok {
		return
	}
	if client != nil && current != client {
		return
	}

	delete(members, userID)
	if len(members) == 0 {
		delete(r.rooms, roomToken)
	}
}

// Snapshot returns a point-in-time view of the room's members for
// iteration. Concurrent register/deregister calls after the snapshot is
// taken do not affect the returned slice.
func (r *Registry) Snapshot(roomToken string) []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[roomToken]
	if len(members) == 0 {
		return nil
	}

	result := make([]Member, 0, len(members))
	for userID, client := range members {
		result = append(result, Member{UserID: userID, Client: client})
	}
	return result
}

// Contains reports whether the user currently has a live connection in
// the room.
func (r *Registry) Contains(roomToken, userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[roomToken][userID]
	return ok
}

// Count reports the number of connected members in a room.
func (r *Registry) Count(roomToken string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomToken])
}

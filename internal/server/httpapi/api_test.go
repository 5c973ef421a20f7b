package httpapi

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/roomchat/internal/common"
	"github.com/dmitrijs2005/roomchat/internal/logging"
	"github.com/dmitrijs2005/roomchat/internal/server/models"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// memUsersRepo is an in-memory users.Repository for exercising the HTTP
// surface without a database.
type memUsersRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*models.User
}

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{users: make(map[string]*models.User)}
}

func (r *memUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	r.users[user.UserName] = user
	return user, nil
}

func (r *memUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return user, nil
}

func (r *memUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, user)
	}
	return result, nil
}

func (r *memUsersRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, user := range r.users {
		if user.ID == id {
			delete(r.users, name)
			return nil
		}
	}
	return common.ErrorNotFound
}

// memRoomsRepo is an in-memory rooms.Repository.
type memRoomsRepo struct {
	mu     sync.Mutex
	nextID int64
	rooms  map[string]*models.Room
}

func newMemRoomsRepo() *memRoomsRepo {
	return &memRoomsRepo{rooms: make(map[string]*models.Room)}
}

func (r *memRoomsRepo) Create(ctx context.Context, room *models.Room) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	room.ID = r.nextID
	r.rooms[room.Token] = room
	return room, nil
}

func (r *memRoomsRepo) GetByToken(ctx context.Context, token string) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return room, nil
}

func (r *memRoomsRepo) GetByName(ctx context.Context, name string) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, room := range r.rooms {
		if room.Name == name {
			return room, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memRoomsRepo) ListForUser(ctx context.Context, userID int64) ([]*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Room
	for _, room := range r.rooms {
		if room.CreatedBy == userID {
			result = append(result, room)
		}
	}
	return result, nil
}

func (r *memRoomsRepo) List(ctx context.Context) ([]*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*models.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		result = append(result, room)
	}
	return result, nil
}

func (r *memRoomsRepo) UpdateName(ctx context.Context, token string, name string) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	room.Name = name
	return room, nil
}

func (r *memRoomsRepo) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[token]; !ok {
		return common.ErrorNotFound
	}
	delete(r.rooms, token)
	return nil
}

// memMessagesRepo is an in-memory messages.Repository.
type memMessagesRepo struct {
	mu     sync.Mutex
	nextID int64
	msgs   []*models.Message
}

func (r *memMessagesRepo) Append(ctx context.Context, msg *models.Message) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	msg.ID = r.nextID
	r.msgs = append(r.msgs, msg)
	return msg, nil
}

func (r *memMessagesRepo) RecentByRoom(ctx context.Context, roomID int64, limit int) ([]*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Message
	for i := len(r.msgs) - 1; i >= 0 && len(result) < limit; i-- {
		if r.msgs[i].RoomID == roomID {
			result = append(result, r.msgs[i])
		}
	}
	return result, nil
}

package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/roomchat/internal/common"
	"github.com/dmitrijs2005/roomchat/internal/server/models"
	"github.com/dmitrijs2005/roomchat/internal/server/repositories/rooms"
	"github.com/google/uuid"
)

type RoomService struct {
	repo rooms.Repository
}

func NewRoomService(repo rooms.Repository) *RoomService {
	return &RoomService{repo: repo}
}

// newRoomToken mints the unguessable string that acts as a room's public
// address.
func newRoomToken() string {
	return uuid.NewString()
}

func (s *RoomService) Create(ctx context.Context, createdBy int64, name, description string, isPrivate bool) (*models.Room, error) {

	if _, err := s.repo.GetByName(ctx, name); err == nil {
		return nil, common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	room := &models.Room{
		Name:        name,
		Description: description,
		CreatedBy:   createdBy,
		IsPrivate:   isPrivate,
		Token:       newRoomToken(),
	}

	room, err := s.repo.Create(ctx, room)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return room, nil
}

// ResolveByToken maps a room token to the room it addresses. The chat
// session uses this once per connection at join time.
func (s *RoomService) ResolveByToken(ctx context.Context, token string) (*models.Room, error) {
	room, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return room, nil
}

func (s *RoomService) ListForUser(ctx context.Context, userID int64) ([]*models.Room, error) {
	result, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return result, nil
}

func (s *RoomService) List(ctx context.Context) ([]*models.Room, error) {
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return result, nil
}

// Rename changes a room's name. Only the creator may do that.
func (s *RoomService) Rename(ctx context.Context, actorID int64, token, name string) (*models.Room, error) {
	room, err := s.getOwned(ctx, actorID, token)
	if err != nil {
		return nil, err
	}

	room, err = s.repo.UpdateName(ctx, room.Token, name)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return room, nil
}

// Delete removes a room. Only the creator may do that.
func (s *RoomService) Delete(ctx context.Context, actorID int64, token string) error {
	if _, err := s.getOwned(ctx, actorID, token); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, token); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// AdminDelete removes a room without the creator check.
func (s *RoomService) AdminDelete(ctx context.Context, token string) error {
	err := s.repo.Delete(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	return nil
}

func (s *RoomService) getOwned(ctx context.Context, actorID int64, token string) (*models.Room, error) {
	room, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if room.CreatedBy != actorID {
		return nil, common.ErrorForbidden
	}

	return room, nil
}

package services

import (
	"context"

	"github.com/dmitrijs2005/roomchat/internal/common"
	"github.com/dmitrijs2005/roomchat/internal/server/models"
	"github.com/dmitrijs2005/roomchat/internal/server/repositories/messages"
)

type MessageService struct {
	repo messages.Repository
}

func NewMessageService(repo messages.Repository) *MessageService {
	return &MessageService{repo: repo}
}

// Append durably stores one chat message and returns it with the id and
// timestamp assigned by the store.
func (s *MessageService) Append(ctx context.Context, roomID, senderID int64, content string) (*models.Message, error) {
	msg := &models.Message{RoomID: roomID, SenderID: senderID, Content: content}

	msg, err := s.repo.Append(ctx, msg)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return msg, nil
}

// Recent returns up to limit messages for a room, newest first.
func (s *MessageService) Recent(ctx context.Context, roomID int64, limit int) ([]*models.Message, error) {
	result, err := s.repo.RecentByRoom(ctx, roomID, limit)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return result, nil
}

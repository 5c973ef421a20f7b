package models

import "time"

// Message is a persisted chat message. Sender carries the sender's
// username when the row was fetched with its user join; repositories that
// only insert leave it empty.
type Message struct {
	ID        int64
	RoomID    int64
	SenderID  int64
	Sender    string
	Content   string
	CreatedAt time.Time
}

package models

import "time"

// Room is addressed publicly by its Token, an unguessable string handed
// out to participants instead of the numeric ID.
type Room struct {
	ID          int64
	Name        string
	Description string
	CreatedBy   int64
	IsPrivate   bool
	Token       string
	CreatedAt   time.Time
}

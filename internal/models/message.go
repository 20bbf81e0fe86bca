package models

import (
	"time"
)

// Message is one directed, immutable message row.
// SenderName and SenderEmail are filled by joins on read paths and are not persisted.
type Message struct {
	ID          int64     `db:"id"`
	SenderID    int64     `db:"sender_id"`
	ReceiverID  int64     `db:"receiver_id"`
	Body        string    `db:"body"`
	CreatedAt   time.Time `db:"created_at"`
	SenderName  string    `db:"-"`
	SenderEmail string    `db:"-"`
}

// InboxEntry is the latest message of one conversation, seen from one user.
type InboxEntry struct {
	CounterpartID    int64
	CounterpartName  string
	CounterpartEmail string
	LastMessageID    int64
	LastMessageBody  string
	LastMessageTime  time.Time
}

package conversation

import (
	"slices"
	"time"
	"tutorhub-backend/internal/models"
)

// Compare orders by creation time, then by id. Ids come from the store in insertion
// order, so they settle ties when the clock produced equal timestamps.
func Compare(aTime time.Time, aID int64, bTime time.Time, bID int64) int {
	if c := aTime.Compare(bTime); c != 0 {
		return c
	}
	switch {
	case aID < bID:
		return -1
	case aID > bID:
		return 1
	}
	return 0
}

// CompareMessages is Compare applied to two messages.
func CompareMessages(a, b models.Message) int {
	return Compare(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
}

// SortChronological sorts oldest first.
func SortChronological(msgs []models.Message) {
	slices.SortStableFunc(msgs, CompareMessages)
}

// SortInbox sorts entries most recent conversation first.
func SortInbox(entries []models.InboxEntry) {
	slices.SortStableFunc(entries, func(a, b models.InboxEntry) int {
		return Compare(b.LastMessageTime, b.LastMessageID, a.LastMessageTime, a.LastMessageID)
	})
}

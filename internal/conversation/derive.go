package conversation

import (
	"slices"
	"tutorhub-backend/internal/models"

	"github.com/samber/lo"
)

// PairOfMessage returns the pair key of a message.
func PairOfMessage(m models.Message) Pair {
	return PairOf(m.SenderID, m.ReceiverID)
}

// Between selects the messages exchanged by a and b, in either direction,
// oldest first. Between(a, b) and Between(b, a) are identical.
func Between(msgs []models.Message, a, b int64) []models.Message {
	want := PairOf(a, b)
	selected := lo.Filter(msgs, func(m models.Message, _ int) bool {
		return PairOfMessage(m) == want
	})
	SortChronological(selected)
	return selected
}

// Involving selects every message userID sent or received.
func Involving(msgs []models.Message, userID int64) []models.Message {
	return lo.Filter(msgs, func(m models.Message, _ int) bool {
		return m.SenderID == userID || m.ReceiverID == userID
	})
}

// LatestPerPair groups the messages involving userID by pair key and keeps the
// message with the highest id from each group. The result is ordered most recent
// conversation first.
func LatestPerPair(msgs []models.Message, userID int64) []models.Message {
	groups := lo.GroupBy(Involving(msgs, userID), PairOfMessage)

	latest := make([]models.Message, 0, len(groups))
	for _, group := range groups {
		latest = append(latest, lo.MaxBy(group, func(a, b models.Message) bool {
			return a.ID > b.ID
		}))
	}

	slices.SortStableFunc(latest, func(a, b models.Message) int {
		return CompareMessages(b, a)
	})
	return latest
}

// Counterpart returns the other participant of m, relative to userID.
func Counterpart(m models.Message, userID int64) int64 {
	return PairOfMessage(m).Counterpart(userID)
}

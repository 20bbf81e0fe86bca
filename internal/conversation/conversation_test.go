package conversation

import (
	"testing"
	"time"
	"tutorhub-backend/internal/models"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

const (
	alice int64 = 1
	bob   int64 = 2
	carol int64 = 3
	dave  int64 = 4
)

var base = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func msg(id, from, to int64, body string, minute int) models.Message {
	return models.Message{
		ID:         id,
		SenderID:   from,
		ReceiverID: to,
		Body:       body,
		CreatedAt:  base.Add(time.Duration(minute) * time.Minute),
	}
}

func bodies(msgs []models.Message) []string {
	return lo.Map(msgs, func(m models.Message, _ int) string { return m.Body })
}

func history() []models.Message {
	return []models.Message{
		msg(101, alice, bob, "hi", 0),
		msg(102, bob, alice, "hey", 1),
		msg(103, alice, carol, "yo", 2),
	}
}

func TestPairOf(t *testing.T) {
	req := require.New(t)

	req.Equal(Pair{Low: 1, High: 2}, PairOf(2, 1))
	req.Equal(PairOf(1, 2), PairOf(2, 1))
	req.True(PairOf(5, 9).Includes(9))
	req.False(PairOf(5, 9).Includes(7))
	req.Equal(int64(9), PairOf(5, 9).Counterpart(5))
	req.Equal(int64(5), PairOf(5, 9).Counterpart(9))
	req.Equal(int64(4), PairOf(4, 4).Counterpart(4))
}

func TestCompare(t *testing.T) {
	t.Run("should order by time first", func(t *testing.T) {
		req := require.New(t)
		req.Equal(-1, Compare(base, 9, base.Add(time.Second), 1))
		req.Equal(1, Compare(base.Add(time.Second), 1, base, 9))
	})

	t.Run("should break equal timestamps by id", func(t *testing.T) {
		req := require.New(t)
		req.Equal(-1, Compare(base, 1, base, 2))
		req.Equal(1, Compare(base, 2, base, 1))
		req.Equal(0, Compare(base, 2, base, 2))
	})
}

func TestBetween(t *testing.T) {
	t.Run("should return the conversation oldest first", func(t *testing.T) {
		req := require.New(t)
		req.Equal([]string{"hi", "hey"}, bodies(Between(history(), alice, bob)))
	})

	t.Run("should be symmetric", func(t *testing.T) {
		req := require.New(t)
		req.Equal(Between(history(), alice, bob), Between(history(), bob, alice))
	})

	t.Run("should not leak other conversations", func(t *testing.T) {
		req := require.New(t)
		req.Equal([]string{"yo"}, bodies(Between(history(), carol, alice)))
		req.Empty(Between(history(), bob, carol))
	})

	t.Run("should use id order when timestamps collide", func(t *testing.T) {
		req := require.New(t)
		msgs := []models.Message{
			msg(12, bob, alice, "second", 0),
			msg(11, alice, bob, "first", 0),
			msg(13, alice, bob, "third", 0),
		}
		req.Equal([]string{"first", "second", "third"}, bodies(Between(msgs, alice, bob)))
	})
}

func TestLatestPerPair(t *testing.T) {
	t.Run("should keep one entry per counterpart, most recent first", func(t *testing.T) {
		req := require.New(t)

		latest := LatestPerPair(history(), alice)

		req.Len(latest, 2)
		req.Equal(int64(103), latest[0].ID)
		req.Equal(carol, Counterpart(latest[0], alice))
		req.Equal(int64(102), latest[1].ID)
		req.Equal(bob, Counterpart(latest[1], alice))
	})

	t.Run("should flip order when an older conversation gets a new message", func(t *testing.T) {
		req := require.New(t)

		msgs := append(history(), msg(104, bob, alice, "free at 3?", 5))
		latest := LatestPerPair(msgs, alice)

		req.Equal([]string{"free at 3?", "yo"}, bodies(latest))
	})

	t.Run("should return nothing for a user without messages", func(t *testing.T) {
		req := require.New(t)
		req.Empty(LatestPerPair(history(), dave))
	})

	t.Run("should pick the highest id even when timestamps are equal", func(t *testing.T) {
		req := require.New(t)
		msgs := []models.Message{
			msg(21, alice, bob, "a", 0),
			msg(22, bob, alice, "b", 0),
		}
		latest := LatestPerPair(msgs, bob)
		req.Len(latest, 1)
		req.Equal("b", latest[0].Body)
	})

	t.Run("should count distinct pairs exactly", func(t *testing.T) {
		req := require.New(t)
		msgs := []models.Message{
			msg(1, alice, bob, "1", 0),
			msg(2, bob, alice, "2", 1),
			msg(3, carol, alice, "3", 2),
			msg(4, alice, carol, "4", 3),
			msg(5, dave, alice, "5", 4),
			msg(6, bob, carol, "6", 5),
		}
		latest := LatestPerPair(msgs, alice)
		req.Len(latest, 3)
		req.Equal([]string{"5", "4", "2"}, bodies(latest))
	})

	t.Run("should leave other users untouched by a new message", func(t *testing.T) {
		req := require.New(t)
		before := LatestPerPair(history(), carol)
		msgs := append(history(), msg(104, bob, alice, "free at 3?", 5))
		req.Equal(before, LatestPerPair(msgs, carol))
	})
}

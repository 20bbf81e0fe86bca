package postgres

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"tutorhub-backend/internal/models"
	"tutorhub-backend/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

// These are integration tests and require a running PostgreSQL instance.
// Set TEST_DATABASE_URL before running them; every table is truncated.

func setupStore(t *testing.T) (*PostgresStore, *pgxpool.Pool) {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE tutor_entries, courses, subjects, messages, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	return NewPostgresStore(pool), pool
}

func createUser(t *testing.T, s *PostgresStore, email, first string) *models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), store.CreateUserParams{
		Email:          email,
		HashedPassword: "hash",
		FirstName:      lo.ToPtr(first),
	})
	require.NoError(t, err)
	return u
}

func countMessages(t *testing.T, pool *pgxpool.Pool) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM messages`).Scan(&n))
	return n
}

func TestPostgresStore_Messaging(t *testing.T) {
	s, pool := setupStore(t)
	ctx := context.Background()
	req := require.New(t)

	alice := createUser(t, s, "alice@example.com", "Alice")
	bob := createUser(t, s, "bob@example.com", "Bob")
	carol := createUser(t, s, "carol@example.com", "Carol")
	dave := createUser(t, s, "dave@example.com", "Dave")

	_, err := s.CreateUser(ctx, store.CreateUserParams{Email: "alice@example.com", HashedPassword: "x"})
	req.ErrorIs(err, store.ErrDuplicateEmail)

	send := func(from, to *models.User, body string) *models.Message {
		m, err := s.AppendMessage(ctx, from.ID, to.ID, body)
		req.NoError(err)
		return m
	}
	hi := send(alice, bob, "hi")
	hey := send(bob, alice, "hey")
	send(alice, carol, "yo")
	req.Less(hi.ID, hey.ID)

	t.Run("should return the conversation symmetrically", func(t *testing.T) {
		req := require.New(t)
		ab, err := s.ListConversation(ctx, alice.ID, bob.ID)
		req.NoError(err)
		ba, err := s.ListConversation(ctx, bob.ID, alice.ID)
		req.NoError(err)
		req.Equal(ab, ba)
		req.Equal([]string{"hi", "hey"}, lo.Map(ab, func(m models.Message, _ int) string { return m.Body }))
		req.Equal("Alice", ab[0].SenderName)
	})

	t.Run("should group the inbox by participant pair", func(t *testing.T) {
		req := require.New(t)
		inbox, err := s.ListInbox(ctx, alice.ID)
		req.NoError(err)
		req.Len(inbox, 2)
		req.Equal("yo", inbox[0].LastMessageBody)
		req.Equal(carol.ID, inbox[0].CounterpartID)
		req.Equal("hey", inbox[1].LastMessageBody)
		req.Equal("Bob", inbox[1].CounterpartName)

		send(bob, alice, "free at 3?")
		inbox, err = s.ListInbox(ctx, alice.ID)
		req.NoError(err)
		req.Equal(bob.ID, inbox[0].CounterpartID)
		req.Equal("free at 3?", inbox[0].LastMessageBody)

		empty, err := s.ListInbox(ctx, dave.ID)
		req.NoError(err)
		req.Empty(empty)
	})

	t.Run("should reject rows that break constraints without writing", func(t *testing.T) {
		req := require.New(t)
		before := countMessages(t, pool)

		_, err := s.AppendMessage(ctx, alice.ID, 999999, "hi")
		req.ErrorIs(err, store.ErrNotFound)
		_, err = s.AppendMessage(ctx, alice.ID, alice.ID, "me")
		req.ErrorIs(err, store.ErrInvalidMessage)
		_, err = s.AppendMessage(ctx, alice.ID, bob.ID, "   ")
		req.ErrorIs(err, store.ErrInvalidMessage)

		req.Equal(before, countMessages(t, pool))
	})

	t.Run("should search users with literal wildcards", func(t *testing.T) {
		req := require.New(t)
		users, err := s.SearchUsersByEmail(ctx, "example", 50)
		req.NoError(err)
		req.Len(users, 4)
		req.Equal(dave.ID, users[0].ID)

		users, err = s.SearchUsersByEmail(ctx, "%", 50)
		req.NoError(err)
		req.Empty(users)
	})
}

func TestPairLockKey(t *testing.T) {
	req := require.New(t)

	req.Equal(pairLockKey(1, 2), pairLockKey(2, 1))
	req.NotEqual(pairLockKey(1, 2), pairLockKey(1, 3))
	req.NotEqual(pairLockKey(1, 2), pairLockKey(2, 2))
	req.NotEqual(pairLockKey(12, 3), pairLockKey(1, 23))
}

func TestPostgresStore_ConcurrentAppendOrdering(t *testing.T) {
	s, pool := setupStore(t)
	ctx := context.Background()
	req := require.New(t)

	alice := createUser(t, s, "alice@example.com", "Alice")
	bob := createUser(t, s, "bob@example.com", "Bob")

	const senders = 40
	var wg sync.WaitGroup
	errs := make(chan error, senders)
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			from, to := alice, bob
			if i%2 == 1 {
				from, to = bob, alice
			}
			_, err := s.AppendMessage(ctx, from.ID, to.ID, fmt.Sprintf("msg %d", i))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		req.NoError(err)
	}
	req.Equal(senders, countMessages(t, pool))

	msgs, err := s.ListConversation(ctx, alice.ID, bob.ID)
	req.NoError(err)
	req.Len(msgs, senders)
	for i := 1; i < len(msgs); i++ {
		req.Less(msgs[i-1].ID, msgs[i].ID, "conversation must be in id order")
		req.False(msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt), "created_at must not go backwards along id order")
	}

	inbox, err := s.ListInbox(ctx, alice.ID)
	req.NoError(err)
	req.Len(inbox, 1)
	req.Equal(msgs[len(msgs)-1].Body, inbox[0].LastMessageBody)
}

func TestPostgresStore_UpdateUser(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	req := require.New(t)

	bob := createUser(t, s, "bob@example.com", "Bob")

	updated, err := s.UpdateUser(ctx, bob.ID, store.UpdateUserParams{
		FirstName: lo.ToPtr("Robert"),
		Major:     lo.ToPtr("Physics"),
	})
	req.NoError(err)
	req.Equal("Robert", lo.FromPtr(updated.FirstName))
	req.Equal("Physics", lo.FromPtr(updated.Major))
	req.False(updated.UpdatedAt.Before(bob.UpdatedAt))

	cleared, err := s.UpdateUser(ctx, bob.ID, store.UpdateUserParams{Major: lo.ToPtr("")})
	req.NoError(err)
	req.Nil(cleared.Major)
	req.Equal("Robert", lo.FromPtr(cleared.FirstName))

	_, err = s.UpdateUser(ctx, 999999, store.UpdateUserParams{FirstName: lo.ToPtr("X")})
	req.ErrorIs(err, store.ErrNotFound)
}

func TestPostgresStore_TutorCatalog(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	req := require.New(t)

	tutor := createUser(t, s, "tina@example.com", "Tina")

	math, err := s.CreateSubject(ctx, "Mathematics")
	req.NoError(err)
	_, err = s.CreateSubject(ctx, "Physics")
	req.NoError(err)
	_, err = s.CreateSubject(ctx, "mathematics")
	req.ErrorIs(err, store.ErrDuplicateSubject)

	subjects, err := s.ListSubjects(ctx, 50)
	req.NoError(err)
	req.Equal([]string{"Physics", "Mathematics"}, lo.Map(subjects, func(sub models.Subject, _ int) string { return sub.Name }))

	found, err := s.GetSubjectByName(ctx, "MATHEMATICS")
	req.NoError(err)
	req.Equal(math.ID, found.ID)

	entry, err := s.CreateTutorApplication(ctx, store.CreateTutorApplicationParams{
		TutorID:     tutor.ID,
		SubjectID:   math.ID,
		ClassNum:    "MATH 101",
		CourseTitle: "Calculus I",
	})
	req.NoError(err)
	req.Equal(models.TutorStatusPending, entry.Status)

	_, err = s.CreateTutorApplication(ctx, store.CreateTutorApplicationParams{TutorID: tutor.ID, SubjectID: 999999, ClassNum: "X", CourseTitle: "Y"})
	req.ErrorIs(err, store.ErrNotFound)

	search := func(q string, field store.TutorSearchField) []models.TutorListing {
		listings, err := s.SearchTutors(ctx, store.SearchTutorsParams{Query: q, Field: field, Limit: 50})
		req.NoError(err)
		return listings
	}
	req.Empty(search("calc", store.SearchByTutorOrCourse))

	_, err = s.SetTutorEntryStatus(ctx, entry.ID, models.TutorStatusApproved)
	req.NoError(err)
	_, err = s.SetTutorEntryStatus(ctx, 999999, models.TutorStatusApproved)
	req.ErrorIs(err, store.ErrNotFound)

	listings := search("CALC", store.SearchByTutorOrCourse)
	req.Len(listings, 1)
	req.Equal("Tina", lo.FromPtr(listings[0].FirstName))
	req.Equal("Mathematics", listings[0].SubjectName)
	req.Len(search("tina", store.SearchByTutorOrCourse), 1)
	req.Len(search("math", store.SearchBySubject), 1)
	req.Empty(search("phys", store.SearchBySubject))
	req.Empty(search("%", store.SearchByTutorOrCourse))
}

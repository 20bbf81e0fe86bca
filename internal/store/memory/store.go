// Package memory is an in-process Store used by tests and by STORE_DRIVER=memory.
package memory

import (
	"context"
	"log"
	"slices"
	"strings"
	"sync"
	"time"
	"tutorhub-backend/internal/conversation"
	"tutorhub-backend/internal/models"
	"tutorhub-backend/internal/store"

	"github.com/samber/lo"
)

// Compile-time check to ensure MemoryStore implements store.Store
var _ store.Store = (*MemoryStore)(nil)

// MemoryStore keeps users and messages in memory behind a single lock.
// Ids are assigned under the write lock, so they are unique and strictly
// increasing in commit order.
type MemoryStore struct {
	mu            sync.RWMutex
	now           func() time.Time
	nextUserID    int64
	nextMessageID int64
	users         map[int64]models.User
	emails        map[string]int64
	messages      []models.Message

	nextSubjectID int64
	nextCourseID  int64
	nextEntryID   int64
	subjects      map[int64]models.Subject
	subjectNames  map[string]int64 // lower-cased name -> id
	courses       map[int64]models.Course
	entries       []models.TutorEntry // id order
}

// NewMemoryStore returns an empty store stamping rows with time.Now.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock returns an empty store stamping rows with now.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		now:    now,
		users:        map[int64]models.User{},
		emails:       map[string]int64{},
		subjects:     map[int64]models.Subject{},
		subjectNames: map[string]int64{},
		courses:      map[int64]models.Course{},
	}
}

// CreateUser inserts a new user. Returns store.ErrDuplicateEmail if the email is taken.
func (s *MemoryStore) CreateUser(_ context.Context, arg store.CreateUserParams) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[arg.Email]; taken {
		return nil, store.ErrDuplicateEmail
	}

	s.nextUserID++
	now := s.now()
	u := models.User{
		ID:             s.nextUserID,
		Email:          arg.Email,
		HashedPassword: arg.HashedPassword,
		FirstName:      arg.FirstName,
		LastName:       arg.LastName,
		Major:          arg.Major,
		Minor:          arg.Minor,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.users[u.ID] = u
	s.emails[u.Email] = u.ID

	log.Printf("[MemoryStore] CreateUser: inserted user ID %d for email %s", u.ID, u.Email)
	return &u, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	u := s.users[id]
	return &u, nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

// SearchUsersByEmail returns users whose email contains query, newest first.
func (s *MemoryStore) SearchUsersByEmail(_ context.Context, query string, limit int) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := lo.Filter(lo.Values(s.users), func(u models.User, _ int) bool {
		return strings.Contains(u.Email, query)
	})
	slices.SortFunc(matches, func(a, b models.User) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// UpdateUser applies the non-nil fields of arg; an empty string clears the field.
func (s *MemoryStore) UpdateUser(_ context.Context, id int64, arg store.UpdateUserParams) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	set := func(dst **string, v *string) {
		if v == nil {
			return
		}
		if *v == "" {
			*dst = nil
			return
		}
		*dst = lo.ToPtr(*v)
	}
	set(&u.FirstName, arg.FirstName)
	set(&u.LastName, arg.LastName)
	set(&u.Major, arg.Major)
	set(&u.Minor, arg.Minor)
	u.UpdatedAt = s.now()
	s.users[id] = u

	return &u, nil
}

// AppendMessage stores one message. The row is only added once both participants
// are known to exist and the constraints hold, so a failed append leaves no trace.
func (s *MemoryStore) AppendMessage(_ context.Context, senderID, receiverID int64, body string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sender, ok := s.users[senderID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if _, ok := s.users[receiverID]; !ok {
		return nil, store.ErrNotFound
	}
	if senderID == receiverID || strings.TrimSpace(body) == "" {
		return nil, store.ErrInvalidMessage
	}

	s.nextMessageID++
	m := models.Message{
		ID:          s.nextMessageID,
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Body:        body,
		CreatedAt:   s.now(),
		SenderName:  sender.DisplayName(),
		SenderEmail: sender.Email,
	}
	s.messages = append(s.messages, m)
	return &m, nil
}

func (s *MemoryStore) ListConversation(_ context.Context, a, b int64) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.withSenders(conversation.Between(s.messages, a, b)), nil
}

func (s *MemoryStore) ListInbox(_ context.Context, userID int64) ([]models.InboxEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := conversation.LatestPerPair(s.messages, userID)
	entries := make([]models.InboxEntry, 0, len(latest))
	for _, m := range latest {
		counterpart := s.users[conversation.Counterpart(m, userID)]
		entries = append(entries, models.InboxEntry{
			CounterpartID:    counterpart.ID,
			CounterpartName:  counterpart.DisplayName(),
			CounterpartEmail: counterpart.Email,
			LastMessageID:    m.ID,
			LastMessageBody:  m.Body,
			LastMessageTime:  m.CreatedAt,
		})
	}
	return entries, nil
}

func (s *MemoryStore) ListReceived(_ context.Context, userID int64) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	received := lo.Filter(s.messages, func(m models.Message, _ int) bool {
		return m.ReceiverID == userID
	})
	conversation.SortChronological(received)
	return s.withSenders(received), nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

// MessageCount returns the number of stored messages.
func (s *MemoryStore) MessageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// withSenders refreshes sender names from the current user rows. Caller holds the lock.
func (s *MemoryStore) withSenders(msgs []models.Message) []models.Message {
	for i := range msgs {
		sender := s.users[msgs[i].SenderID]
		msgs[i].SenderName = sender.DisplayName()
		msgs[i].SenderEmail = sender.Email
	}
	return msgs
}

package store

import (
	"context"
	"errors"
	"tutorhub-backend/internal/models"
)

// ErrNotFound is returned when a specific record is not found.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateEmail is returned when a user with the same email already exists.
var ErrDuplicateEmail = errors.New("email already registered")

// ErrDuplicateSubject is returned when a subject with the same name (ignoring case) exists.
var ErrDuplicateSubject = errors.New("subject already exists")

// ErrInvalidMessage is returned when the store rejects a message row
// (blank body, sender equal to receiver).
var ErrInvalidMessage = errors.New("message violates store constraints")

// CreateUserParams contains parameters for creating a user.
type CreateUserParams struct {
	Email          string // Already normalized
	HashedPassword string
	FirstName      *string
	LastName       *string
	Major          *string
	Minor          *string
}

// UpdateUserParams lists the profile fields to change. A nil field is left as is;
// an empty string stores NULL.
type UpdateUserParams struct {
	FirstName *string
	LastName  *string
	Major     *string
	Minor     *string
}

// IsEmpty reports whether no field would change.
func (p UpdateUserParams) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Major == nil && p.Minor == nil
}

// CreateTutorApplicationParams files a pending tutor entry for a new course.
type CreateTutorApplicationParams struct {
	TutorID     int64
	SubjectID   int64
	ClassNum    string
	CourseTitle string
}

// TutorSearchField selects what a tutor search query is matched against.
type TutorSearchField int

const (
	// SearchByTutorOrCourse matches tutor first/last name, course name and class number.
	SearchByTutorOrCourse TutorSearchField = iota
	// SearchBySubject matches the subject name.
	SearchBySubject
)

// SearchTutorsParams holds a case-insensitive substring search over approved entries.
// An empty Query matches every approved entry.
type SearchTutorsParams struct {
	Query string
	Field TutorSearchField
	Limit int
}

// Store defines the interface for database operations.
// This allows for an in-memory implementation in tests and potential DB backend switching.
type Store interface {
	// User operations
	CreateUser(ctx context.Context, arg CreateUserParams) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	SearchUsersByEmail(ctx context.Context, query string, limit int) ([]models.User, error)
	// UpdateUser changes profile fields and returns the updated row.
	// Returns ErrNotFound if the user does not exist.
	UpdateUser(ctx context.Context, id int64, arg UpdateUserParams) (*models.User, error)

	// Message operations. Messages are append-only: there is no update or delete.

	// AppendMessage atomically stores one message and returns it with its id and
	// creation time. Returns ErrNotFound if either participant does not exist.
	AppendMessage(ctx context.Context, senderID, receiverID int64, body string) (*models.Message, error)
	// ListConversation returns every message between a and b, in either direction,
	// oldest first, with sender names filled in.
	ListConversation(ctx context.Context, a, b int64) ([]models.Message, error)
	// ListInbox returns, per counterpart of userID, the message with the highest id
	// of that pair, most recent conversation first.
	ListInbox(ctx context.Context, userID int64) ([]models.InboxEntry, error)
	// ListReceived returns every message addressed to userID, oldest first.
	ListReceived(ctx context.Context, userID int64) ([]models.Message, error)

	// Tutor catalog operations.
	CreateSubject(ctx context.Context, name string) (*models.Subject, error)
	GetSubjectByName(ctx context.Context, name string) (*models.Subject, error)
	// ListSubjects returns subjects newest first.
	ListSubjects(ctx context.Context, limit int) ([]models.Subject, error)
	// CreateTutorApplication stores the course and a pending entry atomically.
	// Returns ErrNotFound if the tutor or subject does not exist.
	CreateTutorApplication(ctx context.Context, arg CreateTutorApplicationParams) (*models.TutorEntry, error)
	SetTutorEntryStatus(ctx context.Context, entryID int64, status string) (*models.TutorEntry, error)
	// SearchTutors returns approved entries in entry id order.
	SearchTutors(ctx context.Context, arg SearchTutorsParams) ([]models.TutorListing, error)

	Ping(ctx context.Context) error
}

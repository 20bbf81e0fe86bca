package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// --- Request Structs ---

// SignupRequest defines the expected body for the signup endpoint.
type SignupRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8,max=72"` // bcrypt ignores bytes past 72
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Major     *string `json:"major,omitempty" validate:"omitempty,max=100"`
	Minor     *string `json:"minor,omitempty" validate:"omitempty,max=100"`
}

// LoginRequest defines the expected body for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is the body of PUT /v1/profile. Omitted fields are left
// unchanged; an empty string clears the field.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Major     *string `json:"major" validate:"omitempty,max=100"`
	Minor     *string `json:"minor" validate:"omitempty,max=100"`
}

// Identifier names a user by numeric id or email. In JSON it may be a string
// ("bob@example.com", "2") or a number (2).
type Identifier string

func (i *Identifier) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*i = Identifier(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("identifier must be a string or a number: %w", err)
	}
	*i = Identifier(n.String())
	return nil
}

// SendMessageRequest is the body of POST /v1/messages.
type SendMessageRequest struct {
	Receiver Identifier `json:"receiver" validate:"required"`
	Body     string     `json:"body" validate:"required"`
}

// TutorApplicationRequest is the body of POST /v1/tutors/applications.
type TutorApplicationRequest struct {
	Subject     string `json:"subject" validate:"required,max=100"`
	ClassNum    string `json:"class_num" validate:"required,max=20"`
	CourseTitle string `json:"course_title" validate:"required,max=200"`
}

// --- Response Structs ---

// UserResponse defines the user information returned by the API.
// Never carries the password hash.
type UserResponse struct {
	ID          int64   `json:"id"`
	Email       string  `json:"email"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Major       *string `json:"major"`
	Minor       *string `json:"minor"`
	DisplayName string  `json:"display_name"`
}

// NewUserResponse maps a db user to its API shape.
func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Major:       u.Major,
		Minor:       u.Minor,
		DisplayName: u.DisplayName(),
	}
}

// AuthResponse defines the response body for successful authentication.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SendMessageResponse is returned after a message has been stored.
type SendMessageResponse struct {
	MessageID int64 `json:"message_id"`
}

// MessageResponse is one message inside a conversation or received list.
type MessageResponse struct {
	MessageID   int64     `json:"message_id"`
	SenderID    int64     `json:"sender_id"`
	ReceiverID  int64     `json:"receiver_id"`
	SenderName  string    `json:"sender_name"`
	SenderEmail string    `json:"sender_email,omitempty"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewMessageResponse maps a stored message to its API shape.
func NewMessageResponse(m Message) MessageResponse {
	return MessageResponse{
		MessageID:   m.ID,
		SenderID:    m.SenderID,
		ReceiverID:  m.ReceiverID,
		SenderName:  m.SenderName,
		SenderEmail: m.SenderEmail,
		Body:        m.Body,
		CreatedAt:   m.CreatedAt,
	}
}

// ConversationResponse is the full history between the caller and one counterpart.
type ConversationResponse struct {
	CounterpartID   int64             `json:"counterpart_id"`
	CounterpartName string            `json:"counterpart_name"`
	Messages        []MessageResponse `json:"messages"`
}

// InboxEntryResponse is one row of the inbox preview list.
type InboxEntryResponse struct {
	CounterpartID    int64     `json:"counterpart_id"`
	CounterpartName  string    `json:"counterpart_name"`
	CounterpartEmail string    `json:"counterpart_email,omitempty"`
	LastMessageID    int64     `json:"last_message_id"`
	LastMessageBody  string    `json:"last_message_body"`
	LastMessageTime  time.Time `json:"last_message_time"`
}

// NewInboxEntryResponse maps an inbox entry to its API shape.
func NewInboxEntryResponse(e InboxEntry) InboxEntryResponse {
	return InboxEntryResponse{
		CounterpartID:    e.CounterpartID,
		CounterpartName:  e.CounterpartName,
		CounterpartEmail: e.CounterpartEmail,
		LastMessageID:    e.LastMessageID,
		LastMessageBody:  e.LastMessageBody,
		LastMessageTime:  e.LastMessageTime,
	}
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// SubjectResponse is one catalog entry.
type SubjectResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TutorApplicationResponse is returned after an application is filed.
type TutorApplicationResponse struct {
	TutorEntryID int64  `json:"tutor_entry_id"`
	Status       string `json:"status"`
}

// TutorListingResponse is one search hit. TutorID is the user to message.
type TutorListingResponse struct {
	ID         int64    `json:"id"`
	TutorID    int64    `json:"tutor_id"`
	Name       string   `json:"name"`
	Subjects   []string `json:"subjects"`
	ClassNum   string   `json:"class_num"`
	Department string   `json:"department"`
}

func NewTutorListingResponse(l TutorListing) TutorListingResponse {
	return TutorListingResponse{
		ID:         l.EntryID,
		TutorID:    l.TutorID,
		Name:       l.TutorName(),
		Subjects:   []string{l.CourseName},
		ClassNum:   l.ClassNum,
		Department: l.SubjectName,
	}
}

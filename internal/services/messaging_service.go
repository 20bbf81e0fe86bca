package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"tutorhub-backend/internal/auth"
	"tutorhub-backend/internal/conversation"
	"tutorhub-backend/internal/models"
	"tutorhub-backend/internal/store"
	"unicode/utf8"
)

// Conversation is the full history between the caller and one counterpart.
type Conversation struct {
	Counterpart *models.User
	Messages    []models.Message
}

// MessagingService implements send, fetch-conversation and fetch-inbox.
// Every operation takes the verified caller explicitly and rejects a zero
// identity before touching the store.
type MessagingService struct {
	store         store.Store
	directory     *UserDirectory
	maxBodyLength int
}

func NewMessagingService(s store.Store, directory *UserDirectory, maxBodyLength int) *MessagingService {
	return &MessagingService{
		store:         s,
		directory:     directory,
		maxBodyLength: maxBodyLength,
	}
}

// SendMessage stores a message from the caller to receiver (a user id or email)
// and returns the new message id.
func (s *MessagingService) SendMessage(ctx context.Context, caller auth.Identity, receiver, body string) (int64, error) {
	if caller.IsZero() {
		return 0, ErrUnauthenticated
	}
	if err := s.validateBody(body); err != nil {
		return 0, err
	}

	sender, err := s.resolveCaller(ctx, caller)
	if err != nil {
		return 0, err
	}
	recipient, err := s.directory.Resolve(ctx, receiver)
	if err != nil {
		return 0, err
	}
	if sender.ID == recipient.ID {
		return 0, ErrSelfMessage
	}

	msg, err := s.store.AppendMessage(ctx, sender.ID, recipient.ID, body)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return 0, ErrRecipientOrSenderNotFound
		case errors.Is(err, store.ErrInvalidMessage):
			return 0, fmt.Errorf("%w: %v", ErrValidation, err)
		default:
			log.Printf("ERROR [MessagingService] SendMessage: append failed for user %d -> %d: %v", sender.ID, recipient.ID, err)
			return 0, unavailable("append message", err)
		}
	}

	log.Printf("[MessagingService] SendMessage: user %d -> user %d, message ID %d", sender.ID, recipient.ID, msg.ID)
	return msg.ID, nil
}

// FetchConversation returns every message between the caller and counterpart, oldest first.
func (s *MessagingService) FetchConversation(ctx context.Context, caller auth.Identity, counterpart string) (*Conversation, error) {
	if caller.IsZero() {
		return nil, ErrUnauthenticated
	}
	me, err := s.resolveCaller(ctx, caller)
	if err != nil {
		return nil, err
	}
	other, err := s.directory.Resolve(ctx, counterpart)
	if err != nil {
		return nil, err
	}

	msgs, err := s.store.ListConversation(ctx, me.ID, other.ID)
	if err != nil {
		log.Printf("ERROR [MessagingService] FetchConversation: users %d/%d: %v", me.ID, other.ID, err)
		return nil, unavailable("list conversation", err)
	}
	conversation.SortChronological(msgs)

	return &Conversation{Counterpart: other, Messages: msgs}, nil
}

// FetchInbox returns one entry per counterpart of the caller, most recent first.
func (s *MessagingService) FetchInbox(ctx context.Context, caller auth.Identity) ([]models.InboxEntry, error) {
	if caller.IsZero() {
		return nil, ErrUnauthenticated
	}
	me, err := s.resolveCaller(ctx, caller)
	if err != nil {
		return nil, err
	}

	entries, err := s.store.ListInbox(ctx, me.ID)
	if err != nil {
		log.Printf("ERROR [MessagingService] FetchInbox: user %d: %v", me.ID, err)
		return nil, unavailable("list inbox", err)
	}
	conversation.SortInbox(entries)
	return entries, nil
}

// FetchReceived returns every message addressed to the caller, oldest first.
func (s *MessagingService) FetchReceived(ctx context.Context, caller auth.Identity) ([]models.Message, error) {
	if caller.IsZero() {
		return nil, ErrUnauthenticated
	}
	me, err := s.resolveCaller(ctx, caller)
	if err != nil {
		return nil, err
	}

	msgs, err := s.store.ListReceived(ctx, me.ID)
	if err != nil {
		log.Printf("ERROR [MessagingService] FetchReceived: user %d: %v", me.ID, err)
		return nil, unavailable("list received", err)
	}
	conversation.SortChronological(msgs)
	return msgs, nil
}

// resolveCaller maps the verified identity to its stored user through the
// directory. A token whose email now belongs to another id is not trusted.
func (s *MessagingService) resolveCaller(ctx context.Context, caller auth.Identity) (*models.User, error) {
	id, err := s.directory.ResolveIDByEmail(ctx, caller.Email)
	if err != nil {
		return nil, err
	}
	if id != caller.UserID {
		log.Printf("WARN [MessagingService] token for user %d resolves to user %d", caller.UserID, id)
		return nil, ErrUnauthenticated
	}
	return s.directory.byID(ctx, id)
}

func (s *MessagingService) validateBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return ErrEmptyBody
	}
	if s.maxBodyLength > 0 && utf8.RuneCountInString(body) > s.maxBodyLength {
		return fmt.Errorf("%w: message body exceeds %d characters", ErrValidation, s.maxBodyLength)
	}
	return nil
}

package handlers

import (
	"context"
	"net/http"
	"tutorhub-backend/internal/auth"
	"tutorhub-backend/internal/models"
	"tutorhub-backend/internal/services"
	"tutorhub-backend/pkg/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
)

// MessagingService defines the messaging operations the handlers need.
type MessagingService interface {
	SendMessage(ctx context.Context, caller auth.Identity, receiver, body string) (int64, error)
	FetchConversation(ctx context.Context, caller auth.Identity, counterpart string) (*services.Conversation, error)
	FetchInbox(ctx context.Context, caller auth.Identity) ([]models.InboxEntry, error)
	FetchReceived(ctx context.Context, caller auth.Identity) ([]models.Message, error)
}

// MessageHandlers handles HTTP requests for messages, conversations and the inbox.
type MessageHandlers struct {
	messaging MessagingService
}

func NewMessageHandlers(messaging MessagingService) *MessageHandlers {
	return &MessageHandlers{messaging: messaging}
}

// HandleSendMessage handles POST /v1/messages.
func (h *MessageHandlers) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var req models.SendMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	id, err := h.messaging.SendMessage(r.Context(), caller, string(req.Receiver), req.Body)
	if err != nil {
		respondServiceError(w, "SendMessage", err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, models.SendMessageResponse{MessageID: id})
}

// HandleGetConversation handles GET /v1/conversations/{counterpart}.
func (h *MessageHandlers) HandleGetConversation(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	conv, err := h.messaging.FetchConversation(r.Context(), caller, chi.URLParam(r, "counterpart"))
	if err != nil {
		respondServiceError(w, "FetchConversation", err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.ConversationResponse{
		CounterpartID:   conv.Counterpart.ID,
		CounterpartName: conv.Counterpart.DisplayName(),
		Messages:        toMessageResponses(conv.Messages),
	})
}

// HandleGetInbox handles GET /v1/messages.
func (h *MessageHandlers) HandleGetInbox(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	entries, err := h.messaging.FetchInbox(r.Context(), caller)
	if err != nil {
		respondServiceError(w, "FetchInbox", err)
		return
	}

	resp := make([]models.InboxEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, models.NewInboxEntryResponse(e))
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleGetReceived handles GET /v1/messages/received.
func (h *MessageHandlers) HandleGetReceived(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	msgs, err := h.messaging.FetchReceived(r.Context(), caller)
	if err != nil {
		respondServiceError(w, "FetchReceived", err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, toMessageResponses(msgs))
}

// toMessageResponses never returns nil so empty lists encode as [].
func toMessageResponses(msgs []models.Message) []models.MessageResponse {
	if len(msgs) == 0 {
		return []models.MessageResponse{}
	}
	return lo.Map(msgs, func(m models.Message, _ int) models.MessageResponse {
		return models.NewMessageResponse(m)
	})
}

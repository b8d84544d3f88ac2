package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/worldorder/worldorder/internal/domain"
	"github.com/worldorder/worldorder/pkg/logger"
	"github.com/worldorder/worldorder/pkg/messaging"
)

const (
	maxWebhookBody    = 1 << 20
	webhookUserFanout = 8
)

// WebhookHandler receives chat platform events and hands them to the conversation
type WebhookHandler struct {
	conversation  domain.ConversationService
	channelSecret string
	logger        logger.Logger
}

func NewWebhookHandler(conversation domain.ConversationService, channelSecret string, logger logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		conversation:  conversation,
		channelSecret: channelSecret,
		logger:        logger,
	}
}

func (h *WebhookHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/webhook", http.HandlerFunc(h.handleWebhook))
}

func (h *WebhookHandler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to read webhook request body")
		WriteJSONError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	if !messaging.VerifySignature(h.channelSecret, body, r.Header.Get(messaging.SignatureHeader)) {
		h.logger.WithField("remote_addr", r.RemoteAddr).Warn("Rejected webhook with invalid signature")
		WriteJSONError(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	events, err := domain.ParseWebhookEvents(body)
	if err != nil {
		var ve domain.ValidationError
		if !errors.As(err, &ve) {
			h.logger.WithField("error", err.Error()).Error("Failed to decode webhook events")
		}
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// the platform does not wait for replies, so work continues if the caller hangs up
	ctx := context.WithoutCancel(r.Context())
	if err := h.dispatch(ctx, events); err != nil {
		h.logger.WithField("error", err.Error()).Error("Webhook dispatch failed")
		WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// dispatch handles each user's events in delivery order, and different users in
// parallel. Every event is attempted; the first failure is returned.
func (h *WebhookHandler) dispatch(ctx context.Context, events []domain.InboundEvent) error {
	var order []string
	byUser := map[string][]domain.InboundEvent{}
	for _, ev := range events {
		if !ev.Handled() {
			continue
		}
		if _, ok := byUser[ev.UserID]; !ok {
			order = append(order, ev.UserID)
		}
		byUser[ev.UserID] = append(byUser[ev.UserID], ev)
	}

	var g errgroup.Group
	g.SetLimit(webhookUserFanout)
	for _, userID := range order {
		queue := byUser[userID]
		g.Go(func() error {
			var first error
			for _, ev := range queue {
				if err := h.conversation.HandleEvent(ctx, ev); err != nil && first == nil {
					first = err
				}
			}
			return first
		})
	}
	return g.Wait()
}

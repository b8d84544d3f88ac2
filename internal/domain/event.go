package domain

import (
	"time"

	"github.com/tidwall/gjson"
)

type EventType string

const (
	EventTypeFollow  EventType = "follow"
	EventTypeMessage EventType = "message"
)

// InboundEvent is one webhook event from the chat platform
type InboundEvent struct {
	Type           EventType `json:"type"`
	WebhookEventID string    `json:"webhook_event_id"`
	UserID         string    `json:"user_id"`
	ReplyToken     string    `json:"reply_token"`
	MessageType    string    `json:"message_type,omitempty"`
	Text           string    `json:"text,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// IsText reports whether the event is a text message
func (e InboundEvent) IsText() bool {
	return e.Type == EventTypeMessage && e.MessageType == "text"
}

// Handled reports whether the conversation reacts to this event at all
func (e InboundEvent) Handled() bool {
	if e.UserID == "" {
		return false
	}
	return e.Type == EventTypeFollow || e.IsText()
}

// ParseWebhookEvents decodes {destination, events: [...]} into inbound events.
// Events of any type are returned; callers filter with Handled.
func ParseWebhookEvents(body []byte) ([]InboundEvent, error) {
	if !gjson.ValidBytes(body) {
		return nil, NewValidationError("webhook body is not valid JSON")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, NewValidationError("webhook body must be a JSON object")
	}
	raw := doc.Get("events")
	if !raw.Exists() {
		return nil, nil
	}
	if !raw.IsArray() {
		return nil, NewValidationError("events must be an array")
	}

	var events []InboundEvent
	for _, e := range raw.Array() {
		ev := InboundEvent{
			Type:           EventType(e.Get("type").String()),
			WebhookEventID: e.Get("webhookEventId").String(),
			UserID:         e.Get("source.userId").String(),
			ReplyToken:     e.Get("replyToken").String(),
			MessageType:    e.Get("message.type").String(),
			Text:           e.Get("message.text").String(),
		}
		if ts := e.Get("timestamp"); ts.Exists() {
			ev.Timestamp = time.UnixMilli(ts.Int())
		}
		events = append(events, ev)
	}
	return events, nil
}

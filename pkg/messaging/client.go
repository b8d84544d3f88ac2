// Package messaging talks to the LINE Messaging API: reply, push and profile lookups.
package messaging

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/worldorder/worldorder/pkg/tracing"
)

const (
	// MaxMessagesPerCall is the platform limit for one reply or push
	MaxMessagesPerCall = 5
	// MaxTextRunes is the platform limit for one text message
	MaxTextRunes = 5000
)

type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
)

// Message is one outbound bubble
type Message struct {
	Type               MessageType `json:"type"`
	Text               string      `json:"text,omitempty"`
	OriginalContentURL string      `json:"originalContentUrl,omitempty"`
	PreviewImageURL    string      `json:"previewImageUrl,omitempty"`
}

func Text(text string) Message {
	return Message{Type: MessageTypeText, Text: text}
}

func Image(imageURL string) Message {
	return Message{Type: MessageTypeImage, OriginalContentURL: imageURL, PreviewImageURL: imageURL}
}

type Profile struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl,omitempty"`
	StatusMessage string `json:"statusMessage,omitempty"`
}

// APIError is a non-2xx answer from the platform
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("messaging api returned %d: %s", e.StatusCode, e.Message)
}

type errorBody struct {
	Message string `json:"message"`
}

type Options struct {
	BaseURL     string
	AccessToken string
	Timeout     time.Duration
}

// Client is safe for concurrent use
type Client struct {
	// reply tokens are single-use, so replies are never retried
	once *resty.Client
	// push and profile calls are idempotent enough to retry
	retrying *resty.Client
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Client{
		once:     newResty(opts, 0),
		retrying: newResty(opts, 2),
	}
}

func newResty(opts Options, retries int) *resty.Client {
	return resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetTransport(tracing.WrapTransport(http.DefaultTransport)).
		SetRetryCount(retries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		}).
		SetAuthToken(opts.AccessToken).
		SetHeader("Content-Type", "application/json").
		SetError(&errorBody{})
}

// Reply answers an inbound event. Messages beyond MaxMessagesPerCall are dropped.
func (c *Client) Reply(ctx context.Context, replyToken string, messages []Message) error {
	if replyToken == "" {
		return fmt.Errorf("reply token is required")
	}
	body := map[string]interface{}{
		"replyToken": replyToken,
		"messages":   capMessages(messages),
	}
	resp, err := c.once.R().SetContext(ctx).SetBody(body).Post("/v2/bot/message/reply")
	return checkResponse(resp, err)
}

// Push sends messages to a user outside of a reply window
func (c *Client) Push(ctx context.Context, userID string, messages []Message) error {
	if userID == "" {
		return fmt.Errorf("target user id is required")
	}
	body := map[string]interface{}{
		"to":       userID,
		"messages": capMessages(messages),
	}
	resp, err := c.retrying.R().SetContext(ctx).SetBody(body).Post("/v2/bot/message/push")
	return checkResponse(resp, err)
}

// GetProfile fetches a user's public profile
func (c *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	profile := &Profile{}
	resp, err := c.retrying.R().
		SetContext(ctx).
		SetResult(profile).
		Get("/v2/bot/profile/" + url.PathEscape(userID))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return profile, nil
}

func capMessages(messages []Message) []Message {
	if len(messages) > MaxMessagesPerCall {
		return messages[:MaxMessagesPerCall]
	}
	return messages
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("failed to call messaging api: %w", err)
	}
	if resp.IsError() {
		apiErr := &APIError{StatusCode: resp.StatusCode(), Message: resp.Status()}
		if body, ok := resp.Error().(*errorBody); ok && body.Message != "" {
			apiErr.Message = body.Message
		}
		return apiErr
	}
	return nil
}

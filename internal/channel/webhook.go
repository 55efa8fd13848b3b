package channel

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/admitpath/admissions-api/internal/domain"
	"github.com/go-resty/resty/v2"
)

const defaultWebhookTimeout = 10 * time.Second

type webhookRequest struct {
	StudentID int64  `json:"studentId"`
	Channel   string `json:"channel"`
	Title     string `json:"title"`
	Message   string `json:"message"`
}

// WebhookSender posts notifications to an external gateway endpoint. It
// backs the sms and push channels, whose real delivery providers sit behind
// webhook-style HTTP APIs.
type WebhookSender struct {
	client   *resty.Client
	endpoint string
}

func NewWebhookSender(endpoint string) (*WebhookSender, error) {
	client := resty.New()
	client.SetTimeout(defaultWebhookTimeout)
	client.SetRetryCount(0)

	return NewWebhookSenderWithClient(endpoint, client)
}

func NewWebhookSenderWithClient(endpoint string, client *resty.Client) (*WebhookSender, error) {
	trimmedEndpoint := strings.TrimSpace(endpoint)
	if trimmedEndpoint == "" {
		return nil, fmt.Errorf("webhook endpoint is required")
	}
	if _, err := url.ParseRequestURI(trimmedEndpoint); err != nil {
		return nil, fmt.Errorf("invalid webhook endpoint: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("resty client is required")
	}

	if client.GetClient().Timeout == 0 {
		client.SetTimeout(defaultWebhookTimeout)
	}
	client.SetRetryCount(0)

	return &WebhookSender{
		client:   client,
		endpoint: trimmedEndpoint,
	}, nil
}

func (s *WebhookSender) Send(ctx context.Context, n domain.Notification) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("webhook sender is not initialized")
	}

	reqBody := webhookRequest{
		StudentID: n.StudentID,
		Channel:   n.Channel.String(),
		Title:     n.Title,
		Message:   n.Message,
	}

	response, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(reqBody).
		Post(s.endpoint)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	if response == nil {
		return fmt.Errorf("gateway returned empty response")
	}

	statusCode := response.StatusCode()
	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(response.String())
	if body == "" {
		return fmt.Errorf("gateway returned status %d", statusCode)
	}
	return fmt.Errorf("gateway returned status %d: %s", statusCode, body)
}

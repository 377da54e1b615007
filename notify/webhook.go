package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	cerr "github.com/Yulian302/lfusys-services-notifier/errors"
	logger "github.com/Yulian302/lfusys-services-notifier/logging"
	"github.com/Yulian302/lfusys-services-notifier/models"
	"github.com/bytedance/sonic"
)

const contentType = "application/json; charset=UTF-8"

type Notifier interface {
	Notify(ctx context.Context, msg models.NotificationMessage) (string, error)
}

type WebhookNotifierImpl struct {
	client     *http.Client
	webhookURL string

	logger logger.Logger
}

func NewWebhookNotifierImpl(client *http.Client, webhookURL string, l logger.Logger) *WebhookNotifierImpl {
	if client == nil {
		client = http.DefaultClient
	}
	return &WebhookNotifierImpl{
		client:     client,
		webhookURL: webhookURL,
		logger:     l,
	}
}

type webhookPayload struct {
	Text string `json:"text"`
}

// Notify posts {"text": <message json>} and returns the raw response body.
func (n *WebhookNotifierImpl) Notify(ctx context.Context, msg models.NotificationMessage) (string, error) {
	l := logger.FromContext(ctx, n.logger)

	text, err := msg.Text()
	if err != nil {
		return "", fmt.Errorf("failed to serialize message: %w", err)
	}

	body, err := sonic.Marshal(webhookPayload{Text: text})
	if err != nil {
		return "", fmt.Errorf("failed to serialize webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	l.Info("posting notification", "file_name", msg.FileName, "message", text)

	resp, err := n.client.Do(req)
	if err != nil {
		l.Error("webhook request failed", "error", err)
		return "", fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		l.Error("failed to read webhook response", "status", resp.StatusCode, "error", err)
		return "", fmt.Errorf("failed to read webhook response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		l.Error("webhook rejected notification", "status", resp.StatusCode, "body", string(respBody))
		return "", &cerr.WebhookStatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	l.Info("notification delivered", "status", resp.StatusCode)
	return string(respBody), nil
}

package models

import (
	"time"

	"github.com/bytedance/sonic"
)

// JST is the fixed UTC+9 zone expiration times are rendered in.
var JST = time.FixedZone("JST", 9*60*60)

type NotificationMessage struct {
	FileName           string
	ExpirationDatetime time.Time
	URL                string
}

func NewNotificationMessage(key string, link SignedLink) NotificationMessage {
	return NotificationMessage{
		FileName:           key,
		ExpirationDatetime: link.ExpiresAt,
		URL:                link.URL,
	}
}

type notificationPayload struct {
	FileName           string `json:"FileName"`
	ExpirationDatetime string `json:"expiration datetime"`
	URL                string `json:"URL"`
}

// ExpirationString is the ISO-8601 rendering of the expiry in JST.
func (m NotificationMessage) ExpirationString() string {
	return m.ExpirationDatetime.In(JST).Format(time.RFC3339)
}

func (m NotificationMessage) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(notificationPayload{
		FileName:           m.FileName,
		ExpirationDatetime: m.ExpirationString(),
		URL:                m.URL,
	})
}

// Text is the message as it is placed in the webhook "text" field.
func (m NotificationMessage) Text() (string, error) {
	b, err := m.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

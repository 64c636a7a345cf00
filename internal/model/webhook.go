package model

import (
	"fmt"
	"strings"
	"time"
)

// WebhookService identifies the payload format for a webhook endpoint.
type WebhookService string

const (
	ServiceGeneric WebhookService = "generic"
	ServiceSlack   WebhookService = "slack"
	ServiceDiscord WebhookService = "discord"
)

// Webhook represents a notification endpoint.
type Webhook struct {
	Key       string         `json:"key"`
	Name      string         `json:"name" validate:"required,max=64"`
	URL       string         `json:"url" validate:"required,url"`
	Service   WebhookService `json:"service"`
	Enabled   bool           `json:"enabled"`
	CreatedAt time.Time      `json:"created_at"`
}

// SetKey sets the database key for this webhook.
func (w *Webhook) SetKey(key string) {
	w.Key = key
}

// GetKey returns the database key for this webhook.
func (w *Webhook) GetKey() string {
	return w.Key
}

// GenerateWebhookKey generates a database key for a webhook by name.
func GenerateWebhookKey(name string) string {
	return fmt.Sprintf("%s:%s", PrefixWebhook, name)
}

// NewWebhook creates a new enabled webhook.
func NewWebhook(name, url string, service WebhookService) *Webhook {
	if service == "" {
		service = ServiceGeneric
	}
	return &Webhook{
		Key:       GenerateWebhookKey(name),
		Name:      name,
		URL:       url,
		Service:   service,
		Enabled:   true,
		CreatedAt: time.Now(),
	}
}

// DetectService guesses the webhook service from its URL.
func DetectService(url string) WebhookService {
	switch {
	case strings.Contains(url, "discord.com/api/webhooks"):
		return ServiceDiscord
	case strings.Contains(url, "hooks.slack.com"):
		return ServiceSlack
	default:
		return ServiceGeneric
	}
}

// ValidServices returns the supported webhook services.
func ValidServices() []WebhookService {
	return []WebhookService{ServiceGeneric, ServiceSlack, ServiceDiscord}
}

// IsValidService checks if a service name is supported.
func IsValidService(s string) bool {
	for _, valid := range ValidServices() {
		if WebhookService(s) == valid {
			return true
		}
	}
	return false
}

// Notification is the payload delivered to webhooks.
type Notification struct {
	Kind      string    `json:"kind"` // "reminder", "achievement"
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewNotification creates a notification payload.
func NewNotification(kind, title, message string) *Notification {
	return &Notification{
		Kind:      kind,
		Title:     title,
		Message:   message,
		Timestamp: time.Now(),
	}
}

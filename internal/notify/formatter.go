// Package notify provides notification dispatch and formatting for webhooks.
package notify

import (
	"github.com/stillpoint/breathe/internal/model"
)

// Formatter formats notifications for a specific webhook service.
type Formatter interface {
	// Format converts a notification into the service-specific payload.
	Format(n *model.Notification) ([]byte, error)

	// ContentType returns the HTTP Content-Type for the payload.
	ContentType() string
}

// GetFormatter returns the appropriate formatter for a webhook service.
func GetFormatter(service model.WebhookService) Formatter {
	switch service {
	case model.ServiceDiscord:
		return &DiscordFormatter{}
	case model.ServiceSlack:
		return &SlackFormatter{}
	default:
		return &GenericFormatter{}
	}
}

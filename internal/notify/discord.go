package notify

import (
	"encoding/json"

	"github.com/stillpoint/breathe/internal/model"
)

// DiscordFormatter formats notifications for Discord webhooks.
type DiscordFormatter struct{}

// discordPayload represents a Discord webhook payload.
type discordPayload struct {
	Embeds []discordEmbed `json:"embeds,omitempty"`
}

// discordEmbed represents a Discord embed.
type discordEmbed struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Color       int                 `json:"color,omitempty"`
	Footer      *discordEmbedFooter `json:"footer,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
}

// discordEmbedFooter represents a footer in a Discord embed.
type discordEmbedFooter struct {
	Text string `json:"text"`
}

// embedColors maps notification kinds to Discord embed colors.
var embedColors = map[string]int{
	"reminder":    0x3B82F6, // Blue
	"achievement": 0xF59E0B, // Gold
	"session":     0x10B981, // Green
}

// Format converts a notification to Discord webhook format.
func (f *DiscordFormatter) Format(n *model.Notification) ([]byte, error) {
	color, ok := embedColors[n.Kind]
	if !ok {
		color = 0x7C3AED // Purple
	}

	embed := discordEmbed{
		Title:       n.Title,
		Description: n.Message,
		Color:       color,
		Timestamp:   n.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		Footer: &discordEmbedFooter{
			Text: "Breathe",
		},
	}

	return json.Marshal(discordPayload{Embeds: []discordEmbed{embed}})
}

// ContentType returns the content type for Discord webhooks.
func (f *DiscordFormatter) ContentType() string {
	return "application/json"
}

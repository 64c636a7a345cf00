package notify

import (
	"encoding/json"

	"github.com/stillpoint/breathe/internal/model"
)

// GenericFormatter sends the notification as plain JSON, for consumers
// that parse the payload themselves.
type GenericFormatter struct{}

// genericPayload is the wire form of a generic webhook notification.
type genericPayload struct {
	Source    string `json:"source"`
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Format converts a notification to the generic JSON format.
func (f *GenericFormatter) Format(n *model.Notification) ([]byte, error) {
	payload := genericPayload{
		Source:    "breathe",
		Kind:      n.Kind,
		Title:     n.Title,
		Message:   n.Message,
		Timestamp: n.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
	}
	return json.Marshal(payload)
}

// ContentType returns the content type for generic webhooks.
func (f *GenericFormatter) ContentType() string {
	return "application/json"
}

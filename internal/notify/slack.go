package notify

import (
	"encoding/json"
	"fmt"

	"github.com/stillpoint/breathe/internal/model"
)

// SlackFormatter renders notifications with Slack's Block Kit: a
// header for the title, a section for the body, and a context line
// with the app name and time.
type SlackFormatter struct{}

type slackPayload struct {
	// Text is the fallback shown in push previews and old clients.
	Text   string       `json:"text,omitempty"`
	Blocks []slackBlock `json:"blocks,omitempty"`
}

type slackBlock struct {
	Type string          `json:"type"`
	Text *slackBlockText `json:"text,omitempty"`
}

type slackBlockText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (f *SlackFormatter) Format(n *model.Notification) ([]byte, error) {
	payload := slackPayload{
		Text: fmt.Sprintf("*%s*", n.Title),
		Blocks: []slackBlock{
			{
				Type: "header",
				Text: &slackBlockText{Type: "plain_text", Text: n.Title},
			},
			{
				Type: "section",
				Text: &slackBlockText{Type: "mrkdwn", Text: n.Message},
			},
			{
				Type: "context",
				Text: &slackBlockText{
					Type: "mrkdwn",
					Text: fmt.Sprintf("Breathe | %s", n.Timestamp.Format("Jan 2, 3:04 PM")),
				},
			},
		},
	}
	return json.Marshal(payload)
}

func (f *SlackFormatter) ContentType() string {
	return "application/json"
}

package scheduler

import (
	"context"
	"fmt"
	"time"

	goslack "github.com/slack-go/slack"
)

// sendTimeout bounds a single dispatch call, matching the teacher's
// pkg/slack/client.go PostMessage timeout pattern.
const sendTimeout = 10 * time.Second

// SlackDispatcher delivers reminders to a single fixed Slack channel,
// grounded on the teacher's pkg/slack/client.go Client. It stands in
// for "the transport layer" spec.md §6 treats as an external
// collaborator — a deployment targeting Telegram or another transport
// supplies its own Dispatcher instead.
type SlackDispatcher struct {
	api       *goslack.Client
	channelID string
}

// NewSlackDispatcher builds a Dispatcher backed by slack-go/slack.
func NewSlackDispatcher(token, channelID string) *SlackDispatcher {
	return &SlackDispatcher{api: goslack.New(token), channelID: channelID}
}

// Send implements Dispatcher. userID is folded into the message text
// since this channel-based transport has no per-user DM routing wired
// up — a deployment needing that maps userID to a Slack user/DM
// channel in its own Dispatcher implementation instead.
func (d *SlackDispatcher) Send(ctx context.Context, userID int64, text string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, _, err := d.api.PostMessageContext(ctx, d.channelID,
		goslack.MsgOptionText(fmt.Sprintf("[user %d] %s", userID, text), false),
	)
	if err != nil {
		return fmt.Errorf("chat.postMessage failed: %w", err)
	}
	return nil
}

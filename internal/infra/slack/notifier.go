// Package slack delivers reports to a Slack channel.
package slack

import (
	"context"
	"fmt"

	"presence_report_bot/internal/domain/chat"

	"github.com/slack-go/slack"
)

// Client is the subset of *slack.Client used here.
type Client interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	UpdateMessageContext(ctx context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error)
}

// Notifier implements chat.Notifier; a message handle is the channel plus the
// message timestamp Slack returns.
type Notifier struct {
	client    Client
	channelID string
}

func NewNotifier(client Client, channelID string) *Notifier {
	return &Notifier{client: client, channelID: channelID}
}

func (n *Notifier) Post(ctx context.Context, text string) (chat.MessageHandle, error) {
	channel, timestamp, err := n.client.PostMessageContext(
		ctx,
		n.channelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionAsUser(false),
	)
	if err != nil {
		return chat.MessageHandle{}, fmt.Errorf("%w: %v", chat.ErrDeliveryFailed, err)
	}
	return chat.MessageHandle{ChannelID: channel, MessageID: timestamp}, nil
}

func (n *Notifier) Edit(ctx context.Context, handle chat.MessageHandle, text string) error {
	_, _, _, err := n.client.UpdateMessageContext(ctx, handle.ChannelID, handle.MessageID, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("%w: %v", chat.ErrDeliveryFailed, err)
	}
	return nil
}

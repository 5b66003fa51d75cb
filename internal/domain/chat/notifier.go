package chat

import (
	"context"
	"errors"
)

// ErrDeliveryFailed is wrapped by every Notifier failure.
var ErrDeliveryFailed = errors.New("message delivery failed")

// MessageHandle identifies a delivered message so it can be edited later.
// Only the Notifier that produced it knows how to interpret the fields.
type MessageHandle struct {
	ChannelID string
	MessageID string
}

// Notifier posts to, and edits messages in, one fixed destination channel.
// This keeps the report pipeline independent of the chat platform library.
type Notifier interface {
	Post(ctx context.Context, text string) (MessageHandle, error)
	Edit(ctx context.Context, handle MessageHandle, text string) error
}

// internal/infra/telegram/client.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"presence_report_bot/internal/domain/chat"

	"gopkg.in/telebot.v3"
)

// messenger is the part of *telebot.Bot the adapter needs.
type messenger interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
	Edit(msg telebot.Editable, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// TelebotAdapter implements chat.Notifier for one Telegram chat.
type TelebotAdapter struct {
	bot    messenger
	chatID int64
}

func NewTelebotAdapter(b messenger, chatID int64) *TelebotAdapter {
	return &TelebotAdapter{bot: b, chatID: chatID}
}

// Post sends text to the report chat.
func (tba *TelebotAdapter) Post(ctx context.Context, text string) (chat.MessageHandle, error) {
	if err := ctx.Err(); err != nil {
		return chat.MessageHandle{}, fmt.Errorf("%w: %v", chat.ErrDeliveryFailed, err)
	}

	msg, err := tba.bot.Send(telebot.ChatID(tba.chatID), text, &telebot.SendOptions{ParseMode: telebot.ModeDefault})
	if err != nil {
		return chat.MessageHandle{}, fmt.Errorf("%w: %v", chat.ErrDeliveryFailed, err)
	}

	messageID, chatID := msg.MessageSig()
	return chat.MessageHandle{ChannelID: strconv.FormatInt(chatID, 10), MessageID: messageID}, nil
}

// Edit replaces the text of a message previously returned by Post.
// Re-sending identical content is not an error.
func (tba *TelebotAdapter) Edit(ctx context.Context, handle chat.MessageHandle, text string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", chat.ErrDeliveryFailed, err)
	}

	chatID, err := strconv.ParseInt(handle.ChannelID, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid chat id %q in handle", chat.ErrDeliveryFailed, handle.ChannelID)
	}

	stored := telebot.StoredMessage{MessageID: handle.MessageID, ChatID: chatID}
	if _, err := tba.bot.Edit(stored, text); err != nil {
		if errors.Is(err, telebot.ErrSameMessageContent) {
			return nil
		}
		return fmt.Errorf("%w: %v", chat.ErrDeliveryFailed, err)
	}
	return nil
}

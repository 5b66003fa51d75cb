// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"
	"time"

	"presence_report_bot/internal/domain/chat"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const (
	pingReply        = "Presence bot is up and running!"
	fetchFailedReply = "Could not fetch attendance right now. Please try again later."
	reportPostedText = "Presence report posted to the report channel."

	commandTimeout = time.Minute
)

// Reporter renders the two report shapes.
type Reporter interface {
	FullReport(ctx context.Context) (string, error)
	PresentReport(ctx context.Context) (string, error)
}

// RegisterBotCommands wires the on-demand commands. None of them touch the
// scheduler's pending report.
func RegisterBotCommands(b *telebot.Bot, reports Reporter, notifier chat.Notifier, baseLogger *logrus.Entry) {
	logger := baseLogger.WithField("handler_group", "commands")

	b.Handle("/ping", pingHandler(logger))
	b.Handle("/presence_list", presenceListHandler(reports, logger))
	b.Handle("/report_now", reportNowHandler(reports, notifier, logger))
}

func pingHandler(logger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		commandLogger(logger, c, "/ping").Info("Command received")
		return c.Send(pingReply)
	}
}

func presenceListHandler(reports Reporter, logger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		logCtx := commandLogger(logger, c, "/presence_list")
		logCtx.Info("Command received")

		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		text, err := reports.PresentReport(ctx)
		if err != nil {
			logCtx.WithError(err).Error("Failed to build attendance report")
			return c.Send(fetchFailedReply)
		}
		return c.Send(text)
	}
}

func reportNowHandler(reports Reporter, notifier chat.Notifier, logger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		logCtx := commandLogger(logger, c, "/report_now")
		logCtx.Info("Command received")

		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		text, err := reports.FullReport(ctx)
		if err != nil {
			logCtx.WithError(err).Error("Failed to build presence report")
			return c.Send(fetchFailedReply)
		}

		handle, err := notifier.Post(ctx, text)
		if err != nil {
			logCtx.WithError(err).Error("Failed to post presence report")
			return c.Send("Could not post the presence report.")
		}
		logCtx.WithField("message_id", handle.MessageID).Info("On-demand presence report posted")
		return c.Send(reportPostedText)
	}
}

func commandLogger(logger *logrus.Entry, c telebot.Context, command string) *logrus.Entry {
	entry := logger.WithField("command", command)
	if sender := c.Sender(); sender != nil {
		entry = entry.WithField("sender_id", sender.ID)
	}
	return entry
}

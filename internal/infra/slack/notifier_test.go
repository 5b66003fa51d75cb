package slack

import (
	"context"
	"errors"
	"testing"

	"presence_report_bot/internal/domain/chat"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	args := m.Called(ctx, channelID, len(options))
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockClient) UpdateMessageContext(ctx context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error) {
	args := m.Called(ctx, channelID, timestamp, len(options))
	return args.String(0), args.String(1), args.String(2), args.Error(3)
}

func TestNotifier_Post(t *testing.T) {
	client := &mockClient{}
	client.On("PostMessageContext", mock.Anything, "C123", 2).Return("C123", "1704110400.000100", nil).Once()

	handle, err := NewNotifier(client, "C123").Post(context.Background(), "report")
	require.NoError(t, err)

	assert.Equal(t, chat.MessageHandle{ChannelID: "C123", MessageID: "1704110400.000100"}, handle)
	client.AssertExpectations(t)
}

func TestNotifier_Post_error(t *testing.T) {
	client := &mockClient{}
	client.On("PostMessageContext", mock.Anything, "C123", 2).Return("", "", errors.New("channel_not_found")).Once()

	_, err := NewNotifier(client, "C123").Post(context.Background(), "report")

	assert.ErrorIs(t, err, chat.ErrDeliveryFailed)
	assert.Contains(t, err.Error(), "channel_not_found")
}

func TestNotifier_Edit(t *testing.T) {
	client := &mockClient{}
	client.On("UpdateMessageContext", mock.Anything, "C123", "1704110400.000100", 1).Return("C123", "1704110400.000100", "report", nil).Once()
	n := NewNotifier(client, "C999")

	err := n.Edit(context.Background(), chat.MessageHandle{ChannelID: "C123", MessageID: "1704110400.000100"}, "report")
	require.NoError(t, err)
	client.AssertExpectations(t)

	client.On("UpdateMessageContext", mock.Anything, "C123", "1", 1).Return("", "", "", errors.New("message_not_found")).Once()
	err = n.Edit(context.Background(), chat.MessageHandle{ChannelID: "C123", MessageID: "1"}, "report")
	assert.ErrorIs(t, err, chat.ErrDeliveryFailed)
}

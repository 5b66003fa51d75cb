package telegram

import (
	"context"
	"errors"
	"testing"

	"presence_report_bot/internal/domain/attendance"
	"presence_report_bot/internal/domain/chat"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

// fakeContext implements only the telebot.Context methods the handlers call.
type fakeContext struct {
	telebot.Context
	sender *telebot.User
	sent   []interface{}
}

func (c *fakeContext) Sender() *telebot.User { return c.sender }

func (c *fakeContext) Send(what interface{}, _ ...interface{}) error {
	c.sent = append(c.sent, what)
	return nil
}

type mockReporter struct {
	mock.Mock
}

func (m *mockReporter) FullReport(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockReporter) PresentReport(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Post(ctx context.Context, text string) (chat.MessageHandle, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(chat.MessageHandle), args.Error(1)
}

func (m *mockNotifier) Edit(ctx context.Context, handle chat.MessageHandle, text string) error {
	return m.Called(ctx, handle, text).Error(0)
}

func testLogger() (*logrus.Entry, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return logrus.NewEntry(logger), hook
}

func TestPingHandler(t *testing.T) {
	logger, hook := testLogger()
	c := &fakeContext{sender: &telebot.User{ID: 7}}

	require.NoError(t, pingHandler(logger)(c))

	assert.Equal(t, []interface{}{pingReply}, c.sent)
	assert.Equal(t, int64(7), hook.LastEntry().Data["sender_id"])
}

func TestPresenceListHandler(t *testing.T) {
	t.Run("Should reply with the present list", func(t *testing.T) {
		logger, _ := testLogger()
		reports := &mockReporter{}
		reports.On("PresentReport", mock.Anything).Return("# Attendance Report - 01 January 2024\n", nil).Once()
		c := &fakeContext{}

		require.NoError(t, presenceListHandler(reports, logger)(c))

		assert.Equal(t, []interface{}{"# Attendance Report - 01 January 2024\n"}, c.sent)
		reports.AssertExpectations(t)
	})

	t.Run("Should reply with a failure text when the fetch fails", func(t *testing.T) {
		logger, hook := testLogger()
		reports := &mockReporter{}
		reports.On("PresentReport", mock.Anything).Return("", attendance.ErrFetchFailed).Once()
		c := &fakeContext{sender: &telebot.User{ID: 7}}

		require.NoError(t, presenceListHandler(reports, logger)(c))

		assert.Equal(t, []interface{}{fetchFailedReply}, c.sent)
		assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	})
}

func TestReportNowHandler(t *testing.T) {
	t.Run("Should post the full report to the report channel", func(t *testing.T) {
		logger, _ := testLogger()
		reports := &mockReporter{}
		reports.On("FullReport", mock.Anything).Return("report", nil).Once()
		notifier := &mockNotifier{}
		notifier.On("Post", mock.Anything, "report").Return(chat.MessageHandle{ChannelID: "1", MessageID: "9"}, nil).Once()
		c := &fakeContext{}

		require.NoError(t, reportNowHandler(reports, notifier, logger)(c))

		assert.Equal(t, []interface{}{reportPostedText}, c.sent)
		notifier.AssertExpectations(t)
		notifier.AssertNotCalled(t, "Edit", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should not post when the fetch fails", func(t *testing.T) {
		logger, _ := testLogger()
		reports := &mockReporter{}
		reports.On("FullReport", mock.Anything).Return("", attendance.ErrFetchFailed).Once()
		notifier := &mockNotifier{}
		c := &fakeContext{}

		require.NoError(t, reportNowHandler(reports, notifier, logger)(c))

		assert.Equal(t, []interface{}{fetchFailedReply}, c.sent)
		notifier.AssertNotCalled(t, "Post", mock.Anything, mock.Anything)
	})

	t.Run("Should report delivery failures", func(t *testing.T) {
		logger, _ := testLogger()
		reports := &mockReporter{}
		reports.On("FullReport", mock.Anything).Return("report", nil).Once()
		notifier := &mockNotifier{}
		notifier.On("Post", mock.Anything, "report").Return(chat.MessageHandle{}, errors.New("down")).Once()
		c := &fakeContext{}

		require.NoError(t, reportNowHandler(reports, notifier, logger)(c))

		assert.Equal(t, []interface{}{"Could not post the presence report."}, c.sent)
	})
}

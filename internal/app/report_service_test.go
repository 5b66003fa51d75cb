package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"presence_report_bot/internal/domain/attendance"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchAttendance(ctx context.Context, date time.Time) ([]attendance.MemberRecord, error) {
	args := m.Called(ctx, date)
	records, _ := args.Get(0).([]attendance.MemberRecord)
	return records, args.Error(1)
}

var kolkata = time.FixedZone("IST", 5*3600+1800)

func newTestService(t *testing.T, fetcher attendance.Fetcher, now time.Time) *ReportService {
	t.Helper()
	logger, _ := test.NewNullLogger()
	s := NewReportService(fetcher, kolkata, logrus.NewEntry(logger))
	s.now = func() time.Time { return now }
	return s
}

func TestReportService_FullReport(t *testing.T) {
	// 13:05 UTC is 18:35 IST.
	now := time.Date(2024, time.January, 1, 13, 5, 0, 0, time.UTC)
	fetcher := &mockFetcher{}
	fetcher.On("FetchAttendance", mock.Anything, mock.MatchedBy(func(d time.Time) bool {
		return d.Location() == kolkata && d.Hour() == 18 && d.Minute() == 35
	})).Return([]attendance.MemberRecord{
		{Name: "Anu", CheckIn: "17:50", CheckOut: attendance.AbsentMarker},
		{Name: "Ravi", CheckIn: "17:00", CheckOut: "18:30"},
	}, nil).Once()

	got, err := newTestService(t, fetcher, now).FullReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "# Presence Report - 01 January 2024\n\n## Absent\n1. Anu\n", got)
	fetcher.AssertExpectations(t)
}

func TestReportService_PresentReport(t *testing.T) {
	now := time.Date(2024, time.January, 1, 13, 5, 0, 0, time.UTC)
	fetcher := &mockFetcher{}
	fetcher.On("FetchAttendance", mock.Anything, mock.Anything).Return([]attendance.MemberRecord{
		{Name: "Anu", CheckIn: "17:50", CheckOut: attendance.AbsentMarker},
		{Name: "Ravi", CheckIn: "17:00", CheckOut: "18:30"},
		{Name: "Meera", CheckIn: "17:55", CheckOut: "18:20"},
	}, nil)

	got, err := newTestService(t, fetcher, now).PresentReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "# Attendance Report - 01 January 2024\n\n## Present\n1. Ravi\n2. Meera\n", got)
}

func TestReportService_dateIsLocal(t *testing.T) {
	// 20:00 UTC on the 1st is already the 2nd in IST.
	now := time.Date(2024, time.January, 1, 20, 0, 0, 0, time.UTC)
	fetcher := &mockFetcher{}
	fetcher.On("FetchAttendance", mock.Anything, mock.Anything).Return([]attendance.MemberRecord{}, nil)

	got, err := newTestService(t, fetcher, now).FullReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "# Presence Report - 02 January 2024\n", got)
}

func TestReportService_fetchError(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("FetchAttendance", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: boom", attendance.ErrFetchFailed))
	s := newTestService(t, fetcher, time.Now())

	full, err := s.FullReport(context.Background())
	assert.Empty(t, full)
	assert.True(t, errors.Is(err, attendance.ErrFetchFailed))

	present, err := s.PresentReport(context.Background())
	assert.Empty(t, present)
	assert.ErrorIs(t, err, attendance.ErrFetchFailed)
}

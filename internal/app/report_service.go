// internal/app/report_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"presence_report_bot/internal/domain/attendance"
	"presence_report_bot/internal/domain/report"

	"github.com/sirupsen/logrus"
)

// ReportService runs the fetch → classify → render pipeline. It holds no
// per-call state and is safe for concurrent use by the scheduler and
// command handlers.
type ReportService struct {
	fetcher  attendance.Fetcher
	location *time.Location
	now      func() time.Time
	logger   *logrus.Entry
}

func NewReportService(fetcher attendance.Fetcher, location *time.Location, logger *logrus.Entry) *ReportService {
	return &ReportService{
		fetcher:  fetcher,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// FullReport lists today's absentees and late arrivals.
func (s *ReportService) FullReport(ctx context.Context) (string, error) {
	now, roster, err := s.roster(ctx)
	if err != nil {
		return "", err
	}
	s.logger.WithFields(logrus.Fields{
		"absent": len(roster.Absent),
		"late":   len(roster.Late),
	}).Info("Presence report generated")
	return report.Full(now, roster.Absent, roster.Late), nil
}

// PresentReport lists the members currently in.
func (s *ReportService) PresentReport(ctx context.Context) (string, error) {
	now, roster, err := s.roster(ctx)
	if err != nil {
		return "", err
	}
	s.logger.WithField("present", len(roster.Present)).Info("Attendance report generated")
	return report.PresentOnly(now, roster.Present), nil
}

func (s *ReportService) roster(ctx context.Context) (time.Time, attendance.Roster, error) {
	now := s.now().In(s.location)

	records, err := s.fetcher.FetchAttendance(ctx, now)
	if err != nil {
		return now, attendance.Roster{}, fmt.Errorf("failed to fetch attendance: %w", err)
	}
	return now, attendance.NewRoster(records, now, s.logger), nil
}

package scheduler

import (
	"context"
	"fmt"
	"time"

	"presence_report_bot/internal/domain/chat"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	defaultTickInterval = time.Minute
	actionTimeout       = 2 * time.Minute
)

// State is the scheduler's position in the daily post → edit cycle.
type State string

const (
	StateIdle               State = "IDLE"
	StateAwaitingEditWindow State = "AWAITING_EDIT_WINDOW"
)

// ReportGenerator renders the full presence report.
type ReportGenerator interface {
	FullReport(ctx context.Context) (string, error)
}

type pendingReport struct {
	handle chat.MessageHandle
	day    string // local date the report was posted on
}

// ReportScheduler posts the daily report at the post trigger and edits that
// same message at the edit trigger. Everything below the config fields is
// owned by the run goroutine.
type ReportScheduler struct {
	reports       ReportGenerator
	notifier      chat.Notifier
	location      *time.Location
	postSchedule  cron.Schedule
	editSchedule  cron.Schedule
	catchUpWindow time.Duration
	tickInterval  time.Duration
	now           func() time.Time
	logger        *logrus.Entry

	nextPost time.Time
	nextEdit time.Time
	pending  *pendingReport

	stopChan chan struct{}
	done     chan struct{}
	running  bool
}

func NewReportScheduler(
	reports ReportGenerator,
	notifier chat.Notifier,
	location *time.Location,
	cronSpecPost string, // e.g., "0 18 * * *"
	cronSpecEdit string, // e.g., "0 19 * * *"
	catchUpWindow time.Duration,
	logger *logrus.Entry,
) (*ReportScheduler, error) {
	postSchedule, err := cron.ParseStandard(cronSpecPost)
	if err != nil {
		return nil, fmt.Errorf("invalid post schedule %q: %w", cronSpecPost, err)
	}
	editSchedule, err := cron.ParseStandard(cronSpecEdit)
	if err != nil {
		return nil, fmt.Errorf("invalid edit schedule %q: %w", cronSpecEdit, err)
	}

	return &ReportScheduler{
		reports:       reports,
		notifier:      notifier,
		location:      location,
		postSchedule:  postSchedule,
		editSchedule:  editSchedule,
		catchUpWindow: catchUpWindow,
		tickInterval:  defaultTickInterval,
		now:           time.Now,
		logger:        logger,
		stopChan:      make(chan struct{}),
		done:          make(chan struct{}),
	}, nil
}

func (s *ReportScheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.logger.Info("Starting report scheduler...")
	go s.run()
}

// Stop ends the tick loop and waits for an in-flight tick to finish.
func (s *ReportScheduler) Stop() {
	if !s.running {
		return
	}
	s.logger.Info("Stopping report scheduler...")
	close(s.stopChan)
	<-s.done
	s.running = false
	s.logger.Info("Report scheduler gracefully stopped.")
}

func (s *ReportScheduler) run() {
	defer close(s.done)

	s.arm(s.now())

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
			s.tick(ctx, s.now())
			cancel()
		case <-s.stopChan:
			return
		}
	}
}

// arm computes the first fire time of both triggers.
func (s *ReportScheduler) arm(now time.Time) {
	now = now.In(s.location)
	s.nextPost = s.postSchedule.Next(now)
	s.nextEdit = s.editSchedule.Next(now)
	s.logger.WithFields(logrus.Fields{
		"next_post": s.nextPost.Format(time.RFC3339),
		"next_edit": s.nextEdit.Format(time.RFC3339),
	}).Info("Report triggers armed")
}

func (s *ReportScheduler) tick(ctx context.Context, now time.Time) {
	now = now.In(s.location)
	s.expireStaleReport(now)

	if s.fire(&s.nextPost, s.postSchedule, now, "post") {
		s.postReport(ctx, now)
	}
	if s.fire(&s.nextEdit, s.editSchedule, now, "edit") {
		s.editReport(ctx)
	}
}

// fire reports whether the trigger is due at now and, if so, advances it past
// now so it cannot fire again for the same occurrence. Occurrences missed by
// more than the catch-up window are dropped.
func (s *ReportScheduler) fire(next *time.Time, schedule cron.Schedule, now time.Time, trigger string) bool {
	if now.Before(*next) {
		return false
	}
	due := *next
	*next = schedule.Next(now)

	if lateness := now.Sub(due); lateness > s.catchUpWindow {
		s.logger.WithFields(logrus.Fields{
			"trigger":  trigger,
			"due":      due.Format(time.RFC3339),
			"lateness": lateness.String(),
		}).Warn("Trigger missed by more than the catch-up window, skipping")
		return false
	}
	return true
}

func (s *ReportScheduler) expireStaleReport(now time.Time) {
	if s.pending == nil || s.pending.day == dayKey(now) {
		return
	}
	s.logger.WithField("posted_on", s.pending.day).Info("Dropping previous day's report handle")
	s.pending = nil
}

func (s *ReportScheduler) postReport(ctx context.Context, now time.Time) {
	s.pending = nil

	text, err := s.reports.FullReport(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to generate presence report, skipping post")
		return
	}

	handle, err := s.notifier.Post(ctx, text)
	if err != nil {
		s.logger.WithError(err).Error("Failed to post presence report")
		return
	}

	s.pending = &pendingReport{handle: handle, day: dayKey(now)}
	s.logger.WithField("message_id", handle.MessageID).Info("Presence report posted")
}

func (s *ReportScheduler) editReport(ctx context.Context) {
	if s.pending == nil {
		s.logger.Debug("No presence report posted today, nothing to edit")
		return
	}

	text, err := s.reports.FullReport(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to generate presence report, skipping edit")
		return
	}

	if err := s.notifier.Edit(ctx, s.pending.handle, text); err != nil {
		s.logger.WithError(err).WithField("message_id", s.pending.handle.MessageID).Error("Failed to edit presence report")
		return
	}

	s.logger.WithField("message_id", s.pending.handle.MessageID).Info("Presence report updated")
	s.pending = nil
}

func (s *ReportScheduler) state() State {
	if s.pending != nil {
		return StateAwaitingEditWindow
	}
	return StateIdle
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

package upstream

import (
	"context"
	"fmt"
	"time"

	"presence_report_bot/internal/domain/attendance"
	"presence_report_bot/internal/domain/member"

	"github.com/sirupsen/logrus"
)

const (
	rawZeroTime = "00:00:00"
	invalidTime = "Invalid Time"
)

// Fetcher implements attendance.Fetcher by joining today's attendance rows
// with the member directory.
type Fetcher struct {
	client *Client
	cache  member.Repository // nil disables the cache
	logger *logrus.Entry
}

func NewFetcher(client *Client, cache member.Repository, logger *logrus.Entry) *Fetcher {
	return &Fetcher{client: client, cache: cache, logger: logger}
}

func (f *Fetcher) FetchAttendance(ctx context.Context, date time.Time) ([]attendance.MemberRecord, error) {
	members, err := f.members(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}

	rows, err := f.client.fetchAttendanceRows(ctx, date)
	if err != nil {
		return nil, err
	}

	records := make([]attendance.MemberRecord, 0, len(rows))
	for _, row := range rows {
		name, ok := names[row.ID]
		if !ok {
			f.logger.WithField("member_id", row.ID).Warn("Attendance row for unknown member, skipping")
			continue
		}
		records = append(records, toRecord(name, row))
	}

	f.logger.WithFields(logrus.Fields{
		"date":    date.Format("2006-01-02"),
		"records": len(records),
	}).Debug("Attendance fetched")
	return records, nil
}

// members prefers the live directory and refreshes the cache from it; the
// cache is only read when the live query fails.
func (f *Fetcher) members(ctx context.Context) ([]member.Member, error) {
	members, err := f.client.FetchMembers(ctx)
	if err == nil {
		if f.cache != nil {
			if cacheErr := f.cache.UpsertAll(ctx, members); cacheErr != nil {
				f.logger.WithError(cacheErr).Warn("Failed to refresh member cache")
			}
		}
		return members, nil
	}

	if f.cache == nil {
		return nil, err
	}
	f.logger.WithError(err).Warn("Member directory unavailable, using cached members")
	cached, cacheErr := f.cache.ListAll(ctx)
	if cacheErr != nil {
		return nil, fmt.Errorf("%w: member cache: %v", attendance.ErrFetchFailed, cacheErr)
	}
	return cached, nil
}

func toRecord(name string, row attendanceRow) attendance.MemberRecord {
	rawIn := valueOrZero(row.TimeIn)
	rawOut := valueOrZero(row.TimeOut)

	rec := attendance.MemberRecord{
		Name:     name,
		CheckIn:  normalizeTime(rawIn),
		CheckOut: normalizeTime(rawOut),
	}
	if rawOut == rawZeroTime {
		rec.CheckOut = attendance.AbsentMarker
	}
	return rec
}

func valueOrZero(v *string) string {
	if v == nil || *v == "" {
		return rawZeroTime
	}
	return *v
}

// normalizeTime turns "HH:MM:SS[.fff]" into "HH:MM".
func normalizeTime(raw string) string {
	t, err := time.Parse("15:04:05", raw)
	if err != nil {
		return invalidTime
	}
	return t.Format("15:04")
}

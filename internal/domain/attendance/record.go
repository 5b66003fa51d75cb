// internal/domain/attendance/record.go
package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// AbsentMarker is the check-out value of a member with no check-out recorded today.
	AbsentMarker = "Absent"
	// rawAbsentMarker is how the upstream API reports a missing time.
	rawAbsentMarker = "00:00:00"
)

// ErrFetchFailed is wrapped by every Fetcher failure (transport, status, payload).
var ErrFetchFailed = errors.New("attendance fetch failed")

// MemberRecord is one member's raw attendance for the current day.
type MemberRecord struct {
	Name     string
	CheckIn  string // "HH:MM" or AbsentMarker
	CheckOut string // "HH:MM" or AbsentMarker
}

// IsAbsentMarker reports whether a raw time value means "not recorded".
func IsAbsentMarker(value string) bool {
	return value == AbsentMarker || value == rawAbsentMarker
}

// Fetcher supplies attendance records for a local calendar date.
// Implementations must be safe for concurrent use.
type Fetcher interface {
	FetchAttendance(ctx context.Context, date time.Time) ([]MemberRecord, error)
}

// ParseError describes a single malformed time field of one member.
type ParseError struct {
	Member string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("member %q: cannot parse %s %q: %v", e.Member, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

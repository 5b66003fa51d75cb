// internal/domain/attendance/classifier.go
package attendance

import (
	"errors"
	"time"
)

// Status is the attendance outcome of one member.
type Status string

const (
	StatusAbsent  Status = "ABSENT"
	StatusLate    Status = "LATE"
	StatusPresent Status = "PRESENT"
)

const (
	// LateAfter is the local time-of-day after which a check-in counts as late.
	LateAfter = 17*time.Hour + 45*time.Minute
	// TimeoutThreshold is how long after check-out a member counts as absent again.
	TimeoutThreshold = 30 * time.Minute
)

// Classification is the outcome of Classify for one record.
type Classification struct {
	Status Status
	// TimedOut is set when the member checked out more than TimeoutThreshold before now.
	TimedOut bool
}

// Classify decides the status of rec at now. now must already be in the
// report's time zone; only its time-of-day is used.
//
// Malformed time fields never abort classification: the affected flag keeps
// its non-triggering value and the returned error (one *ParseError per field,
// joined) says which fields were skipped.
func Classify(rec MemberRecord, now time.Time) (Classification, error) {
	if IsAbsentMarker(rec.CheckOut) {
		return Classification{Status: StatusAbsent}, nil
	}

	var errs []error
	result := Classification{Status: StatusPresent}

	checkIn, err := parseClock(rec.CheckIn)
	if err != nil {
		errs = append(errs, &ParseError{Member: rec.Name, Field: "check-in", Value: rec.CheckIn, Err: err})
	} else if checkIn > LateAfter {
		result.Status = StatusLate
	}

	checkOut, err := parseClock(rec.CheckOut)
	if err != nil {
		errs = append(errs, &ParseError{Member: rec.Name, Field: "check-out", Value: rec.CheckOut, Err: err})
	} else if clockOf(now)-checkOut > TimeoutThreshold {
		result.TimedOut = true
	}

	return result, errors.Join(errs...)
}

var clockLayouts = []string{"15:04", "15:04:05"}

// parseClock returns the offset from midnight of an "HH:MM" (or "HH:MM:SS") value.
func parseClock(value string) (time.Duration, error) {
	var firstErr error
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return clockOf(t), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return 0, firstErr
}

func clockOf(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}

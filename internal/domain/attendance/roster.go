// internal/domain/attendance/roster.go
package attendance

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Roster holds member names partitioned by outcome, in fetch order.
type Roster struct {
	Absent  []string
	Late    []string
	Present []string
}

// NewRoster classifies every record at now. Parse failures are logged per
// member and do not stop the batch.
func NewRoster(records []MemberRecord, now time.Time, logger *logrus.Entry) Roster {
	var roster Roster
	absentSeen := make(map[string]struct{})
	lateSeen := make(map[string]struct{})
	presentSeen := make(map[string]struct{})

	for _, rec := range records {
		c, err := Classify(rec, now)
		if err != nil {
			logger.WithError(err).WithField("member", rec.Name).Error("Could not parse attendance time, flag skipped")
		}

		switch c.Status {
		case StatusAbsent:
			roster.Absent = appendOnce(roster.Absent, absentSeen, rec.Name)
			continue
		case StatusLate:
			roster.Late = appendOnce(roster.Late, lateSeen, rec.Name)
		}
		roster.Present = appendOnce(roster.Present, presentSeen, rec.Name)

		if c.TimedOut {
			roster.Absent = appendOnce(roster.Absent, absentSeen, rec.Name)
		}
	}
	return roster
}

func appendOnce(list []string, seen map[string]struct{}, name string) []string {
	if _, ok := seen[name]; ok {
		return list
	}
	seen[name] = struct{}{}
	return append(list, name)
}

// Package report renders attendance rosters as chat-ready text.
package report

import (
	"fmt"
	"strings"
	"time"
)

const (
	FullTitle    = "Presence Report"
	PresentTitle = "Attendance Report"

	dateLayout = "02 January 2006"
)

// Section is a headed, numbered list of member names.
type Section struct {
	Heading string
	Names   []string
}

// Render produces the report text. Sections without names are omitted,
// heading included.
func Render(title string, date time.Time, sections ...Section) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# %s - %s\n", title, date.Format(dateLayout)))

	for _, section := range sections {
		if len(section.Names) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("\n## %s\n", section.Heading))
		for i, name := range section.Names {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, name))
		}
	}
	return b.String()
}

// Full is the scheduled report listing absentees and late arrivals.
func Full(date time.Time, absent, late []string) string {
	return Render(FullTitle, date,
		Section{Heading: "Absent", Names: absent},
		Section{Heading: "Late", Names: late},
	)
}

// PresentOnly lists the members currently in.
func PresentOnly(date time.Time, present []string) string {
	return Render(PresentTitle, date, Section{Heading: "Present", Names: present})
}

package programs

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	icsProdID  = "-//coachlab//Training Calendar//EN"
	icsLineMax = 75
)

// calendarNamespace scopes workout UIDs so re-exports of the same workout keep their identity.
var calendarNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://coachlab/workouts"))

// WorkoutUID is stable for a given workout id.
func WorkoutUID(workoutID int) string {
	return uuid.NewSHA1(calendarNamespace, []byte(fmt.Sprintf("workout-%d", workoutID))).String() + "@coachlab"
}

// Calendar renders the program workouts as an iCalendar document of all-day events.
func Calendar(p *Program, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("BEGIN:VCALENDAR\r\n")
	sb.WriteString("VERSION:2.0\r\n")
	writeLine(&sb, "PRODID:"+icsProdID)
	sb.WriteString("CALSCALE:GREGORIAN\r\n")
	sb.WriteString("METHOD:PUBLISH\r\n")
	writeLine(&sb, "X-WR-CALNAME:"+escapeICS(p.Name))

	stamp := now.UTC().Format("20060102T150405Z")
	for _, w := range p.Workouts {
		start := day(w.ScheduledDate)
		sb.WriteString("BEGIN:VEVENT\r\n")
		writeLine(&sb, "UID:"+WorkoutUID(w.ID))
		sb.WriteString("DTSTAMP:" + stamp + "\r\n")
		sb.WriteString("DTSTART;VALUE=DATE:" + start.Format("20060102") + "\r\n")
		sb.WriteString("DTEND;VALUE=DATE:" + start.AddDate(0, 0, 1).Format("20060102") + "\r\n")
		writeLine(&sb, "SUMMARY:"+escapeICS(w.Title))

		description := w.Description
		if w.DurationMinutes > 0 {
			if description != "" {
				description += "\n"
			}
			description += fmt.Sprintf("Duration: %d min", w.DurationMinutes)
		}
		if description != "" {
			writeLine(&sb, "DESCRIPTION:"+escapeICS(description))
		}
		sb.WriteString("STATUS:" + eventStatus(w.Status) + "\r\n")
		sb.WriteString("END:VEVENT\r\n")
	}

	sb.WriteString("END:VCALENDAR\r\n")
	return sb.String()
}

func eventStatus(s Status) string {
	switch s {
	case StatusScheduled, StatusCompleted:
		return "CONFIRMED"
	case StatusMissed:
		return "CANCELLED"
	default:
		return "TENTATIVE"
	}
}

func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	// a lone CR is a line break too
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// writeLine folds content lines longer than 75 octets, never splitting a rune.
func writeLine(sb *strings.Builder, line string) {
	limit := icsLineMax
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		sb.WriteString(line[:cut])
		sb.WriteString("\r\n ")
		line = line[cut:]
		// continuation lines start with a space
		limit = icsLineMax - 1
	}
	sb.WriteString(line)
	sb.WriteString("\r\n")
}

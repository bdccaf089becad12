// Package ics renders reading plans as an iCalendar feed.
package ics

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"readplan/internal/planner"
)

// DefaultTimeZone is the zone label written in the calendar header
const DefaultTimeZone = "Europe/Madrid"

const timestampLayout = "20060102T150405"

// Calendar is a feed ready to be rendered
type Calendar struct {
	Name     string
	TimeZone string
	// Lang goes into PRODID, e.g. "ES"
	Lang   string
	Events []planner.CalendarEvent
}

// FormatTimestamp formats t as a floating local date-time
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// Render writes the calendar to w. Lines end with CRLF.
func Render(w io.Writer, cal Calendar) error {
	tz := cal.TimeZone
	if tz == "" {
		tz = DefaultTimeZone
	}
	lang := strings.ToUpper(cal.Lang)
	if lang == "" {
		lang = "ES"
	}

	lw := &lineWriter{w: w}
	lw.line("BEGIN:VCALENDAR")
	lw.line("VERSION:2.0")
	lw.line("PRODID:-//readplan//Reading Plan//" + lang)
	lw.line("CALSCALE:GREGORIAN")
	lw.line("METHOD:PUBLISH")
	lw.line("X-WR-CALNAME:" + EscapeText(cal.Name))
	lw.line("X-WR-TIMEZONE:" + tz)

	for _, e := range cal.Events {
		writeEvent(lw, e)
	}

	lw.line("END:VCALENDAR")
	if lw.err != nil {
		return fmt.Errorf("failed to write calendar: %w", lw.err)
	}
	return nil
}

// Marshal renders the calendar into memory
func Marshal(cal Calendar) []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer cannot fail
	_ = Render(&buf, cal)
	return buf.Bytes()
}

func writeEvent(lw *lineWriter, e planner.CalendarEvent) {
	lw.line("BEGIN:VEVENT")
	lw.line("UID:" + e.UID)
	lw.line("DTSTAMP:" + FormatTimestamp(e.Created))
	lw.line("DTSTART:" + FormatTimestamp(e.Start))
	lw.line("DTEND:" + FormatTimestamp(e.End))
	lw.line("SUMMARY:" + EscapeText(e.Summary))
	lw.line("DESCRIPTION:" + EscapeText(e.Description))
	lw.line(fmt.Sprintf("ORGANIZER;CN=%s:mailto:%s", EscapeText(e.Organizer.Name), e.Organizer.Email))
	lw.line("LOCATION:" + EscapeText(e.Location))
	lw.line("STATUS:" + string(e.Status))
	lw.line("SEQUENCE:0")
	lw.line("TRANSP:OPAQUE")
	lw.line("CLASS:PUBLIC")
	lw.line(fmt.Sprintf("PRIORITY:%d", e.Priority))

	for _, r := range e.Reminders {
		lw.line("BEGIN:VALARM")
		lw.line("ACTION:DISPLAY")
		lw.line("DESCRIPTION:" + EscapeText(r.Message))
		lw.line(fmt.Sprintf("TRIGGER:-PT%dM", r.Minutes))
		lw.line("END:VALARM")
	}
	lw.line("END:VEVENT")
}

// lineWriter remembers the first write error so callers check once
type lineWriter struct {
	w   io.Writer
	err error
}

func (lw *lineWriter) line(s string) {
	if lw.err != nil {
		return
	}
	_, lw.err = io.WriteString(lw.w, s+"\r\n")
}

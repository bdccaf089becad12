package planner

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Status of a calendar event
type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// Kind tells what a calendar event is for
type Kind int

const (
	KindReading Kind = iota
	KindReview
	KindFinalReview
)

func (k Kind) String() string {
	switch k {
	case KindReading:
		return "reading"
	case KindReview:
		return "review"
	case KindFinalReview:
		return "final_review"
	default:
		return "unknown"
	}
}

// Event priorities, lower is more urgent
const (
	PriorityReview = 3
	PriorityNormal = 5
)

// Organizer identifies who owns the calendar
type Organizer struct {
	Name  string
	Email string
}

// Reminder fires Minutes before the event starts
type Reminder struct {
	Minutes int
	Message string
}

// Reminders holds the alarm sets for normal and review sessions
type Reminders struct {
	Normal []Reminder
	Review []Reminder
}

func (r Reminders) empty() bool {
	return len(r.Normal) == 0 && len(r.Review) == 0
}

// DefaultReminders returns a 5 minute alarm for reading sessions and a
// 10 minute alarm for reviews, localized through t
func DefaultReminders(t Translator) Reminders {
	return Reminders{
		Normal: []Reminder{{Minutes: 5, Message: t.T("reminder_normal", "minutes", 5)}},
		Review: []Reminder{{Minutes: 10, Message: t.T("reminder_review", "minutes", 10)}},
	}
}

// CalendarEvent is a single scheduled block of the plan.
// End always equals Start plus Minutes, and Minutes is always positive.
type CalendarEvent struct {
	UID         string
	Created     time.Time
	Start       time.Time
	End         time.Time
	Minutes     float64
	Summary     string
	Description string
	Location    string
	Organizer   Organizer
	Status      Status
	Reminders   []Reminder
	Priority    int
	Kind        Kind
	// Book is the title the event belongs to, empty for the final review
	Book string
}

// Duration returns the length of the event
func (e CalendarEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// EventParams describes an event to build with NewEvent
type EventParams struct {
	Start       time.Time
	Minutes     float64
	Summary     string
	Description string
	Organizer   Organizer
	Reminders   Reminders
	Location    string
	Status      Status
	Review      bool
	Kind        Kind
	Book        string
	Created     time.Time
	UIDDomain   string
}

// NewEvent builds a calendar event. Review events get the review reminders
// and the more urgent priority.
func NewEvent(p EventParams) CalendarEvent {
	status := p.Status
	if status == "" {
		status = StatusConfirmed
	}

	reminders, priority := p.Reminders.Normal, PriorityNormal
	if p.Review {
		reminders, priority = p.Reminders.Review, PriorityReview
	}

	return CalendarEvent{
		UID:         EventUID(p.Start, p.Summary, p.UIDDomain),
		Created:     p.Created,
		Start:       p.Start,
		End:         p.Start.Add(minutesToDuration(p.Minutes)),
		Minutes:     p.Minutes,
		Summary:     p.Summary,
		Description: p.Description,
		Location:    p.Location,
		Organizer:   p.Organizer,
		Status:      status,
		Reminders:   append([]Reminder(nil), reminders...),
		Priority:    priority,
		Kind:        p.Kind,
		Book:        p.Book,
	}
}

// EventUID derives a stable identifier from the start date and title using XXH64.
// Two titles on the same day collide only if their hashes collide.
func EventUID(start time.Time, title, domain string) string {
	if domain == "" {
		domain = DefaultUIDDomain
	}
	return fmt.Sprintf("%s-%d@%s", start.Format("20060102"), xxhash.Sum64String(title), domain)
}

func minutesToDuration(minutes float64) time.Duration {
	return time.Duration(minutes * float64(time.Minute))
}

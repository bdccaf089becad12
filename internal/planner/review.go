package planner

import (
	"fmt"
	"time"

	"readplan/internal/models"
)

// NextReadingDay returns date itself if it falls on a reading weekday,
// otherwise the first following day that does.
//
// weekdays must not be empty or this never returns.
func NextReadingDay(date time.Time, weekdays models.WeekdaySet) time.Time {
	for !weekdays.Has(date.Weekday()) {
		date = date.AddDate(0, 0, 1)
	}
	return date
}

// scheduleReview appends the consolidation session for a finished book on the
// first reading day on or after candidate
func (r *run) scheduleReview(candidate time.Time, book models.Book, hours float64) {
	day := NextReadingDay(candidate, r.cfg.Weekdays)
	t := r.engine.text

	r.events = append(r.events, NewEvent(EventParams{
		Start:   r.cfg.ReviewStart.On(day),
		Minutes: float64(r.cfg.ReviewMinutes),
		Summary: t.T("review_session", "book", book.Title),
		Description: t.T("review_description",
			"book", book.Title,
			"hours", fmt.Sprintf("%.2f", hours),
			"duration", r.cfg.ReviewMinutes,
		),
		Organizer: r.cfg.Organizer,
		Reminders: r.reminders,
		Location:  t.T("quiet_space"),
		Status:    StatusConfirmed,
		Review:    true,
		Kind:      KindReview,
		Book:      book.Title,
		Created:   r.created,
		UIDDomain: r.cfg.UIDDomain,
	}))
}

package planner

import (
	"errors"
	"fmt"
	"time"

	"readplan/internal/models"
)

// Config holds everything a plan run needs besides the books
type Config struct {
	StartDate     time.Time
	EndDate       time.Time
	DailyMinutes  int
	ReviewMinutes int

	Speeds   models.SpeedTable
	Weekdays models.WeekdaySet

	ReadingStart models.ClockTime
	ReviewStart  models.ClockTime

	Organizer Organizer

	// Reminders defaults to DefaultReminders when both sets are empty
	Reminders Reminders

	// UIDDomain is the right-hand side of every event UID
	UIDDomain string
}

// DefaultUIDDomain is used when Config.UIDDomain is empty
const DefaultUIDDomain = "readplan.local"

const minutesPerDay = 24 * 60

// DefaultConfig returns the stock settings for a plan starting the day after today:
// 120 minutes a day from Monday to Saturday at 10:00, one hour of review at 19:00.
func DefaultConfig(today time.Time) Config {
	day := models.Date(today)
	return Config{
		StartDate:     day.AddDate(0, 0, 1),
		EndDate:       day.AddDate(0, 0, 121),
		DailyMinutes:  120,
		ReviewMinutes: 60,
		Speeds:        models.DefaultSpeedTable(),
		Weekdays: models.NewWeekdaySet(
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday,
		),
		ReadingStart: models.ClockTime{Hour: 10},
		ReviewStart:  models.ClockTime{Hour: 19},
		UIDDomain:    DefaultUIDDomain,
	}
}

// Validate reports every configuration problem at once
func (c Config) Validate() error {
	var errs []error
	if c.Weekdays.Empty() {
		errs = append(errs, ErrNoReadingDays)
	}
	if c.DailyMinutes <= 0 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrNonPositiveBudget, c.DailyMinutes))
	}
	if c.ReviewMinutes <= 0 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrNonPositiveReview, c.ReviewMinutes))
	}
	// Sessions that cross midnight would land on a day outside the weekday set
	if end := c.ReadingStart.Hour*60 + c.ReadingStart.Minute + c.DailyMinutes; end > minutesPerDay {
		errs = append(errs, fmt.Errorf("%w: reading from %s for %d min", ErrPastMidnight, c.ReadingStart, c.DailyMinutes))
	}
	if end := c.ReviewStart.Hour*60 + c.ReviewStart.Minute + c.ReviewMinutes; end > minutesPerDay {
		errs = append(errs, fmt.Errorf("%w: review from %s for %d min", ErrPastMidnight, c.ReviewStart, c.ReviewMinutes))
	}
	if !models.Date(c.EndDate).After(models.Date(c.StartDate)) {
		errs = append(errs, fmt.Errorf("%w: %s..%s", ErrInvalidDateRange,
			c.StartDate.Format("2006-01-02"), c.EndDate.Format("2006-01-02")))
	}
	return errors.Join(errs...)
}

// ValidateBooks checks every book in the list
func ValidateBooks(books []models.Book) error {
	var errs []error
	for i, b := range books {
		if err := b.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%w #%d: %v", ErrInvalidBook, i+1, err))
		}
	}
	return errors.Join(errs...)
}

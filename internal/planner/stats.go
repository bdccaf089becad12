package planner

import (
	"time"

	"readplan/internal/models"
)

// Statistics summarizes a generated plan
type Statistics struct {
	TotalEvents    int
	BooksCompleted int
	// TotalBookHours is the estimate for the whole reading list, scheduled or not
	TotalBookHours float64
	// TotalDays is the span from the start date to the day the generator stopped
	TotalDays int
}

// Aggregate folds a finished run into Statistics
func Aggregate(events []CalendarEvent, completed []CompletedBook, books []models.Book,
	speeds models.SpeedTable, startDate, stoppedAt time.Time) Statistics {
	var hours float64
	for _, b := range books {
		hours += HoursRequired(b, speeds)
	}

	return Statistics{
		TotalEvents:    len(events),
		BooksCompleted: len(completed),
		TotalBookHours: hours,
		TotalDays:      models.DaysBetween(startDate, stoppedAt),
	}
}

package planner

import (
	"math"

	"readplan/internal/models"
)

// Projection is a per-book workload estimate
type Projection struct {
	Book           models.Book
	MinutesPerPage float64
	Hours          float64
	// Days is how many reading days the book takes on its own at the daily budget
	Days float64
}

// Project estimates each book independently of the calendar. Days is +Inf
// when dailyMinutes is not positive.
func Project(books []models.Book, speeds models.SpeedTable, dailyMinutes int) []Projection {
	out := make([]Projection, 0, len(books))
	for _, b := range books {
		p := Projection{
			Book:           b,
			MinutesPerPage: speeds.MinutesPerPage(b.Category),
			Hours:          HoursRequired(b, speeds),
			Days:           math.Inf(1),
		}
		if dailyMinutes > 0 {
			p.Days = MinutesRequired(b, speeds) / float64(dailyMinutes)
		}
		out = append(out, p)
	}
	return out
}

package planner

import "readplan/internal/models"

// MinutesRequired returns the reading time for the whole book
func MinutesRequired(book models.Book, speeds models.SpeedTable) float64 {
	return float64(book.Pages) * speeds.MinutesPerPage(book.Category)
}

// HoursRequired returns the reading time for the whole book in hours
func HoursRequired(book models.Book, speeds models.SpeedTable) float64 {
	return MinutesRequired(book, speeds) / 60
}

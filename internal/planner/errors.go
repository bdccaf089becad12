package planner

import "errors"

// Configuration errors reported before a plan is generated
var (
	ErrNoReadingDays     = errors.New("at least one reading weekday must be selected")
	ErrNonPositiveBudget = errors.New("daily reading minutes must be positive")
	ErrNonPositiveReview = errors.New("review minutes must be positive")
	ErrInvalidDateRange  = errors.New("end date must be after start date")
	ErrPastMidnight      = errors.New("session must end by midnight")
	ErrInvalidBook       = errors.New("invalid book")
)

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"readplan/internal/i18n"
	"readplan/internal/ics"
	"readplan/internal/models"
	"readplan/internal/planner"
)

// PlanFile is the YAML document read by the readplan CLI.
// Every field except books is optional.
type PlanFile struct {
	Language  string `yaml:"language"`
	TimeZone  string `yaml:"timezone"`
	Organizer struct {
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
	} `yaml:"organizer"`

	StartDate     string `yaml:"start_date"`
	EndDate       string `yaml:"end_date"`
	DailyMinutes  *int   `yaml:"daily_minutes"`
	ReviewMinutes *int   `yaml:"review_minutes"`
	ReadingStart  string `yaml:"reading_start"`
	ReviewStart   string `yaml:"review_start"`
	ReadingDays   string `yaml:"reading_days"`

	// SecondsPerPage is keyed by category code or name
	SecondsPerPage map[string]float64 `yaml:"seconds_per_page"`

	Books []models.Book `yaml:"books"`
}

// LoadPlanFile reads and decodes a plan file from disk
func LoadPlanFile(path string) (*PlanFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open plan file: %w", err)
	}
	defer f.Close()

	return DecodePlanFile(f)
}

// DecodePlanFile decodes a plan file, rejecting unknown fields
func DecodePlanFile(r io.Reader) (*PlanFile, error) {
	var pf PlanFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse plan file: %w", err)
	}
	return &pf, nil
}

// Plan is a fully resolved plan file
type Plan struct {
	Books    []models.Book
	Config   planner.Config
	Language string
	TimeZone string
}

// Resolve applies defaults relative to today and validates the result
func (pf *PlanFile) Resolve(today time.Time) (*Plan, error) {
	defaults := DefaultPlanDefaults()

	var start, end time.Time
	var err error
	if pf.StartDate != "" {
		if start, err = models.ParseDate(pf.StartDate); err != nil {
			return nil, fmt.Errorf("start_date: %w", err)
		}
	}
	if pf.EndDate != "" {
		if end, err = models.ParseDate(pf.EndDate); err != nil {
			return nil, fmt.Errorf("end_date: %w", err)
		}
	}

	// An explicit zero is kept so validation rejects it
	if pf.DailyMinutes != nil {
		defaults.DailyMinutes = *pf.DailyMinutes
	}
	if pf.ReviewMinutes != nil {
		defaults.ReviewMinutes = *pf.ReviewMinutes
	}
	if pf.ReadingStart != "" {
		if defaults.ReadingStart, err = models.ParseClockTime(pf.ReadingStart); err != nil {
			return nil, fmt.Errorf("reading_start: %w", err)
		}
	}
	if pf.ReviewStart != "" {
		if defaults.ReviewStart, err = models.ParseClockTime(pf.ReviewStart); err != nil {
			return nil, fmt.Errorf("review_start: %w", err)
		}
	}
	if pf.ReadingDays != "" {
		if defaults.Weekdays, err = models.ParseWeekdays(pf.ReadingDays); err != nil {
			return nil, fmt.Errorf("reading_days: %w", err)
		}
	}
	for key, secs := range pf.SecondsPerPage {
		category, err := models.ParseCategory(key)
		if err != nil {
			return nil, fmt.Errorf("seconds_per_page: %w", err)
		}
		if secs <= 0 {
			return nil, fmt.Errorf("seconds_per_page: %s must be positive", key)
		}
		defaults.Speeds[category] = secs / 60
	}
	if pf.Organizer.Name != "" {
		defaults.Organizer.Name = pf.Organizer.Name
	}
	if pf.Organizer.Email != "" {
		defaults.Organizer.Email = pf.Organizer.Email
	}

	cfg := defaults.PlannerConfig(today, start, end)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := planner.ValidateBooks(pf.Books); err != nil {
		return nil, err
	}

	tz := pf.TimeZone
	if tz == "" {
		tz = ics.DefaultTimeZone
	}

	return &Plan{
		Books:    pf.Books,
		Config:   cfg,
		Language: i18n.Match(pf.Language),
		TimeZone: tz,
	}, nil
}

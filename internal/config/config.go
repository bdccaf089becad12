package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"readplan/internal/i18n"
	"readplan/internal/ics"
	"readplan/internal/models"
	"readplan/internal/planner"
)

// Config holds the application configuration
type Config struct {
	TelegramToken  string
	AllowedUserIDs []int64

	// Bot mode configuration
	WebhookMode bool   // If true, use webhook mode; if false, use polling mode
	WebhookURL  string // URL for webhook (required if WebhookMode is true)

	// ClickHouse configuration
	ClickHouseHost     string
	ClickHousePort     int
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string
	ClickHouseUseTLS   bool

	UseMockDB bool

	Port     string
	LogLevel string

	Plan PlanDefaults
}

// PlanDefaults are the plan settings applied to every plan built by the bot
type PlanDefaults struct {
	DailyMinutes  int
	ReviewMinutes int
	ReadingStart  models.ClockTime
	ReviewStart   models.ClockTime
	Weekdays      models.WeekdaySet
	LengthDays    int
	Speeds        models.SpeedTable
	Organizer     planner.Organizer
	TimeZone      string
	Language      string

	// ClearAfterPlan empties the reading list once the calendar was delivered
	ClearAfterPlan bool
}

// DefaultPlanDefaults mirrors planner.DefaultConfig
func DefaultPlanDefaults() PlanDefaults {
	base := planner.DefaultConfig(time.Time{})
	return PlanDefaults{
		DailyMinutes:  base.DailyMinutes,
		ReviewMinutes: base.ReviewMinutes,
		ReadingStart:  base.ReadingStart,
		ReviewStart:   base.ReviewStart,
		Weekdays:      base.Weekdays,
		LengthDays:    120,
		Speeds:        base.Speeds,
		Organizer:     planner.Organizer{Name: "Reading Plan", Email: "reading@readplan.local"},
		TimeZone:      ics.DefaultTimeZone,
		Language:      i18n.Spanish,
	}
}

// PlannerConfig builds the engine settings for a plan starting the day after today.
// A zero start or end falls back to the default window.
func (d PlanDefaults) PlannerConfig(today, start, end time.Time) planner.Config {
	cfg := planner.DefaultConfig(today)
	if !start.IsZero() {
		cfg.StartDate = models.Date(start)
	}
	if !end.IsZero() {
		cfg.EndDate = models.Date(end)
	} else {
		cfg.EndDate = cfg.StartDate.AddDate(0, 0, d.LengthDays)
	}
	cfg.DailyMinutes = d.DailyMinutes
	cfg.ReviewMinutes = d.ReviewMinutes
	cfg.ReadingStart = d.ReadingStart
	cfg.ReviewStart = d.ReviewStart
	cfg.Weekdays = d.Weekdays
	cfg.Speeds = d.Speeds
	cfg.Organizer = d.Organizer
	return cfg
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	// Telegram Bot Token (required)
	config.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if config.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	// Allowed User IDs (required)
	allowedIDsStr := os.Getenv("ALLOWED_USER_IDS")
	if allowedIDsStr == "" {
		return nil, fmt.Errorf("ALLOWED_USER_IDS is required (comma-separated list of Telegram user IDs)")
	}

	idStrs := strings.Split(allowedIDsStr, ",")
	for _, idStr := range idStrs {
		id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID in ALLOWED_USER_IDS: %s", idStr)
		}
		config.AllowedUserIDs = append(config.AllowedUserIDs, id)
	}

	// Bot mode configuration
	config.WebhookMode = os.Getenv("WEBHOOK_MODE") == "true"
	if config.WebhookMode {
		config.WebhookURL = os.Getenv("WEBHOOK_URL")
		if config.WebhookURL == "" {
			return nil, fmt.Errorf("WEBHOOK_URL is required when WEBHOOK_MODE is true")
		}
	}

	// Use Mock DB (default: false)
	config.UseMockDB = os.Getenv("USE_MOCK_DB") == "true"

	// ClickHouse configuration (required if not using mock)
	if !config.UseMockDB {
		config.ClickHouseHost = os.Getenv("CLICKHOUSE_HOST")
		if config.ClickHouseHost == "" {
			return nil, fmt.Errorf("CLICKHOUSE_HOST is required when USE_MOCK_DB is not set")
		}

		port, err := intFromEnv("CLICKHOUSE_PORT", 9000) // Default ClickHouse native port
		if err != nil {
			return nil, err
		}
		config.ClickHousePort = port

		config.ClickHouseDatabase = getEnv("CLICKHOUSE_DATABASE", "default")
		config.ClickHouseUser = getEnv("CLICKHOUSE_USER", "default")

		config.ClickHousePassword = os.Getenv("CLICKHOUSE_PASSWORD")
		// Password is optional, can be empty

		config.ClickHouseUseTLS = os.Getenv("CLICKHOUSE_USE_TLS") == "true"
	}

	config.Port = getEnv("PORT", "8080")
	config.LogLevel = getEnv("LOG_LEVEL", "info")

	plan, err := loadPlanDefaults()
	if err != nil {
		return nil, err
	}
	config.Plan = plan

	return config, nil
}

// loadPlanDefaults reads the READING_*, REVIEW_* and related plan variables
func loadPlanDefaults() (PlanDefaults, error) {
	d := DefaultPlanDefaults()
	var err error

	if d.DailyMinutes, err = intFromEnv("READING_DAILY_MINUTES", d.DailyMinutes); err != nil {
		return d, err
	}
	if d.ReviewMinutes, err = intFromEnv("REVIEW_MINUTES", d.ReviewMinutes); err != nil {
		return d, err
	}
	if d.LengthDays, err = intFromEnv("PLAN_LENGTH_DAYS", d.LengthDays); err != nil {
		return d, err
	}
	if d.DailyMinutes <= 0 || d.ReviewMinutes <= 0 || d.LengthDays <= 0 {
		return d, fmt.Errorf("READING_DAILY_MINUTES, REVIEW_MINUTES and PLAN_LENGTH_DAYS must be positive")
	}

	if v := os.Getenv("READING_START"); v != "" {
		if d.ReadingStart, err = models.ParseClockTime(v); err != nil {
			return d, fmt.Errorf("invalid READING_START: %w", err)
		}
	}
	if v := os.Getenv("REVIEW_START"); v != "" {
		if d.ReviewStart, err = models.ParseClockTime(v); err != nil {
			return d, fmt.Errorf("invalid REVIEW_START: %w", err)
		}
	}
	if v := os.Getenv("READING_DAYS"); v != "" {
		if d.Weekdays, err = models.ParseWeekdays(v); err != nil {
			return d, fmt.Errorf("invalid READING_DAYS: %w", err)
		}
		if d.Weekdays.Empty() {
			return d, fmt.Errorf("READING_DAYS must name at least one day")
		}
	}

	var secs [3]float64
	for i, key := range []string{"SECONDS_PER_PAGE_D", "SECONDS_PER_PAGE_T", "SECONDS_PER_PAGE_A"} {
		def := 60 * d.Speeds.MinutesPerPage(models.Categories[i])
		if secs[i], err = floatFromEnv(key, def); err != nil {
			return d, err
		}
	}
	d.Speeds = models.SpeedTableFromSeconds(secs[0], secs[1], secs[2])

	d.Organizer.Name = getEnv("ORGANIZER_NAME", d.Organizer.Name)
	d.Organizer.Email = getEnv("ORGANIZER_EMAIL", d.Organizer.Email)
	d.TimeZone = getEnv("CALENDAR_TIMEZONE", d.TimeZone)
	d.Language = i18n.Match(getEnv("DEFAULT_LANGUAGE", d.Language))
	d.ClearAfterPlan = os.Getenv("CLEAR_AFTER_PLAN") == "true"

	if err := d.PlannerConfig(time.Time{}, time.Time{}, time.Time{}).Validate(); err != nil {
		return d, fmt.Errorf("invalid plan settings: %w", err)
	}

	return d, nil
}

// getEnv retrieves environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func intFromEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func floatFromEnv(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if f <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return f, nil
}

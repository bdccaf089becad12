package bot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"readplan/internal/i18n"
	"readplan/internal/ics"
	"readplan/internal/models"
	"readplan/internal/planner"
)

// planResult is a generated plan together with its rendered calendar
type planResult struct {
	Books    []models.Book
	Plan     planner.Plan
	Calendar ics.Calendar
	ICS      []byte
	FileName string
}

// buildPlan loads the user's reading list and schedules it. Zero start and
// end dates select the default window starting tomorrow.
func (b *Bot) buildPlan(ctx context.Context, userID int64, start, end time.Time) (*planResult, error) {
	books, err := b.db.ListBooks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reading list: %w", err)
	}

	today := b.now()
	cfg := b.plan.PlannerConfig(today, start, end)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loc := b.text(userID)
	engine := planner.New(
		planner.WithLogger(b.logger.With(zap.Int64("user_id", userID))),
		planner.WithTranslator(loc),
		planner.WithClock(b.now),
	)
	plan, err := engine.Generate(books, cfg)
	if err != nil {
		return nil, err
	}

	cal := ics.Calendar{
		Name:     loc.T("calendar_name", "year", cfg.StartDate.Year()),
		TimeZone: b.plan.TimeZone,
		Lang:     loc.Lang(),
		Events:   plan.Events,
	}
	return &planResult{
		Books:    books,
		Plan:     plan,
		Calendar: cal,
		ICS:      ics.Marshal(cal),
		FileName: fmt.Sprintf("reading_plan_%s.ics", today.Format("20060102")),
	}, nil
}

// planSummary describes the plan statistics in the user's language
func planSummary(loc *i18n.Localizer, r *planResult) string {
	stats := r.Plan.Stats
	text := loc.T("plan_ready", "events", stats.TotalEvents) + "\n\n" +
		loc.T("stats_summary",
			"events", stats.TotalEvents,
			"completed", stats.BooksCompleted,
			"hours", fmt.Sprintf("%.1f", stats.TotalBookHours),
			"days", stats.TotalDays,
		)

	if n := len(r.Plan.Completed); n > 0 && n == len(r.Books) {
		last := r.Plan.Completed[n-1].CompletedOn
		text += "\n\n" + loc.T("plan_finishes", "date", last.Format("2006-01-02"))
	}
	return text
}

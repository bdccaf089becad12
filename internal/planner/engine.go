// Package planner turns a reading list into a day-by-day calendar of reading
// and review sessions.
package planner

import (
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"readplan/internal/i18n"
	"readplan/internal/models"
)

// CompletionTolerance is the number of minutes below which a book counts as read.
// Repeated float subtraction can leave a small positive residue.
const CompletionTolerance = 0.1

// Translator supplies the localized event texts
type Translator interface {
	T(key string, args ...any) string
}

// CompletedBook is a ledger entry for a book finished inside the plan window
type CompletedBook struct {
	Title       string
	Hours       float64
	CompletedOn time.Time
}

// Plan is the result of a generation run
type Plan struct {
	Events    []CalendarEvent
	Completed []CompletedBook
	Stats     Statistics
}

// Engine generates reading plans. It holds no per-run state and is safe for
// concurrent use.
type Engine struct {
	logger *zap.Logger
	text   Translator
	now    func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used to report generation progress
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithTranslator sets the source of event titles and descriptions
func WithTranslator(t Translator) Option {
	return func(e *Engine) { e.text = t }
}

// WithClock sets the function used for event creation timestamps
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine. Without options it logs nothing, writes Spanish
// texts and stamps events with time.Now.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.text == nil {
		e.text = i18n.MustNew(i18n.Spanish)
	}
	return e
}

type planState struct {
	date      time.Time
	bookIndex int
	remaining float64
}

// run carries the mutable state of one Generate call
type run struct {
	engine    *Engine
	cfg       Config
	books     []models.Book
	reminders Reminders
	created   time.Time

	state     planState
	events    []CalendarEvent
	completed []CompletedBook
}

// Generate schedules books between cfg.StartDate and cfg.EndDate inclusive.
//
// Books are read strictly in order. Only the weekday set is checked here;
// the rest of cfg is expected to have passed Config.Validate.
func (e *Engine) Generate(books []models.Book, cfg Config) (Plan, error) {
	if len(books) == 0 {
		return Plan{Events: []CalendarEvent{}, Completed: []CompletedBook{}}, nil
	}
	if cfg.Weekdays.Empty() {
		return Plan{}, ErrNoReadingDays
	}

	r := &run{
		engine:    e,
		cfg:       cfg,
		books:     books,
		reminders: cfg.Reminders,
		created:   e.now(),
		state: planState{
			date:      models.Date(cfg.StartDate),
			remaining: MinutesRequired(books[0], cfg.Speeds),
		},
	}
	if r.reminders.empty() {
		r.reminders = DefaultReminders(e.text)
	}

	start, end := r.state.date, models.Date(cfg.EndDate)
	for !r.state.date.After(end) {
		if cfg.Weekdays.Has(r.state.date.Weekday()) {
			r.readDay()
		}
		r.state.date = r.state.date.AddDate(0, 0, 1)

		if r.finished() {
			e.logger.Info("All books scheduled before end of window",
				zap.Time("finishes_on", r.state.date),
				zap.Time("end_date", end),
			)
			break
		}
	}

	// Reviews are emitted ahead of the next book's sessions on the same day
	sort.SliceStable(r.events, func(i, j int) bool {
		return r.events[i].Start.Before(r.events[j].Start)
	})

	plan := Plan{
		Events:    r.events,
		Completed: r.completed,
		Stats:     Aggregate(r.events, r.completed, books, cfg.Speeds, start, r.state.date),
	}
	if plan.Events == nil {
		plan.Events = []CalendarEvent{}
	}
	if plan.Completed == nil {
		plan.Completed = []CompletedBook{}
	}

	e.logger.Info("Reading plan generated",
		zap.Int("books", len(books)),
		zap.Int("events", plan.Stats.TotalEvents),
		zap.Int("completed", plan.Stats.BooksCompleted),
		zap.Int("days", plan.Stats.TotalDays),
	)
	return plan, nil
}

func (r *run) finished() bool {
	return r.state.bookIndex >= len(r.books)
}

// readDay fills one reading day with sessions until the daily budget or the
// reading list runs out
func (r *run) readDay() {
	sessionStart := r.cfg.ReadingStart.On(r.state.date)
	sessionLeft := float64(r.cfg.DailyMinutes)

	for sessionLeft > 0 && !r.finished() {
		book := r.books[r.state.bookIndex]

		minutes := math.Min(sessionLeft, r.state.remaining)
		if minutes <= 0 {
			break
		}

		r.events = append(r.events, r.readingEvent(book, sessionStart, minutes))

		r.state.remaining -= minutes
		sessionLeft -= minutes
		sessionStart = sessionStart.Add(minutesToDuration(minutes))

		if r.state.remaining > CompletionTolerance {
			continue
		}

		r.completeBook(book)

		if !r.finished() {
			r.state.remaining = MinutesRequired(r.books[r.state.bookIndex], r.cfg.Speeds)
			continue
		}

		if sessionLeft > 0 {
			r.events = append(r.events, r.finalReviewEvent(sessionStart, sessionLeft))
		}
		return
	}
}

func (r *run) readingEvent(book models.Book, start time.Time, minutes float64) CalendarEvent {
	t := r.engine.text
	return NewEvent(EventParams{
		Start:   start,
		Minutes: minutes,
		Summary: t.T("reading_session", "book", book.Title),
		Description: t.T("reading_description",
			"book", book.Title,
			"remaining", fmt.Sprintf("%.0f", r.state.remaining),
			"duration", fmt.Sprintf("%.0f", minutes),
		),
		Organizer: r.cfg.Organizer,
		Reminders: r.reminders,
		Location:  t.T("study_room"),
		Kind:      KindReading,
		Book:      book.Title,
		Created:   r.created,
		UIDDomain: r.cfg.UIDDomain,
	})
}

// completeBook records the finished book, schedules its review for the next
// reading day and moves on to the next book
func (r *run) completeBook(book models.Book) {
	hours := HoursRequired(book, r.cfg.Speeds)
	r.completed = append(r.completed, CompletedBook{
		Title:       book.Title,
		Hours:       math.Round(hours*100) / 100,
		CompletedOn: r.state.date,
	})
	r.engine.logger.Debug("Book completed",
		zap.String("book", book.Title),
		zap.Time("date", r.state.date),
		zap.Float64("hours", hours),
	)

	r.scheduleReview(r.state.date.AddDate(0, 0, 1), book, hours)
	r.state.bookIndex++
}

func (r *run) finalReviewEvent(start time.Time, minutes float64) CalendarEvent {
	t := r.engine.text
	return NewEvent(EventParams{
		Start:       start,
		Minutes:     minutes,
		Summary:     t.T("final_review"),
		Description: t.T("final_description", "count", len(r.completed)),
		Organizer:   r.cfg.Organizer,
		Reminders:   r.reminders,
		Review:      true,
		Kind:        KindFinalReview,
		Created:     r.created,
		UIDDomain:   r.cfg.UIDDomain,
	})
}

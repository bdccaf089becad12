package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"readplan/internal/i18n"
	"readplan/internal/models"
	"readplan/internal/planner"
	"readplan/internal/storage"
)

// handleStart shows welcome message and available commands
func (b *Bot) handleStart(message *tgbotapi.Message) {
	msg := tgbotapi.NewMessage(message.Chat.ID, b.text(message.From.ID).T("welcome"))
	b.sendMessage(msg)
}

// handleAddBookStart initiates the add book conversation
func (b *Bot) handleAddBookStart(message *tgbotapi.Message) {
	userID := message.From.ID
	b.setState(userID, &ConversationState{
		Command: "add_book",
		Step:    stepTitle,
		Data:    make(map[string]interface{}),
	})

	msg := tgbotapi.NewMessage(message.Chat.ID, b.text(userID).T("ask_title"))
	b.sendMessage(msg)
}

// handleBooks shows the user's reading list with time estimates
func (b *Bot) handleBooks(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	loc := b.text(userID)

	books, err := b.db.ListBooks(ctx, userID)
	if err != nil {
		b.logger.Error("Failed to list books", zap.Error(err), zap.Int64("user_id", userID))
		msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("Error: %v", err))
		b.sendMessage(msg)
		return
	}

	if len(books) == 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID, loc.T("empty_list"))
		b.sendMessage(msg)
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, formatReadingList(loc, books, b.plan.Speeds))
	b.sendMessage(msg)
}

// formatReadingList renders one line per book plus the total workload
func formatReadingList(loc *i18n.Localizer, books []models.Book, speeds models.SpeedTable) string {
	var text strings.Builder
	text.WriteString(loc.T("list_header"))
	text.WriteString("\n\n")

	var total float64
	for i, book := range books {
		hours := planner.HoursRequired(book, speeds)
		total += hours
		text.WriteString(fmt.Sprintf("%d. %s - %d p, %s, %.1f h\n",
			i+1, book.Title, book.Pages, categoryName(loc, book.Category), hours))
	}
	text.WriteString(fmt.Sprintf("\n⏱️ %.1f h", total))
	return text.String()
}

func categoryName(loc *i18n.Localizer, c models.Category) string {
	return loc.T(c.MessageKey())
}

// handleClear empties the user's reading list
func (b *Bot) handleClear(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	if err := b.db.ClearBooks(ctx, userID); err != nil {
		b.logger.Error("Failed to clear reading list", zap.Error(err), zap.Int64("user_id", userID))
		msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("Error: %v", err))
		b.sendMessage(msg)
		return
	}

	b.logger.Info("Reading list cleared", zap.Int64("user_id", userID))
	msg := tgbotapi.NewMessage(message.Chat.ID, b.text(userID).T("cleared"))
	b.sendMessage(msg)
}

// handleRemove deletes a book from the list by its exact title
func (b *Bot) handleRemove(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	loc := b.text(userID)

	title := strings.TrimSpace(message.CommandArguments())
	if title == "" {
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, loc.T("remove_usage")))
		return
	}

	err := b.db.RemoveBook(ctx, userID, title)
	switch {
	case errors.Is(err, storage.ErrBookNotFound):
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, loc.T("book_not_found", "book", title)))
		return
	case err != nil:
		b.logger.Error("Failed to remove book", zap.Error(err), zap.Int64("user_id", userID))
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("Error: %v", err)))
		return
	}

	b.logger.Info("Book removed", zap.Int64("user_id", userID), zap.String("title", title))
	b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, loc.T("removed", "book", title)))
}

// handlePlan generates the calendar for the user's reading list and sends it
// as an .ics document. Accepts an optional "YYYY-MM-DD YYYY-MM-DD" window.
func (b *Bot) handlePlan(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID
	loc := b.text(userID)

	start, end, err := parsePlanWindow(message.CommandArguments())
	if err != nil {
		b.sendMessage(tgbotapi.NewMessage(chatID, loc.T("invalid_dates")))
		return
	}

	result, err := b.buildPlan(ctx, userID, start, end)
	switch {
	case errors.Is(err, planner.ErrInvalidDateRange):
		b.sendMessage(tgbotapi.NewMessage(chatID, loc.T("invalid_dates")))
		return
	case err != nil:
		b.logger.Error("Failed to generate plan", zap.Error(err), zap.Int64("user_id", userID))
		b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf("Error: %v", err)))
		return
	}

	if len(result.Plan.Events) == 0 {
		b.sendMessage(tgbotapi.NewMessage(chatID, loc.T("no_events")))
		return
	}

	b.sendMessage(tgbotapi.NewMessage(chatID, planSummary(loc, result)))

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  result.FileName,
		Bytes: result.ICS,
	})
	doc.Caption = result.Calendar.Name
	if b.sendMessage(doc) && b.plan.ClearAfterPlan {
		b.handleClear(ctx, message)
	}
}

// parsePlanWindow accepts either no arguments or a start and end date
func parsePlanWindow(args string) (start, end time.Time, err error) {
	fields := strings.Fields(args)
	switch len(fields) {
	case 0:
		return time.Time{}, time.Time{}, nil
	case 2:
		if start, err = models.ParseDate(fields[0]); err != nil {
			return time.Time{}, time.Time{}, err
		}
		if end, err = models.ParseDate(fields[1]); err != nil {
			return time.Time{}, time.Time{}, err
		}
		return start, end, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("expected 0 or 2 dates, got %d", len(fields))
	}
}

// handleLang switches the user's language
func (b *Bot) handleLang(message *tgbotapi.Message) {
	userID := message.From.ID
	arg := strings.TrimSpace(message.CommandArguments())
	if arg == "" {
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, b.text(userID).T("lang_usage")))
		return
	}

	b.setLanguage(userID, i18n.Match(arg))
	b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, b.text(userID).T("lang_set")))
}

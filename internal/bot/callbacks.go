package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"readplan/internal/i18n"
	"readplan/internal/models"
	"readplan/internal/planner"
)

// categoryKeyboard offers one button per category, labelled in the user's language
func categoryKeyboard(loc *i18n.Localizer) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, c := range models.Categories {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(categoryName(loc, c), "category:"+c.Code()))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// handleCategoryCallback processes category selection from inline keyboard
func (b *Bot) handleCategoryCallback(ctx context.Context, query *tgbotapi.CallbackQuery, state *ConversationState) {
	if state.Command != "add_book" || state.Step != stepCategory || query.Message == nil {
		return
	}

	category, err := models.ParseCategory(strings.TrimPrefix(query.Data, "category:"))
	if err != nil {
		b.logger.Warn("Unknown category in callback",
			zap.Error(err),
			zap.Int64("user_id", query.From.ID),
		)
		return
	}

	b.finishAddBook(ctx, query.From.ID, query.Message.Chat.ID, state, category)
}

// finishAddBook stores the collected book and ends the conversation
func (b *Bot) finishAddBook(ctx context.Context, userID, chatID int64, state *ConversationState, category models.Category) {
	loc := b.text(userID)
	book := models.Book{
		Title:    state.Data["title"].(string),
		Pages:    state.Data["pages"].(int),
		Category: category,
	}
	state.Step = stepDone

	if err := b.db.AddBook(ctx, userID, book); err != nil {
		b.logger.Error("Failed to add book",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.String("book", book.Title),
		)
		b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf("Error adding book: %v", err)))
		return
	}

	b.logger.Info("Book added",
		zap.Int64("user_id", userID),
		zap.String("book", book.Title),
		zap.Int("pages", book.Pages),
		zap.String("category", book.Category.Code()),
	)

	text := loc.T("book_added",
		"book", book.Title,
		"pages", book.Pages,
		"category", categoryName(loc, book.Category),
		"hours", fmt.Sprintf("%.1f", planner.HoursRequired(book, b.plan.Speeds)),
	)
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

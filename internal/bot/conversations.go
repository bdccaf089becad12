package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"readplan/internal/models"
)

// handleConversation processes multi-step conversations
func (b *Bot) handleConversation(ctx context.Context, message *tgbotapi.Message, state *ConversationState) {
	userID := message.From.ID

	switch state.Command {
	case "add_book":
		b.handleAddBookConversation(ctx, message, state)
	}

	// Clean up completed conversations
	if state.Step == stepDone {
		b.clearState(userID)
	}
}

// handleAddBookConversation walks through title, pages and category
func (b *Bot) handleAddBookConversation(ctx context.Context, message *tgbotapi.Message, state *ConversationState) {
	loc := b.text(message.From.ID)

	switch state.Step {
	case stepTitle:
		title := strings.TrimSpace(message.Text)
		if title == "" {
			b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, loc.T("ask_title")))
			return
		}
		state.Data["title"] = title
		state.Step = stepPages
		b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, loc.T("ask_pages")))

	case stepPages:
		pages, err := strconv.Atoi(strings.TrimSpace(message.Text))
		if err != nil || pages <= 0 {
			b.sendMessage(tgbotapi.NewMessage(message.Chat.ID, loc.T("invalid_pages")))
			return
		}
		state.Data["pages"] = pages
		state.Step = stepCategory

		msg := tgbotapi.NewMessage(message.Chat.ID, loc.T("ask_category"))
		msg.ReplyMarkup = categoryKeyboard(loc)
		b.sendMessage(msg)

	case stepCategory:
		// Typed answers are accepted as well as keyboard clicks
		category, err := models.ParseCategory(message.Text)
		if err != nil {
			msg := tgbotapi.NewMessage(message.Chat.ID, loc.T("ask_category"))
			msg.ReplyMarkup = categoryKeyboard(loc)
			b.sendMessage(msg)
			return
		}
		b.finishAddBook(ctx, message.From.ID, message.Chat.ID, state, category)
	}
}

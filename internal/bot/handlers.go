package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"readplan/internal/i18n"
)

// handleMessage processes a single message
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	// Recover from panics to prevent bot crashes
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleMessage", zap.Any("panic", r))
			msg := tgbotapi.NewMessage(message.Chat.ID, b.text(message.From.ID).T("error"))
			b.sendMessage(msg)
		}
	}()

	userID := message.From.ID
	ctx := context.Background()

	// Check if user is in a conversation
	if state, ok := b.getState(userID); ok {
		// If conversation is already complete, clean it up and process as new command
		if state.Step == stepDone {
			b.clearState(userID)
		} else if message.IsCommand() {
			// Allow any command to interrupt/cancel an ongoing conversation
			b.clearState(userID)
		} else {
			b.handleConversation(ctx, message, state)
			return
		}
	}

	if message.IsCommand() {
		switch message.Command() {
		case "start", "help":
			b.handleStart(message)
		case "add_book":
			b.handleAddBookStart(message)
		case "books":
			b.handleBooks(ctx, message)
		case "remove":
			b.handleRemove(ctx, message)
		case "clear":
			b.handleClear(ctx, message)
		case "plan":
			b.handlePlan(ctx, message)
		case "lang":
			b.handleLang(message)
		default:
			msg := tgbotapi.NewMessage(message.Chat.ID, b.text(userID).T("unknown_command"))
			b.sendMessage(msg)
		}
	}
}

// handleCallbackQuery processes inline keyboard button clicks
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleCallbackQuery", zap.Any("panic", r))
		}
	}()

	userID := query.From.ID
	ctx := context.Background()

	// Answer the callback query to remove loading state
	if b.api != nil {
		if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
			b.logger.Debug("Failed to answer callback query", zap.Error(err))
		}
	}

	state, ok := b.getState(userID)
	if !ok {
		return
	}

	if strings.HasPrefix(query.Data, "category:") {
		b.handleCategoryCallback(ctx, query, state)
	}

	// Clean up completed conversations
	if state.Step == stepDone {
		b.clearState(userID)
	}
}

// sendMessage delivers c, logging failures
// sendMessage reports whether the message was delivered
func (b *Bot) sendMessage(c tgbotapi.Chattable) bool {
	if b.send == nil {
		return true // For testing
	}
	if err := b.send(c); err != nil {
		b.logger.Warn("Failed to send message", zap.Error(err))
		return false
	}
	return true
}

// text returns the localizer for the user's language
func (b *Bot) text(userID int64) *i18n.Localizer {
	b.statesMu.RLock()
	lang, ok := b.languages[userID]
	b.statesMu.RUnlock()
	if !ok {
		lang = b.plan.Language
	}
	return i18n.MustNew(lang)
}

func (b *Bot) setLanguage(userID int64, lang string) {
	b.statesMu.Lock()
	defer b.statesMu.Unlock()
	b.languages[userID] = lang
}

func (b *Bot) getState(userID int64) (*ConversationState, bool) {
	b.statesMu.RLock()
	defer b.statesMu.RUnlock()
	state, ok := b.states[userID]
	return state, ok
}

func (b *Bot) setState(userID int64, state *ConversationState) {
	b.statesMu.Lock()
	defer b.statesMu.Unlock()
	b.states[userID] = state
}

func (b *Bot) clearState(userID int64) {
	b.statesMu.Lock()
	defer b.statesMu.Unlock()
	delete(b.states, userID)
}

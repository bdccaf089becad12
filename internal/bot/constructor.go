package bot

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"readplan/internal/config"
	"readplan/internal/storage"
)

// NewBot creates a new Telegram bot
func NewBot(token string, db storage.Storage, allowedUserIDs []int64, plan config.PlanDefaults, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("Failed to create bot API", zap.Error(err))
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot created", zap.String("bot_username", api.Self.UserName))

	b := newBot(db, allowedUserIDs, plan, logger)
	b.api = api
	b.token = token
	b.send = func(c tgbotapi.Chattable) error {
		_, err := api.Send(c)
		return err
	}
	return b, nil
}

// newBot wires everything except the Telegram API
func newBot(db storage.Storage, allowedUserIDs []int64, plan config.PlanDefaults, logger *zap.Logger) *Bot {
	allowedUsers := make(map[int64]bool)
	for _, id := range allowedUserIDs {
		allowedUsers[id] = true
	}

	return &Bot{
		db:           db,
		plan:         plan,
		allowedUsers: allowedUsers,
		states:       make(map[int64]*ConversationState),
		languages:    make(map[int64]string),
		logger:       logger,
		now:          time.Now,
	}
}

// GetAPI returns the bot API for testing
func (b *Bot) GetAPI() *tgbotapi.BotAPI {
	return b.api
}

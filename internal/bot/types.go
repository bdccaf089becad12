package bot

import (
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"readplan/internal/config"
	"readplan/internal/storage"
)

// Bot represents the Telegram bot wrapper
type Bot struct {
	api          *tgbotapi.BotAPI
	token        string
	db           storage.Storage
	plan         config.PlanDefaults
	allowedUsers map[int64]bool
	states       map[int64]*ConversationState
	languages    map[int64]string
	statesMu     sync.RWMutex
	logger       *zap.Logger

	// send delivers outgoing messages; nil drops them
	send func(tgbotapi.Chattable) error
	now  func() time.Time
}

// ConversationState tracks the state of multi-step commands
type ConversationState struct {
	Command string
	Step    int
	Data    map[string]interface{}
}

// Conversation steps of /add_book
const (
	stepTitle = iota + 1
	stepPages
	stepCategory

	stepDone = -1
)

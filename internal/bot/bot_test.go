package bot

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"readplan/internal/config"
	"readplan/internal/models"
	"readplan/internal/storage/stubs"
)

// Note: We can't easily mock tgbotapi.BotAPI, so tests swap the send hook
// and inspect what would have been delivered

const (
	userID = int64(123)
	chatID = int64(456)
)

// Monday
var testNow = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

type outbox struct {
	mu   sync.Mutex
	sent []tgbotapi.Chattable
}

func (o *outbox) send(c tgbotapi.Chattable) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, c)
	return nil
}

func (o *outbox) texts() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []string
	for _, c := range o.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m.Text)
		}
	}
	return out
}

func (o *outbox) last() tgbotapi.Chattable {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.sent) == 0 {
		return nil
	}
	return o.sent[len(o.sent)-1]
}

func (o *outbox) lastText() string {
	texts := o.texts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

func newTestBot(t *testing.T) (*Bot, *stubs.MockDB, *outbox) {
	t.Helper()
	db := stubs.NewMockDB()
	if err := db.Initialize(context.Background()); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}

	out := &outbox{}
	b := newBot(db, []int64{userID}, config.DefaultPlanDefaults(), zap.NewNop())
	b.send = out.send
	b.now = func() time.Time { return testNow }
	return b, db, out
}

func command(text string) *tgbotapi.Message {
	name := strings.Fields(text)[0]
	return &tgbotapi.Message{
		From:     &tgbotapi.User{ID: userID},
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}
}

func reply(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: text,
	}
}

func categoryClick(code string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: userID},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    "category:" + code,
	}
}

func TestBot_AddBookConversation(t *testing.T) {
	bot, db, out := newTestBot(t)
	bot.setLanguage(userID, "en")

	bot.handleMessage(command("/add_book"))
	state, ok := bot.getState(userID)
	require.True(t, ok, "Expected conversation state to be created")
	assert.Equal(t, "add_book", state.Command)
	assert.Equal(t, stepTitle, state.Step)
	assert.Equal(t, "Please enter the book title:", out.lastText())

	bot.handleMessage(reply("  Cosmos  "))
	assert.Equal(t, stepPages, state.Step)
	assert.Equal(t, "Cosmos", state.Data["title"])

	// Invalid page counts keep the conversation on the same step
	bot.handleMessage(reply("many"))
	assert.Equal(t, stepPages, state.Step)
	assert.Contains(t, out.lastText(), "Invalid number of pages")
	bot.handleMessage(reply("0"))
	assert.Equal(t, stepPages, state.Step)

	bot.handleMessage(reply("365"))
	assert.Equal(t, stepCategory, state.Step)

	msg, ok := out.last().(tgbotapi.MessageConfig)
	require.True(t, ok)
	keyboard, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok, "Expected category keyboard")
	require.Len(t, keyboard.InlineKeyboard, 1)
	require.Len(t, keyboard.InlineKeyboard[0], 3)
	assert.Equal(t, "Popular Science", keyboard.InlineKeyboard[0][0].Text)
	require.NotNil(t, keyboard.InlineKeyboard[0][2].CallbackData)
	assert.Equal(t, "category:A", *keyboard.InlineKeyboard[0][2].CallbackData)

	bot.handleCallbackQuery(categoryClick("D"))

	_, exists := bot.getState(userID)
	assert.False(t, exists, "Expected conversation to be cleaned up")

	books, err := db.ListBooks(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, models.Book{Title: "Cosmos", Pages: 365, Category: models.CategoryDivulgation}, books[0])
	assert.Contains(t, out.lastText(), "Book added!")
	assert.Contains(t, out.lastText(), "12.2 h")
}

func TestBot_AddBookTypedCategory(t *testing.T) {
	bot, db, _ := newTestBot(t)

	bot.handleMessage(command("/add_book"))
	bot.handleMessage(reply("Ética"))
	bot.handleMessage(reply("200"))

	// Unknown category asks again
	bot.handleMessage(reply("poesía"))
	state, ok := bot.getState(userID)
	require.True(t, ok)
	assert.Equal(t, stepCategory, state.Step)

	bot.handleMessage(reply("teoría"))
	_, exists := bot.getState(userID)
	assert.False(t, exists)

	books, err := db.ListBooks(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, models.CategoryTheory, books[0].Category)
}

func TestBot_CategoryCallbackOutsideConversation(t *testing.T) {
	bot, db, out := newTestBot(t)

	bot.handleCallbackQuery(categoryClick("D"))

	books, _ := db.ListBooks(context.Background(), userID)
	assert.Empty(t, books)
	assert.Empty(t, out.texts())
}

func TestBot_Books(t *testing.T) {
	bot, db, out := newTestBot(t)
	ctx := context.Background()

	bot.handleMessage(command("/books"))
	assert.Contains(t, out.lastText(), "vacía")

	require.NoError(t, db.AddBook(ctx, userID, models.Book{Title: "Zebra", Pages: 30, Category: models.CategoryAnalysis}))
	require.NoError(t, db.AddBook(ctx, userID, models.Book{Title: "Alpha", Pages: 60, Category: models.CategoryDivulgation}))

	bot.handleMessage(command("/books"))
	text := out.lastText()
	assert.Contains(t, text, "1. Zebra - 30 p, Análisis, 1.5 h")
	assert.Contains(t, text, "2. Alpha - 60 p, Divulgación, 2.0 h")
	assert.Contains(t, text, "3.5 h")
}

func TestBot_BooksWithoutCategory(t *testing.T) {
	bot, db, out := newTestBot(t)
	require.NoError(t, db.AddBook(context.Background(), userID, models.Book{Title: "Loose Notes", Pages: 15}))

	bot.handleMessage(command("/books"))
	text := out.lastText()
	assert.Contains(t, text, "1. Loose Notes - 15 p, Sin categoría, 0.5 h")
	assert.NotContains(t, text, "category_")
}

func TestBot_Clear(t *testing.T) {
	bot, db, out := newTestBot(t)
	ctx := context.Background()

	require.NoError(t, db.AddBook(ctx, userID, models.Book{Title: "A", Pages: 10}))
	bot.setLanguage(userID, "en")

	bot.handleMessage(command("/clear"))

	books, err := db.ListBooks(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, books)
	assert.Equal(t, "Your reading list has been cleared.", out.lastText())
}

func TestBot_Remove(t *testing.T) {
	bot, db, out := newTestBot(t)
	ctx := context.Background()
	bot.setLanguage(userID, "en")

	require.NoError(t, db.AddBook(ctx, userID, models.Book{Title: "Cosmos", Pages: 10}))
	require.NoError(t, db.AddBook(ctx, userID, models.Book{Title: "The Selfish Gene", Pages: 20}))

	bot.handleMessage(command("/remove The Selfish Gene"))
	assert.Equal(t, "🗑 Removed \"The Selfish Gene\" from your reading list.", out.lastText())

	books, err := db.ListBooks(ctx, userID)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Cosmos", books[0].Title)

	bot.handleMessage(command("/remove Dune"))
	assert.Equal(t, "❌ \"Dune\" is not in your reading list.", out.lastText())

	bot.handleMessage(command("/remove"))
	assert.Equal(t, "Usage: /remove <book title>", out.lastText())
}

func TestBot_Plan(t *testing.T) {
	bot, db, out := newTestBot(t)
	ctx := context.Background()
	bot.setLanguage(userID, "en")

	// 60 minutes of reading, leaving an hour for the final review
	require.NoError(t, db.AddBook(ctx, userID, models.Book{Title: "Short", Pages: 30, Category: models.CategoryDivulgation}))

	bot.handleMessage(command("/plan"))

	require.Len(t, out.sent, 2)
	summary := out.texts()[0]
	assert.Contains(t, summary, "Plan generated successfully! 3 calendar events were created.")
	assert.Contains(t, summary, "Books completed: 1")
	assert.Contains(t, summary, "All books will be completed on 2024-01-02!")

	doc, ok := out.last().(tgbotapi.DocumentConfig)
	require.True(t, ok, "Expected an .ics document")
	assert.Equal(t, chatID, doc.ChatID)
	assert.Equal(t, "Reading Plan 2024", doc.Caption)

	file, ok := doc.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, "reading_plan_20240101.ics", file.Name)

	ics := string(file.Bytes)
	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n"))
	assert.Equal(t, 3, strings.Count(ics, "BEGIN:VEVENT"))
	assert.Contains(t, ics, "SUMMARY:📚 READING: Short\r\n")
	assert.Contains(t, ics, "DTSTART:20240102T100000\r\n")
	assert.Contains(t, ics, "PRODID:-//readplan//Reading Plan//EN\r\n")

	// The reading list is kept until the user clears it
	books, _ := db.ListBooks(ctx, userID)
	assert.Len(t, books, 1)
}

func TestBot_PlanClearsListWhenConfigured(t *testing.T) {
	bot, db, out := newTestBot(t)
	ctx := context.Background()
	bot.plan.ClearAfterPlan = true
	bot.setLanguage(userID, "en")
	require.NoError(t, db.AddBook(ctx, userID, models.Book{Title: "Short", Pages: 30, Category: models.CategoryDivulgation}))

	bot.handleMessage(command("/plan"))

	require.Len(t, out.sent, 3)
	_, ok := out.sent[1].(tgbotapi.DocumentConfig)
	assert.True(t, ok, "the calendar is delivered before the list is cleared")
	assert.Equal(t, "Your reading list has been cleared.", out.lastText())

	books, err := db.ListBooks(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestBot_PlanWithWindow(t *testing.T) {
	bot, db, out := newTestBot(t)
	require.NoError(t, db.AddBook(context.Background(), userID, models.Book{Title: "Long", Pages: 600, Category: models.CategoryAnalysis}))

	bot.handleMessage(command("/plan 2024-03-04 2024-03-05"))

	doc, ok := out.last().(tgbotapi.DocumentConfig)
	require.True(t, ok)
	file := doc.File.(tgbotapi.FileBytes)
	ics := string(file.Bytes)
	assert.Equal(t, 2, strings.Count(ics, "BEGIN:VEVENT"))
	assert.Contains(t, ics, "DTSTART:20240304T100000\r\n")
	assert.Contains(t, ics, "DTSTART:20240305T100000\r\n")
	assert.NotContains(t, ics, "REVIEW")
}

func TestBot_PlanErrors(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want string
	}{
		{name: "one date", text: "/plan 2024-01-01", want: "Invalid dates"},
		{name: "bad date", text: "/plan 2024-01-01 soon", want: "Invalid dates"},
		{name: "inverted window", text: "/plan 2024-02-01 2024-01-01", want: "Invalid dates"},
		{name: "empty list", text: "/plan", want: "No events were generated"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bot, _, out := newTestBot(t)
			bot.setLanguage(userID, "en")

			bot.handleMessage(command(tc.text))

			require.Len(t, out.sent, 1)
			assert.Contains(t, out.lastText(), tc.want)
		})
	}
}

func TestBot_Lang(t *testing.T) {
	bot, _, out := newTestBot(t)

	bot.handleMessage(command("/lang"))
	assert.Equal(t, "Uso: /lang es|en", out.lastText())

	bot.handleMessage(command("/lang en-US"))
	assert.Equal(t, "Language set to English.", out.lastText())
	assert.Equal(t, "en", bot.text(userID).Lang())

	bot.handleMessage(command("/lang es"))
	assert.Equal(t, "Idioma cambiado a español.", out.lastText())
}

func TestBot_UnknownCommand(t *testing.T) {
	bot, _, out := newTestBot(t)
	bot.setLanguage(userID, "en")

	bot.handleMessage(command("/who_is_next"))
	assert.Equal(t, "Unknown command. Use /start to see available commands.", out.lastText())
}

func TestBot_UnauthorizedUser(t *testing.T) {
	bot, _, out := newTestBot(t)

	msg := command("/add_book")
	msg.From = &tgbotapi.User{ID: 999, UserName: "stranger"}
	bot.HandleWebhookUpdate(tgbotapi.Update{Message: msg})

	_, exists := bot.getState(999)
	assert.False(t, exists)
	assert.Equal(t, "Lo siento, no tienes permiso para usar este bot.", out.lastText())
}

func TestBot_PanicRecovery(t *testing.T) {
	bot, _, out := newTestBot(t)

	// Missing title and pages make finishing the conversation panic
	bot.setState(userID, &ConversationState{
		Command: "add_book",
		Step:    stepCategory,
		Data:    map[string]interface{}{},
	})

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("handleMessage panicked: %v", r)
		}
	}()

	bot.handleMessage(reply("D"))

	assert.Contains(t, out.lastText(), "Se produjo un error")
}

func TestBot_CommandAfterCallbackCompletion(t *testing.T) {
	bot, _, _ := newTestBot(t)

	// A completed conversation whose state was not cleaned up
	bot.setState(userID, &ConversationState{
		Command: "add_book",
		Step:    stepDone,
		Data:    map[string]interface{}{},
	})

	bot.handleMessage(command("/start"))

	_, exists := bot.getState(userID)
	assert.False(t, exists, "Expected state to be cleaned up after processing new command")
}

func TestBot_CommandInterruptsConversation(t *testing.T) {
	bot, db, _ := newTestBot(t)

	bot.handleMessage(command("/add_book"))
	bot.handleMessage(reply("Half entered"))

	_, exists := bot.getState(userID)
	require.True(t, exists)

	bot.handleMessage(command("/books"))

	_, exists = bot.getState(userID)
	assert.False(t, exists, "Expected conversation state to be deleted when interrupted by new command")

	books, _ := db.ListBooks(context.Background(), userID)
	assert.Empty(t, books)
}

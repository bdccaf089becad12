package bot

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"readplan/internal/models"
	"readplan/internal/planner"
)

// HTTPServer exposes the reading list and plan download to Telegram Mini Apps
type HTTPServer struct {
	bot         *Bot
	webhookMode bool // If false (polling mode), skip authentication for easier local dev
}

// NewHTTPServer creates a new HTTP server for the Mini App API
func NewHTTPServer(bot *Bot, webhookMode bool) *HTTPServer {
	return &HTTPServer{
		bot:         bot,
		webhookMode: webhookMode,
	}
}

// RegisterRoutes registers API routes on the provided mux
func (hs *HTTPServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/books", hs.authMiddleware(hs.handleBooks))
	mux.HandleFunc("/api/plan.ics", hs.authMiddleware(hs.handlePlan))
}

// authedHandler receives the user the request acts for
type authedHandler func(w http.ResponseWriter, r *http.Request, userID int64)

// validateTelegramInitData validates the Telegram Mini App initData
func (hs *HTTPServer) validateTelegramInitData(initData string) (int64, error) {
	if initData == "" {
		return 0, fmt.Errorf("missing initData")
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return 0, fmt.Errorf("invalid initData format: %w", err)
	}

	hash := values.Get("hash")
	if hash == "" {
		return 0, fmt.Errorf("missing hash in initData")
	}
	values.Del("hash")

	// Create data-check-string
	var keys []string
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var dataCheckString strings.Builder
	for i, k := range keys {
		if i > 0 {
			dataCheckString.WriteByte('\n')
		}
		dataCheckString.WriteString(k)
		dataCheckString.WriteByte('=')
		dataCheckString.WriteString(values.Get(k))
	}

	if !hmac.Equal([]byte(signInitData(hs.bot.token, dataCheckString.String())), []byte(hash)) {
		return 0, fmt.Errorf("invalid hash")
	}

	// Data should be recent, within 24 hours
	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("missing auth_date")
	}
	if hs.bot.now().Unix()-authDate > 86400 {
		return 0, fmt.Errorf("initData is too old")
	}

	userStr := values.Get("user")
	if userStr == "" {
		return 0, fmt.Errorf("missing user data")
	}

	var userData struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal([]byte(userStr), &userData); err != nil {
		return 0, fmt.Errorf("invalid user data: %w", err)
	}

	if !hs.bot.allowedUsers[userData.ID] {
		return 0, fmt.Errorf("user not allowed")
	}

	return userData.ID, nil
}

// signInitData computes the hex HMAC Telegram attaches to initData
func signInitData(token, dataCheckString string) string {
	secretKey := hmac.New(sha256.New, []byte("WebAppData"))
	secretKey.Write([]byte(token))

	h := hmac.New(sha256.New, secretKey.Sum(nil))
	h.Write([]byte(dataCheckString))
	return hex.EncodeToString(h.Sum(nil))
}

// authMiddleware validates Telegram Mini App authentication.
// In polling mode authentication is skipped and the user comes from ?user_id=.
func (hs *HTTPServer) authMiddleware(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !hs.webhookMode {
			userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
			if err != nil {
				http.Error(w, `{"error":"user_id is required"}`, http.StatusBadRequest)
				return
			}
			hs.bot.logger.Debug("Skipping authentication (polling mode)",
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
			)
			next(w, r, userID)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "tma ") {
			hs.bot.logger.Warn("Missing or invalid authorization header")
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}

		userID, err := hs.validateTelegramInitData(strings.TrimPrefix(authHeader, "tma "))
		if err != nil {
			hs.bot.logger.Warn("Failed to validate initData",
				zap.Error(err),
				zap.String("remote_addr", r.RemoteAddr),
			)
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}

		hs.bot.logger.Debug("Authenticated request",
			zap.Int64("user_id", userID),
			zap.String("path", r.URL.Path),
		)

		next(w, r, userID)
	}
}

// bookResponse is a reading list entry with its time estimate
type bookResponse struct {
	Title    string  `json:"title"`
	Pages    int     `json:"pages"`
	Category string  `json:"category"`
	Hours    float64 `json:"hours"`
}

// handleBooks returns the user's reading list
func (hs *HTTPServer) handleBooks(w http.ResponseWriter, r *http.Request, userID int64) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"Method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	books, err := hs.bot.db.ListBooks(r.Context(), userID)
	if err != nil {
		hs.bot.logger.Error("Failed to list books", zap.Error(err), zap.Int64("user_id", userID))
		http.Error(w, `{"error":"Failed to fetch books"}`, http.StatusInternalServerError)
		return
	}

	resp := make([]bookResponse, 0, len(books))
	for _, b := range books {
		resp = append(resp, bookResponse{
			Title:    b.Title,
			Pages:    b.Pages,
			Category: b.Category.Code(),
			Hours:    planner.HoursRequired(b, hs.bot.plan.Speeds),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handlePlan generates the plan and returns it as an iCalendar download.
// Optional start and end query parameters use YYYY-MM-DD.
func (hs *HTTPServer) handlePlan(w http.ResponseWriter, r *http.Request, userID int64) {
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"Method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}

	var start, end time.Time
	var err error
	if s := r.URL.Query().Get("start"); s != "" {
		if start, err = models.ParseDate(s); err != nil {
			http.Error(w, `{"error":"Invalid start date"}`, http.StatusBadRequest)
			return
		}
	}
	if s := r.URL.Query().Get("end"); s != "" {
		if end, err = models.ParseDate(s); err != nil {
			http.Error(w, `{"error":"Invalid end date"}`, http.StatusBadRequest)
			return
		}
	}

	result, err := hs.bot.buildPlan(r.Context(), userID, start, end)
	if errors.Is(err, planner.ErrInvalidDateRange) {
		http.Error(w, `{"error":"Invalid date range"}`, http.StatusBadRequest)
		return
	}
	if err != nil {
		hs.bot.logger.Error("Failed to generate plan", zap.Error(err), zap.Int64("user_id", userID))
		http.Error(w, `{"error":"Failed to generate plan"}`, http.StatusInternalServerError)
		return
	}

	hs.bot.logger.Info("Plan downloaded via Mini App",
		zap.Int64("user_id", userID),
		zap.Int("events", result.Plan.Stats.TotalEvents),
	)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.FileName))
	w.Write(result.ICS)
}

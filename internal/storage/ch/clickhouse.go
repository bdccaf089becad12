package ch

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"readplan/internal/models"
	"readplan/internal/storage"

	"github.com/ClickHouse/clickhouse-go/v2"
)

type ClickHouseDB struct {
	conn clickhouse.Conn
	now  func() time.Time
}

// NewClickHouseDB creates a new ClickHouse database connection
func NewClickHouseDB(host string, port int, database, user, password string, useTLS bool) (*ClickHouseDB, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	options := &clickhouse.Options{
		Addr:     []string{addr},
		Protocol: clickhouse.Native,
		Auth: clickhouse.Auth{
			Database: database,
			Username: user,
			Password: password,
		},
	}

	// Configure TLS if enabled
	if useTLS {
		options.TLS = &tls.Config{
			InsecureSkipVerify: false,
		}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	// Test the connection
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ClickHouseDB{conn: conn, now: time.Now}, nil
}

// Initialize is a no-op - tables are managed via migrations
func (db *ClickHouseDB) Initialize(ctx context.Context) error {
	return nil
}

// AddBook appends a book to the end of the user's reading list
func (db *ClickHouseDB) AddBook(ctx context.Context, userID int64, book models.Book) error {
	if err := book.Validate(); err != nil {
		return err
	}
	err := db.conn.Exec(ctx, `INSERT INTO reading_list (user_id, title, pages, category, added_at) VALUES (?, ?, ?, ?, ?)`,
		userID, book.Title, uint32(book.Pages), book.Category.Code(), db.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to add book: %w", err)
	}
	return nil
}

// ListBooks returns the user's reading list in insertion order
func (db *ClickHouseDB) ListBooks(ctx context.Context, userID int64) ([]models.Book, error) {
	rows, err := db.conn.Query(ctx, `SELECT title, pages, category FROM reading_list WHERE user_id = ? ORDER BY added_at, title`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		var (
			title string
			pages uint32
			code  string
		)
		if err := rows.Scan(&title, &pages, &code); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		category, err := parseStoredCategory(code)
		if err != nil {
			return nil, fmt.Errorf("book %q: %w", title, err)
		}
		books = append(books, models.Book{Title: title, Pages: int(pages), Category: category})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read books: %w", err)
	}
	return books, nil
}

// parseStoredCategory also accepts the code of an uncategorized book
func parseStoredCategory(code string) (models.Category, error) {
	if code == models.CategoryUnknown.Code() {
		return models.CategoryUnknown, nil
	}
	return models.ParseCategory(code)
}

// RemoveBook deletes every entry with the given title from the user's list
func (db *ClickHouseDB) RemoveBook(ctx context.Context, userID int64, title string) error {
	var count uint64
	row := db.conn.QueryRow(ctx, `SELECT count() FROM reading_list WHERE user_id = ? AND title = ?`, userID, title)
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("failed to look up book: %w", err)
	}
	if count == 0 {
		return storage.ErrBookNotFound
	}

	if err := db.conn.Exec(ctx, `DELETE FROM reading_list WHERE user_id = ? AND title = ?`, userID, title); err != nil {
		return fmt.Errorf("failed to remove book: %w", err)
	}
	return nil
}

// ClearBooks empties the user's reading list
func (db *ClickHouseDB) ClearBooks(ctx context.Context, userID int64) error {
	if err := db.conn.Exec(ctx, `DELETE FROM reading_list WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear reading list: %w", err)
	}
	return nil
}

// Close closes the database connection
func (db *ClickHouseDB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

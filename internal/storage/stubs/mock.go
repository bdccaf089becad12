package stubs

import (
	"context"
	"readplan/internal/models"
	"readplan/internal/storage"
	"sync"
)

// MockDB is an in-memory implementation of the Storage interface for testing
type MockDB struct {
	mu    sync.RWMutex
	lists map[int64][]models.Book
}

// NewMockDB creates a new mock database
func NewMockDB() *MockDB {
	return &MockDB{
		lists: make(map[int64][]models.Book),
	}
}

// Initialize drops every reading list
func (m *MockDB) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lists = make(map[int64][]models.Book)
	return nil
}

// AddBook appends a book to the end of the user's reading list
func (m *MockDB) AddBook(ctx context.Context, userID int64, book models.Book) error {
	if err := book.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lists[userID] = append(m.lists[userID], book)
	return nil
}

// ListBooks returns a copy of the user's reading list in insertion order
func (m *MockDB) ListBooks(ctx context.Context, userID int64) ([]models.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	books := make([]models.Book, len(m.lists[userID]))
	copy(books, m.lists[userID])
	return books, nil
}

// RemoveBook deletes every entry with the given title from the user's list
func (m *MockDB) RemoveBook(ctx context.Context, userID int64, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.lists[userID]
	kept := list[:0:0]
	for _, b := range list {
		if b.Title != title {
			kept = append(kept, b)
		}
	}
	if len(kept) == len(list) {
		return storage.ErrBookNotFound
	}
	m.lists[userID] = kept
	return nil
}

// ClearBooks empties the user's reading list
func (m *MockDB) ClearBooks(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.lists, userID)
	return nil
}

// Close does nothing for mock DB
func (m *MockDB) Close() error {
	return nil
}

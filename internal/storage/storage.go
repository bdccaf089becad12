package storage

import (
	"context"
	"errors"

	"readplan/internal/models"
)

// ErrBookNotFound is returned when removing a title that is not on the list
var ErrBookNotFound = errors.New("book not found in reading list")

// Storage keeps each user's reading list. Books are returned in the order
// they were added, which is the order they will be read in.
type Storage interface {
	// Reading list operations
	AddBook(ctx context.Context, userID int64, book models.Book) error
	ListBooks(ctx context.Context, userID int64) ([]models.Book, error)
	RemoveBook(ctx context.Context, userID int64, title string) error
	ClearBooks(ctx context.Context, userID int64) error

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}

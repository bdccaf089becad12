package stubs

import (
	"context"
	"errors"
	"sync"
	"testing"

	"readplan/internal/models"
	"readplan/internal/storage"
)

var _ storage.Storage = (*MockDB)(nil)

func TestMockDB_AddAndListBooks(t *testing.T) {
	db := NewMockDB()
	ctx := context.Background()

	if err := db.Initialize(ctx); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}

	books := []models.Book{
		{Title: "Zebra Book", Pages: 100, Category: models.CategoryTheory},
		{Title: "Alpha Book", Pages: 50, Category: models.CategoryDivulgation},
	}
	for _, b := range books {
		if err := db.AddBook(ctx, 1, b); err != nil {
			t.Fatalf("Failed to add book: %v", err)
		}
	}

	list, err := db.ListBooks(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to list books: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 books, got %d", len(list))
	}
	// Insertion order is reading order, not alphabetical
	if list[0].Title != "Zebra Book" || list[1].Title != "Alpha Book" {
		t.Errorf("Unexpected order: %v", list)
	}

	other, err := db.ListBooks(ctx, 2)
	if err != nil {
		t.Fatalf("Failed to list books: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("Expected empty list for another user, got %d books", len(other))
	}
}

func TestMockDB_AddBookRejectsInvalid(t *testing.T) {
	db := NewMockDB()
	ctx := context.Background()

	if err := db.AddBook(ctx, 1, models.Book{Title: "No Pages"}); err == nil {
		t.Error("Expected error for book without pages")
	}
	if err := db.AddBook(ctx, 1, models.Book{Pages: 10}); err == nil {
		t.Error("Expected error for book without title")
	}
}

func TestMockDB_ListReturnsCopy(t *testing.T) {
	db := NewMockDB()
	ctx := context.Background()

	if err := db.AddBook(ctx, 1, models.Book{Title: "Original", Pages: 10}); err != nil {
		t.Fatalf("Failed to add book: %v", err)
	}

	list, _ := db.ListBooks(ctx, 1)
	list[0].Title = "Changed"

	again, _ := db.ListBooks(ctx, 1)
	if again[0].Title != "Original" {
		t.Errorf("Expected stored book to be unchanged, got %q", again[0].Title)
	}
}

func TestMockDB_RemoveBook(t *testing.T) {
	db := NewMockDB()
	ctx := context.Background()

	for _, title := range []string{"A", "B", "C"} {
		if err := db.AddBook(ctx, 1, models.Book{Title: title, Pages: 10}); err != nil {
			t.Fatalf("Failed to add book: %v", err)
		}
	}

	if err := db.RemoveBook(ctx, 1, "B"); err != nil {
		t.Fatalf("Failed to remove book: %v", err)
	}

	list, _ := db.ListBooks(ctx, 1)
	if len(list) != 2 || list[0].Title != "A" || list[1].Title != "C" {
		t.Errorf("Unexpected list after removal: %v", list)
	}

	err := db.RemoveBook(ctx, 1, "Missing")
	if !errors.Is(err, storage.ErrBookNotFound) {
		t.Errorf("Expected ErrBookNotFound, got %v", err)
	}
}

func TestMockDB_ClearBooks(t *testing.T) {
	db := NewMockDB()
	ctx := context.Background()

	_ = db.AddBook(ctx, 1, models.Book{Title: "A", Pages: 10})
	_ = db.AddBook(ctx, 2, models.Book{Title: "B", Pages: 10})

	if err := db.ClearBooks(ctx, 1); err != nil {
		t.Fatalf("Failed to clear books: %v", err)
	}

	list, _ := db.ListBooks(ctx, 1)
	if len(list) != 0 {
		t.Errorf("Expected empty list, got %d books", len(list))
	}
	list, _ = db.ListBooks(ctx, 2)
	if len(list) != 1 {
		t.Errorf("Expected other user's list to be kept, got %d books", len(list))
	}
}

func TestMockDB_ConcurrentAccess(t *testing.T) {
	db := NewMockDB()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = db.AddBook(ctx, 1, models.Book{Title: "Book", Pages: n + 1})
			_, _ = db.ListBooks(ctx, 1)
		}(i)
	}
	wg.Wait()

	list, _ := db.ListBooks(ctx, 1)
	if len(list) != 20 {
		t.Errorf("Expected 20 books, got %d", len(list))
	}
}

package models

import (
	"fmt"
	"strings"
)

// Category classifies a book by reading density
type Category int

const (
	CategoryUnknown Category = iota
	CategoryDivulgation
	CategoryTheory
	CategoryAnalysis
)

// Categories lists every known category in display order
var Categories = []Category{CategoryDivulgation, CategoryTheory, CategoryAnalysis}

// Code returns the one-letter category code used in plan files and storage
func (c Category) Code() string {
	switch c {
	case CategoryDivulgation:
		return "D"
	case CategoryTheory:
		return "T"
	case CategoryAnalysis:
		return "A"
	default:
		return "?"
	}
}

// MessageKey is the catalog key of the category's display name
func (c Category) MessageKey() string {
	code := c.Code()
	if code == "?" {
		return "category_unknown"
	}
	return "category_" + strings.ToLower(code)
}

func (c Category) String() string {
	switch c {
	case CategoryDivulgation:
		return "divulgation"
	case CategoryTheory:
		return "theory"
	case CategoryAnalysis:
		return "analysis"
	default:
		return "unknown"
	}
}

// categoryAliases maps lowercase codes and names (English and Spanish) to categories
var categoryAliases = map[string]Category{
	"d":               CategoryDivulgation,
	"divulgation":     CategoryDivulgation,
	"popular science": CategoryDivulgation,
	"divulgación":     CategoryDivulgation,
	"divulgacion":     CategoryDivulgation,
	"t":               CategoryTheory,
	"theory":          CategoryTheory,
	"teoría":          CategoryTheory,
	"teoria":          CategoryTheory,
	"a":               CategoryAnalysis,
	"analysis":        CategoryAnalysis,
	"análisis":        CategoryAnalysis,
	"analisis":        CategoryAnalysis,
}

// ParseCategory converts a code or a localized category name into a Category
func ParseCategory(s string) (Category, error) {
	if c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return CategoryUnknown, fmt.Errorf("unknown category %q (use D, T or A)", s)
}

// MarshalText implements encoding.TextMarshaler
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.Code()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Book represents a book in a reading list
type Book struct {
	Title    string   `json:"title" yaml:"title"`
	Pages    int      `json:"pages" yaml:"pages"`
	Category Category `json:"category" yaml:"category"`
}

// Validate checks that the book can be scheduled
func (b Book) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("book title is required")
	}
	if b.Pages <= 0 {
		return fmt.Errorf("book %q: pages must be positive, got %d", b.Title, b.Pages)
	}
	return nil
}

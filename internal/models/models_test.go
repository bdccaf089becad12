package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseCategory(t *testing.T) {
	testCases := []struct {
		input    string
		expected Category
	}{
		{input: "D", expected: CategoryDivulgation},
		{input: "t", expected: CategoryTheory},
		{input: " A ", expected: CategoryAnalysis},
		{input: "Divulgación", expected: CategoryDivulgation},
		{input: "Popular Science", expected: CategoryDivulgation},
		{input: "Teoría", expected: CategoryTheory},
		{input: "analysis", expected: CategoryAnalysis},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			c, err := ParseCategory(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, c)
		})
	}

	c, err := ParseCategory("poetry")
	assert.Error(t, err)
	assert.Equal(t, CategoryUnknown, c)
}

func TestCategory_Codes(t *testing.T) {
	for _, c := range Categories {
		parsed, err := ParseCategory(c.Code())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
	assert.Equal(t, "?", CategoryUnknown.Code())
}

func TestCategory_MessageKey(t *testing.T) {
	assert.Equal(t, "category_d", CategoryDivulgation.MessageKey())
	assert.Equal(t, "category_t", CategoryTheory.MessageKey())
	assert.Equal(t, "category_a", CategoryAnalysis.MessageKey())
	assert.Equal(t, "category_unknown", CategoryUnknown.MessageKey())
	assert.Equal(t, "category_unknown", Category(42).MessageKey())
}

func TestSpeedTable_MinutesPerPage(t *testing.T) {
	table := DefaultSpeedTable()
	assert.InDelta(t, 2.0, table.MinutesPerPage(CategoryDivulgation), 1e-9)
	assert.InDelta(t, 145.0/60, table.MinutesPerPage(CategoryTheory), 1e-9)
	assert.InDelta(t, 3.0, table.MinutesPerPage(CategoryAnalysis), 1e-9)
	assert.Equal(t, DefaultMinutesPerPage, table.MinutesPerPage(CategoryUnknown))

	broken := SpeedTable{CategoryTheory: 0}
	assert.Equal(t, DefaultMinutesPerPage, broken.MinutesPerPage(CategoryTheory))
}

func TestFormatPace(t *testing.T) {
	assert.Equal(t, "02:00", FormatPace(120))
	assert.Equal(t, "02:25", FormatPace(145))
	assert.Equal(t, "00:20", FormatPace(20))
	assert.Equal(t, "06:00", FormatPace(360))
	assert.Equal(t, "02:25", FormatPace(145.0/60*60))
}

func TestWeekdaySet(t *testing.T) {
	set, err := WeekdaysFromIndexes(0, 2)
	require.NoError(t, err)
	assert.True(t, set.Has(time.Monday))
	assert.True(t, set.Has(time.Wednesday))
	assert.False(t, set.Has(time.Sunday))
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday}, set.Days())
	assert.Equal(t, "mon,wed", set.String())

	sunday, err := WeekdaysFromIndexes(6)
	require.NoError(t, err)
	assert.Equal(t, NewWeekdaySet(time.Sunday), sunday)

	_, err = WeekdaysFromIndexes(7)
	assert.Error(t, err)

	assert.True(t, WeekdaySet(0).Empty())
	assert.False(t, set.Empty())
}

func TestParseWeekdays(t *testing.T) {
	set, err := ParseWeekdays("Mon, wednesday,sábado")
	require.NoError(t, err)
	assert.Equal(t, NewWeekdaySet(time.Monday, time.Wednesday, time.Saturday), set)

	empty, err := ParseWeekdays("")
	require.NoError(t, err)
	assert.True(t, empty.Empty())

	_, err = ParseWeekdays("mon,someday")
	assert.Error(t, err)

	indexed, err := ParseWeekdays("0, 2,6")
	require.NoError(t, err)
	assert.Equal(t, NewWeekdaySet(time.Monday, time.Wednesday, time.Sunday), indexed)

	mixed, err := ParseWeekdays("4,sat")
	require.NoError(t, err)
	assert.Equal(t, "fri,sat", mixed.String())

	_, err = ParseWeekdays("1,7")
	assert.ErrorContains(t, err, "out of range")
}

func TestClockTime(t *testing.T) {
	c, err := ParseClockTime("19:30")
	require.NoError(t, err)
	assert.Equal(t, ClockTime{Hour: 19, Minute: 30}, c)
	assert.Equal(t, "19:30", c.String())

	day := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 6, 19, 30, 0, 0, time.UTC), c.On(day))

	_, err = ParseClockTime("25:00")
	assert.Error(t, err)
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, 4, DaysBetween(a, b))
	assert.Equal(t, 4, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}

func TestBook_YAML(t *testing.T) {
	var books []Book
	err := yaml.Unmarshal([]byte(`
- title: Algorithms to Live By
  pages: 368
  category: D
- title: Why Machines Learn
  pages: 130
  category: Teoría
`), &books)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, CategoryDivulgation, books[0].Category)
	assert.Equal(t, CategoryTheory, books[1].Category)
	assert.NoError(t, books[0].Validate())

	err = yaml.Unmarshal([]byte("- {title: x, pages: 1, category: Z}"), &books)
	assert.Error(t, err)
}

func TestBook_Validate(t *testing.T) {
	assert.Error(t, Book{Title: " ", Pages: 10}.Validate())
	assert.Error(t, Book{Title: "x", Pages: 0}.Validate())
	assert.NoError(t, Book{Title: "x", Pages: 1}.Validate())
}

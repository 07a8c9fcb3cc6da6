package stats

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booktracker/booktracker/internal/entities"
)

func bookOn(shelf entities.Shelf, pageCount, progress int, savedAt time.Time) entities.Book {
	return entities.Book{
		Title:     "Test Book",
		Shelf:     shelf,
		PageCount: pageCount,
		Progress:  progress,
		SavedAt:   savedAt,
	}
}

func TestComputeEmptyLibrary(t *testing.T) {
	stats := Compute(nil, time.Now())

	assert.Equal(t, 0, stats.TotalBooks)
	assert.Equal(t, 0, stats.TotalPages)
	assert.Equal(t, 0, stats.PagesRead)
	assert.Equal(t, 0.0, stats.AverageProgress)
}

func TestComputePagesReadRoundsPerBook(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	books := []entities.Book{
		bookOn(entities.ShelfCurrentlyReading, 100, 50, now),
		bookOn(entities.ShelfWantToRead, 200, 0, now),
		bookOn(entities.ShelfFinished, 300, 100, now),
	}

	stats := Compute(books, now)

	assert.Equal(t, 3, stats.TotalBooks)
	assert.Equal(t, 600, stats.TotalPages)
	assert.Equal(t, 350, stats.PagesRead)
	assert.Equal(t, 50.0, stats.AverageProgress)
	assert.Equal(t, 1, stats.BooksRead)
	assert.Equal(t, 1, stats.BooksReading)
	assert.Equal(t, 1, stats.BooksWantToRead)
}

func TestComputePagesReadNeverExceedsTotal(t *testing.T) {
	now := time.Now()
	books := []entities.Book{
		bookOn(entities.ShelfCurrentlyReading, 333, 33, now),
		bookOn(entities.ShelfCurrentlyReading, 101, 99, now),
		bookOn(entities.ShelfFinished, 57, 100, now),
	}

	stats := Compute(books, now)

	assert.LessOrEqual(t, stats.PagesRead, stats.TotalPages)
}

func TestComputeBooksThisMonth(t *testing.T) {
	now := time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC)
	books := []entities.Book{
		bookOn(entities.ShelfWantToRead, 100, 0, now),
		bookOn(entities.ShelfWantToRead, 100, 0, now.AddDate(0, -1, 0)),
		// Same month a year earlier must not count.
		bookOn(entities.ShelfWantToRead, 100, 0, now.AddDate(-1, 0, 0)),
	}

	stats := Compute(books, now)

	assert.Equal(t, 1, stats.BooksThisMonth)
}

func TestComputeMonthlyProgressBucketsByMonth(t *testing.T) {
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	march := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	books := []entities.Book{
		bookOn(entities.ShelfFinished, 200, 100, march),
		bookOn(entities.ShelfCurrentlyReading, 100, 50, march),
		bookOn(entities.ShelfFinished, 400, 100, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)),
	}

	buckets := ComputeMonthlyProgress(books, now)

	require.Len(t, buckets, 12)
	assert.Equal(t, "Mar", buckets[2].Month)
	assert.Equal(t, 1, buckets[2].BooksRead)
	assert.Equal(t, 250, buckets[2].PagesRead)
	assert.Equal(t, 75, buckets[2].AverageProgress)
	// Prior-year record contributes nowhere.
	for i, bucket := range buckets {
		if i == 2 {
			continue
		}
		assert.Equal(t, 0, bucket.BooksRead)
		assert.Equal(t, 0, bucket.PagesRead)
	}
}

func TestComputeGenreDistributionPercentagesSumToWhole(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	books := make([]entities.Book, 10)

	distribution := ComputeGenreDistribution(books, rng)

	require.Len(t, distribution, 7)
	assert.Equal(t, "Fiction", distribution[0].Genre)
	assert.Equal(t, "History", distribution[6].Genre)

	sum := 0
	for _, slice := range distribution {
		assert.GreaterOrEqual(t, slice.Count, 1)
		assert.LessOrEqual(t, slice.Count, 6)
		sum += slice.Percentage
	}
	// Rounding can move the total a few points off 100.
	assert.InDelta(t, 100, sum, 7)
}

func TestComputeGenreDistributionEmptyLibrary(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	distribution := ComputeGenreDistribution(nil, rng)

	for _, slice := range distribution {
		assert.Equal(t, 1, slice.Count)
		assert.Equal(t, 14, slice.Percentage)
	}
}

func TestComputeReadingStreakCapsAtSevenAndThirty(t *testing.T) {
	now := time.Now()
	var books []entities.Book
	for i := 0; i < 20; i++ {
		books = append(books, bookOn(entities.ShelfFinished, 100, 100, now.AddDate(0, 0, -i)))
	}

	streak := ComputeReadingStreak(books, now)

	assert.Equal(t, 7, streak.Current)
	assert.Equal(t, 30, streak.Longest)
	assert.Equal(t, now, streak.LastActivity)
}

func TestComputeReadingStreakEmpty(t *testing.T) {
	now := time.Now()

	streak := ComputeReadingStreak(nil, now)

	assert.Equal(t, 0, streak.Current)
	assert.Equal(t, 0, streak.Longest)
	assert.Equal(t, now, streak.LastActivity)
}

func TestComputeYearlyGoals(t *testing.T) {
	now := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	books := []entities.Book{
		bookOn(entities.ShelfFinished, 300, 100, now),
		bookOn(entities.ShelfCurrentlyReading, 200, 50, now),
		bookOn(entities.ShelfFinished, 500, 100, now.AddDate(-1, 0, 0)),
	}

	goals := ComputeYearlyGoals(books, now)

	assert.Equal(t, 24, goals.BooksGoal)
	assert.Equal(t, 8000, goals.PagesGoal)
	assert.Equal(t, 1, goals.BooksProgress)
	assert.Equal(t, 400, goals.PagesProgress)
}

func TestComputeReadingSpeedOneWeekPerBook(t *testing.T) {
	now := time.Now()
	books := []entities.Book{
		{Title: "First", Shelf: entities.ShelfFinished, PageCount: 350, Progress: 100, SavedAt: now},
		{Title: "Second", Shelf: entities.ShelfFinished, PageCount: 350, Progress: 100, SavedAt: now},
		{Title: "Skipped", Shelf: entities.ShelfCurrentlyReading, PageCount: 900, Progress: 10, SavedAt: now},
	}

	speed := ComputeReadingSpeed(books)

	assert.Equal(t, 50, speed.AveragePagesPerDay)
	assert.Equal(t, 7, speed.AverageTimePerBook)
	assert.Equal(t, "First", speed.FastestBook)
	assert.Equal(t, "Second", speed.SlowestBook)
}

func TestComputeReadingSpeedNothingFinished(t *testing.T) {
	books := []entities.Book{
		bookOn(entities.ShelfWantToRead, 100, 0, time.Now()),
	}

	speed := ComputeReadingSpeed(books)

	assert.Equal(t, 0, speed.AveragePagesPerDay)
	assert.Equal(t, 7, speed.AverageTimePerBook)
	assert.Equal(t, "No books finished yet", speed.FastestBook)
	assert.Equal(t, "No books finished yet", speed.SlowestBook)
}

func TestComputeTopAuthorsGroupsByFirstAuthor(t *testing.T) {
	now := time.Now()
	books := []entities.Book{
		{Authors: []string{"Ursula K. Le Guin"}, PageCount: 200, SavedAt: now},
		{Authors: []string{"Ursula K. Le Guin", "Somebody Else"}, PageCount: 300, SavedAt: now},
		{Authors: []string{"Italo Calvino"}, PageCount: 150, SavedAt: now},
		{Authors: nil, PageCount: 999, SavedAt: now},
	}

	authors := ComputeTopAuthors(books)

	require.Len(t, authors, 2)
	assert.Equal(t, "Ursula K. Le Guin", authors[0].Author)
	assert.Equal(t, 2, authors[0].BooksRead)
	assert.Equal(t, 500, authors[0].TotalPages)
	assert.Equal(t, "Italo Calvino", authors[1].Author)
}

func TestComputeTopAuthorsLimitsToFive(t *testing.T) {
	var books []entities.Book
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		books = append(books, entities.Book{Authors: []string{name}, PageCount: 100})
	}

	authors := ComputeTopAuthors(books)

	assert.Len(t, authors, 5)
	for i := 1; i < len(authors); i++ {
		assert.GreaterOrEqual(t, authors[i-1].BooksRead, authors[i].BooksRead)
	}
}

func TestComputeReadingHabits(t *testing.T) {
	now := time.Now()
	books := []entities.Book{
		bookOn(entities.ShelfFinished, 300, 100, now),
		bookOn(entities.ShelfFinished, 100, 100, now),
		bookOn(entities.ShelfWantToRead, 500, 0, now),
	}

	habits := ComputeReadingHabits(books)

	assert.Equal(t, 67, habits.CompletionRate)
	assert.Equal(t, 200, habits.AverageBookLength)
	assert.Equal(t, "Fiction", habits.FavoriteGenre)
	assert.Equal(t, "January", habits.MostProductiveMonth)
}

func TestComputeAnalyticsAssemblesAllSections(t *testing.T) {
	now := time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(7))
	books := []entities.Book{
		bookOn(entities.ShelfFinished, 320, 100, now),
		bookOn(entities.ShelfCurrentlyReading, 180, 40, now),
	}

	analytics := ComputeAnalytics(books, now, rng)

	assert.Len(t, analytics.MonthlyProgress, 12)
	assert.Len(t, analytics.GenreDistribution, 7)
	assert.Equal(t, 1, analytics.ReadingStreak.Current)
	assert.Equal(t, 1, analytics.YearlyGoals.BooksProgress)
	assert.Equal(t, "Fiction", analytics.ReadingHabits.FavoriteGenre)
}

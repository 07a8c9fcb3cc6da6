package stats

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/booktracker/booktracker/internal/entities"
)

// genreLabels is the fixed label set for the genre distribution. The
// catalog rarely supplies usable category data, so the distribution is
// drawn at random over these labels (see ComputeGenreDistribution).
var genreLabels = []string{
	"Fiction", "Non-Fiction", "Mystery", "Romance", "Sci-Fi", "Biography", "History",
}

var monthLabels = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// Analytics is the derived-metrics view served by GET /api/analytics.
// Several of its sections are documented placeholders rather than real
// signal; see the individual compute functions.
type Analytics struct {
	MonthlyProgress   []MonthlyBucket `json:"monthlyProgress"`
	GenreDistribution []GenreSlice    `json:"genreDistribution"`
	ReadingStreak     ReadingStreak   `json:"readingStreak"`
	YearlyGoals       YearlyGoals     `json:"yearlyGoals"`
	ReadingSpeed      ReadingSpeed    `json:"readingSpeed"`
	TopAuthors        []AuthorSummary `json:"topAuthors"`
	ReadingHabits     ReadingHabits   `json:"readingHabits"`
}

type MonthlyBucket struct {
	Month           string `json:"month"`
	BooksRead       int    `json:"booksRead"`
	PagesRead       int    `json:"pagesRead"`
	AverageProgress int    `json:"averageProgress"`
}

type GenreSlice struct {
	Genre      string `json:"genre"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type ReadingStreak struct {
	Current      int       `json:"current"`
	Longest      int       `json:"longest"`
	LastActivity time.Time `json:"lastActivity"`
}

type YearlyGoals struct {
	BooksGoal     int `json:"booksGoal"`
	PagesGoal     int `json:"pagesGoal"`
	BooksProgress int `json:"booksProgress"`
	PagesProgress int `json:"pagesProgress"`
}

type ReadingSpeed struct {
	AveragePagesPerDay int    `json:"averagePagesPerDay"`
	AverageTimePerBook int    `json:"averageTimePerBook"`
	FastestBook        string `json:"fastestBook"`
	SlowestBook        string `json:"slowestBook"`
}

type AuthorSummary struct {
	Author     string `json:"author"`
	BooksRead  int    `json:"booksRead"`
	TotalPages int    `json:"totalPages"`
}

type ReadingHabits struct {
	FavoriteGenre       string `json:"favoriteGenre"`
	AverageBookLength   int    `json:"averageBookLength"`
	CompletionRate      int    `json:"completionRate"`
	MostProductiveMonth string `json:"mostProductiveMonth"`
}

// ComputeAnalytics derives the full analytics view from the record set.
// now anchors the calendar-year buckets; rng feeds the genre draw so
// tests can pin it down.
func ComputeAnalytics(books []entities.Book, now time.Time, rng *rand.Rand) Analytics {
	return Analytics{
		MonthlyProgress:   ComputeMonthlyProgress(books, now),
		GenreDistribution: ComputeGenreDistribution(books, rng),
		ReadingStreak:     ComputeReadingStreak(books, now),
		YearlyGoals:       ComputeYearlyGoals(books, now),
		ReadingSpeed:      ComputeReadingSpeed(books),
		TopAuthors:        ComputeTopAuthors(books),
		ReadingHabits:     ComputeReadingHabits(books),
	}
}

// ComputeMonthlyProgress buckets records into the twelve months of the
// current calendar year by save date. Records from other years are
// ignored entirely.
func ComputeMonthlyProgress(books []entities.Book, now time.Time) []MonthlyBucket {
	buckets := make([]MonthlyBucket, len(monthLabels))

	for i, label := range monthLabels {
		bucket := MonthlyBucket{Month: label}

		progressSum := 0
		monthCount := 0
		for _, book := range books {
			if book.SavedAt.Year() != now.Year() || int(book.SavedAt.Month())-1 != i {
				continue
			}
			monthCount++
			if book.Shelf == entities.ShelfFinished {
				bucket.BooksRead++
			}
			bucket.PagesRead += PagesRead(book)
			progressSum += book.Progress
		}

		if monthCount > 0 {
			bucket.AverageProgress = int(math.Round(float64(progressSum) / float64(monthCount)))
		}
		buckets[i] = bucket
	}

	return buckets
}

// ComputeGenreDistribution assigns each fixed genre label a uniformly
// random count and derives percentages from the draw. This is a
// deliberate placeholder carried over from the original system: the
// catalog's category data is too sparse to chart, so the output is
// NON-DETERMINISTIC and unrelated to the actual record set. Percentages
// still always sum to 100 within rounding error.
func ComputeGenreDistribution(books []entities.Book, rng *rand.Rand) []GenreSlice {
	distribution := make([]GenreSlice, len(genreLabels))
	total := 0
	for i, genre := range genreLabels {
		count := int(rng.Float64()*float64(len(books))/2) + 1
		distribution[i] = GenreSlice{Genre: genre, Count: count}
		total += count
	}

	for i := range distribution {
		distribution[i].Percentage = int(math.Round(float64(distribution[i].Count) / float64(total) * 100))
	}

	return distribution
}

// ComputeReadingStreak is a heuristic stand-in, not a real
// consecutive-day computation: current = min(finished, 7) and
// longest = min(finished*2, 30). LastActivity is the most recent
// finished book's save date, falling back to now.
func ComputeReadingStreak(books []entities.Book, now time.Time) ReadingStreak {
	streak := ReadingStreak{LastActivity: now}

	finished := 0
	var latest time.Time
	for _, book := range books {
		if book.Shelf != entities.ShelfFinished {
			continue
		}
		finished++
		if book.SavedAt.After(latest) {
			latest = book.SavedAt
		}
	}

	if finished > 0 {
		streak.Current = min(finished, 7)
		streak.Longest = min(finished*2, 30)
		streak.LastActivity = latest
	}

	return streak
}

// ComputeYearlyGoals reports progress toward fixed default goals over
// records saved in the current calendar year.
func ComputeYearlyGoals(books []entities.Book, now time.Time) YearlyGoals {
	goals := YearlyGoals{
		BooksGoal: 24,
		PagesGoal: 8000,
	}

	for _, book := range books {
		if book.SavedAt.Year() != now.Year() {
			continue
		}
		if book.Shelf == entities.ShelfFinished {
			goals.BooksProgress++
		}
		goals.PagesProgress += PagesRead(book)
	}

	return goals
}

// ComputeReadingSpeed assumes exactly one week per finished book rather
// than deriving elapsed time from timestamps; another documented
// placeholder. Fastest/slowest fall back to a fixed message when nothing
// is finished.
func ComputeReadingSpeed(books []entities.Book) ReadingSpeed {
	speed := ReadingSpeed{
		AverageTimePerBook: 7,
		FastestBook:        "No books finished yet",
		SlowestBook:        "No books finished yet",
	}

	var finished []entities.Book
	totalPages := 0
	for _, book := range books {
		if book.Shelf == entities.ShelfFinished {
			finished = append(finished, book)
			totalPages += book.PageCount
		}
	}

	if len(finished) == 0 {
		return speed
	}

	speed.AveragePagesPerDay = int(math.Round(float64(totalPages) / float64(len(finished)*7)))
	if speed.AveragePagesPerDay > 0 {
		perBook := int(math.Round(float64(totalPages) / float64(len(finished)) / float64(speed.AveragePagesPerDay)))
		if perBook > 0 {
			speed.AverageTimePerBook = perBook
		}
	}
	speed.FastestBook = finished[0].Title
	speed.SlowestBook = finished[len(finished)-1].Title

	return speed
}

// ComputeTopAuthors groups records by first-listed author and returns
// the top 5 by book count. Ties keep the order authors first appeared
// in the record set. Records without authors are skipped.
func ComputeTopAuthors(books []entities.Book) []AuthorSummary {
	index := make(map[string]int)
	var summaries []AuthorSummary

	for _, book := range books {
		if len(book.Authors) == 0 {
			continue
		}
		author := book.Authors[0]
		if i, ok := index[author]; ok {
			summaries[i].BooksRead++
			summaries[i].TotalPages += book.PageCount
		} else {
			index[author] = len(summaries)
			summaries = append(summaries, AuthorSummary{
				Author:     author,
				BooksRead:  1,
				TotalPages: book.PageCount,
			})
		}
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].BooksRead > summaries[j].BooksRead
	})

	if len(summaries) > 5 {
		summaries = summaries[:5]
	}
	return summaries
}

// ComputeReadingHabits reports completion rate and average finished book
// length. FavoriteGenre and MostProductiveMonth are hardcoded
// placeholders carried over from the original system.
func ComputeReadingHabits(books []entities.Book) ReadingHabits {
	habits := ReadingHabits{
		FavoriteGenre:       "Fiction",
		MostProductiveMonth: "January",
	}

	finished := 0
	finishedPages := 0
	for _, book := range books {
		if book.Shelf == entities.ShelfFinished {
			finished++
			finishedPages += book.PageCount
		}
	}

	if len(books) > 0 {
		habits.CompletionRate = int(math.Round(float64(finished) / float64(len(books)) * 100))
	}
	if finished > 0 {
		habits.AverageBookLength = int(math.Round(float64(finishedPages) / float64(finished)))
	}

	return habits
}

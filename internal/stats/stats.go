// Package stats computes reading statistics and analytics from a user's
// saved books. All functions are pure over their inputs: the caller
// supplies the record set, the reference time, and (for the analytics
// placeholders) the random source.
package stats

import (
	"math"
	"time"

	"github.com/booktracker/booktracker/internal/entities"
)

// ReadingStats is the aggregate view over all of a user's saved books.
type ReadingStats struct {
	TotalBooks      int     `json:"totalBooks"`
	BooksRead       int     `json:"booksRead"`
	BooksReading    int     `json:"booksReading"`
	BooksWantToRead int     `json:"booksWantToRead"`
	TotalPages      int     `json:"totalPages"`
	PagesRead       int     `json:"pagesRead"`
	AverageProgress float64 `json:"averageProgress"`
	BooksThisMonth  int     `json:"booksThisMonth"`
}

// PagesRead returns the estimated pages read for one record:
// round(pageCount * progress / 100). Because progress is not clamped,
// values above 100 inflate the estimate; that mirrors the stored data.
func PagesRead(book entities.Book) int {
	return int(math.Round(float64(book.Progress) / 100 * float64(book.PageCount)))
}

// Compute aggregates the record set into ReadingStats. now anchors the
// "saved this month" bucket to the current calendar month.
func Compute(books []entities.Book, now time.Time) ReadingStats {
	s := ReadingStats{TotalBooks: len(books)}

	progressSum := 0
	for _, book := range books {
		switch book.Shelf {
		case entities.ShelfFinished:
			s.BooksRead++
		case entities.ShelfCurrentlyReading:
			s.BooksReading++
		case entities.ShelfWantToRead:
			s.BooksWantToRead++
		}

		s.TotalPages += book.PageCount
		s.PagesRead += PagesRead(book)
		progressSum += book.Progress

		if book.SavedAt.Month() == now.Month() && book.SavedAt.Year() == now.Year() {
			s.BooksThisMonth++
		}
	}

	if len(books) > 0 {
		s.AverageProgress = float64(progressSum) / float64(len(books))
	}

	return s
}

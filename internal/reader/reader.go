// Package reader serves in-app reading content for public-domain
// classics. Copyrighted titles get no content here; the client falls
// back to external source links for those.
package reader

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/booktracker/booktracker/internal/entities"
)

const gutenbergSearchURL = "https://www.gutenberg.org/ebooks/search/?query="

// BookContent is a paginated sample of a public-domain work.
type BookContent struct {
	Title       string   `json:"title"`
	Content     []string `json:"content"`
	TotalPages  int      `json:"totalPages"`
	CurrentPage int      `json:"currentPage"`
	Source      string   `json:"source"`
	DownloadURL string   `json:"downloadUrl"`
}

// classicAuthors are authors whose works are in the public domain.
var classicAuthors = []string{
	"jane austen",
	"charles dickens",
	"arthur conan doyle",
	"mark twain",
	"oscar wilde",
	"h.g. wells",
	"jules verne",
	"lewis carroll",
	"charlotte bronte",
	"emily bronte",
	"george eliot",
	"thomas hardy",
	"edgar allan poe",
	"nathaniel hawthorne",
	"herman melville",
	"washington irving",
	"henry james",
	"edith wharton",
	"jack london",
	"robert louis stevenson",
	"bram stoker",
	"mary shelley",
	"alexandre dumas",
	"victor hugo",
	"gustave flaubert",
	"leo tolstoy",
	"fyodor dostoevsky",
	"anton chekhov",
	"william shakespeare",
	"geoffrey chaucer",
	"daniel defoe",
	"jonathan swift",
	"miguel de cervantes",
}

var classicTitles = []string{
	"pride and prejudice",
	"sense and sensibility",
	"emma",
	"mansfield park",
	"great expectations",
	"oliver twist",
	"david copperfield",
	"a tale of two cities",
	"sherlock holmes",
	"hound of the baskervilles",
	"study in scarlet",
	"adventures of tom sawyer",
	"adventures of huckleberry finn",
	"prince and the pauper",
	"picture of dorian gray",
	"importance of being earnest",
	"time machine",
	"war of the worlds",
	"invisible man",
	"island of dr. moreau",
	"twenty thousand leagues",
	"around the world in eighty days",
	"mysterious island",
	"alice's adventures in wonderland",
	"through the looking glass",
	"jane eyre",
	"wuthering heights",
	"silas marner",
	"middlemarch",
	"tess of the d'urbervilles",
	"jude the obscure",
	"mayor of casterbridge",
	"raven",
	"fall of the house of usher",
	"tell-tale heart",
	"scarlet letter",
	"house of seven gables",
	"moby dick",
	"bartleby",
	"legend of sleepy hollow",
	"rip van winkle",
	"turn of the screw",
	"age of innocence",
	"ethan frome",
	"call of the wild",
	"white fang",
	"treasure island",
	"kidnapped",
	"dr. jekyll and mr. hyde",
	"dracula",
	"frankenstein",
	"three musketeers",
	"count of monte cristo",
	"les miserables",
	"hunchback of notre dame",
	"madame bovary",
	"war and peace",
	"anna karenina",
	"crime and punishment",
	"brothers karamazov",
	"cherry orchard",
	"three sisters",
	"uncle vanya",
	"hamlet",
	"macbeth",
	"romeo and juliet",
	"othello",
	"king lear",
	"canterbury tales",
	"robinson crusoe",
	"gulliver's travels",
	"don quixote",
}

// IsClassic reports whether the title or first author matches the
// public-domain catalog. Matching is fuzzy in both directions so
// catalog variants like "Dracula (Annotated)" still hit.
func IsClassic(title string, authors []string) bool {
	titleLower := strings.ToLower(title)
	authorLower := ""
	if len(authors) > 0 {
		authorLower = strings.ToLower(authors[0])
	}
	authorFirstWord := strings.SplitN(authorLower, " ", 2)[0]

	for _, author := range classicAuthors {
		if strings.Contains(authorLower, author) {
			return true
		}
		if authorFirstWord != "" && strings.Contains(author, authorFirstWord) {
			return true
		}
	}

	titleWords := strings.Split(titleLower, " ")
	titlePrefix := strings.Join(titleWords[:min(2, len(titleWords))], " ")
	for _, classic := range classicTitles {
		if strings.Contains(titleLower, classic) {
			return true
		}
		if titlePrefix != "" && strings.Contains(classic, titlePrefix) {
			return true
		}
	}

	return false
}

// ContentFor returns sample reading content for a saved book, or nil
// when the work is not recognized as public domain.
func ContentFor(book *entities.Book) *BookContent {
	if !IsClassic(book.Title, book.Authors) {
		return nil
	}

	author := "Unknown Author"
	if len(book.Authors) > 0 {
		author = strings.Join(book.Authors, ", ")
	}
	pages := samplePages(book.Title, author)

	return &BookContent{
		Title:       book.Title,
		Content:     pages,
		TotalPages:  len(pages),
		CurrentPage: 1,
		Source:      "gutenberg",
		DownloadURL: gutenbergSearchURL + url.QueryEscape(book.Title),
	}
}

// samplePages stands in for a Project Gutenberg fetch. Wiring in real
// Gutenberg plain-text downloads is tracked separately.
func samplePages(title, author string) []string {
	return []string{
		fmt.Sprintf("%s\n\nBy %s\n\n--- Chapter 1 ---\n\n"+
			"This is a sample of classic literature content. The full text of this work "+
			"is in the public domain and freely available through Project Gutenberg.\n\n"+
			"Project Gutenberg offers over 60,000 free eBooks, primarily consisting of "+
			"works that are in the public domain in the United States.", title, author),
		"Chapter 2: The Reading Experience\n\n" +
			"Navigate through the book using the Previous and Next controls. The progress " +
			"bar shows your current position, and your overall reading progress can be " +
			"updated in your library at any time.\n\n" +
			"Bookmarks are saved locally so you can jump back to marked pages.",
		"Chapter 3: Available Content\n\n" +
			"For classic literature, generally works published before 1928 in the United " +
			"States, full text is available through Project Gutenberg.\n\n" +
			"Examples include Pride and Prejudice, Great Expectations, The Adventures of " +
			"Sherlock Holmes, The Time Machine, and thousands more works from literature, " +
			"philosophy, science, and history.",
		"Chapter 4: Modern Books\n\n" +
			"For books still under copyright protection, use the external source links to " +
			"search Project Gutenberg, browse the Internet Archive, check Google Books " +
			"previews, or find purchase options. This keeps reading options legal while " +
			"respecting authors' and publishers' rights.",
		"Final Chapter\n\n" +
			"This concludes the sample. Use the download link to search Project Gutenberg " +
			"for the complete text of this work.\n\n--- End of Sample ---",
	}
}

// Package goodreads parses goodreads library export CSV files into plain
// book records. It knows nothing about note folders or templates.
package goodreads

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// ErrFormat reports a CSV file that is not a goodreads library export.
var ErrFormat = errors.New("not a goodreads export")

// Column names read from the export. The export carries more columns; only
// these must be present.
const (
	colBookID      = "Book Id"
	colTitle       = "Title"
	colAuthor      = "Author"
	colRating      = "My Rating"
	colISBN        = "ISBN"
	colISBN13      = "ISBN13"
	colBookshelves = "Bookshelves"
	colReview      = "My Review"
)

var requiredColumns = []string{
	colBookID, colTitle, colAuthor, colRating,
	colISBN, colISBN13, colBookshelves, colReview,
}

// Series references are packed into the title as a parenthesized suffix,
// "Title (Series One, #1; Series Two, #5)". The inner pattern strips the
// position marker from each reference.
var (
	titleSeriesPattern = regexp.MustCompile(`\(([^)\n]*)\)`)
	seriesEntryPattern = regexp.MustCompile(`([^#;]*), #\d+(?:;|$)`)
)

// Book is one record of the export, with the title split from its series
// references and the review converted from HTML to markdown.
type Book struct {
	BookID  string
	Title   string
	Author  string
	Rating  int
	ISBN    string
	ISBN13  string
	Review  string
	Shelves []string
	Series  []string
}

// Tags maps the record's shelves to hashtags.
func (b Book) Tags() []string {
	tags := make([]string, 0, len(b.Shelves))
	for _, shelf := range b.Shelves {
		tags = append(tags, "#book/"+shelf)
	}

	return tags
}

// Parse reads a goodreads library export. The header must carry every
// required column or parsing fails with ErrFormat naming the missing ones.
func Parse(r io.Reader) ([]Book, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrFormat, err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	converter := md.NewConverter("", true, nil)

	var books []Book

	for {
		row, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return nil, fmt.Errorf("reading export row: %w", readErr)
		}

		book, rowErr := parseRow(row, index, converter)
		if rowErr != nil {
			return nil, rowErr
		}

		books = append(books, book)
	}

	return books, nil
}

// columnIndex maps required column names to their positions.
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string

	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)

		return nil, fmt.Errorf("%w: missing columns %s", ErrFormat, strings.Join(missing, ", "))
	}

	return index, nil
}

func parseRow(row []string, index map[string]int, converter *md.Converter) (Book, error) {
	field := func(name string) string {
		i := index[name]
		if i >= len(row) {
			return ""
		}

		return row[i]
	}

	bookID := field(colBookID)

	rating, err := strconv.Atoi(strings.TrimSpace(field(colRating)))
	if err != nil {
		return Book{}, fmt.Errorf("book %s: rating %q is not a number: %w", bookID, field(colRating), err)
	}

	review, err := convertReview(converter, field(colReview))
	if err != nil {
		return Book{}, fmt.Errorf("book %s: converting review: %w", bookID, err)
	}

	return Book{
		BookID:  bookID,
		Title:   field(colTitle),
		Author:  field(colAuthor),
		Rating:  rating,
		ISBN:    unwrapISBN(field(colISBN)),
		ISBN13:  unwrapISBN(field(colISBN13)),
		Review:  review,
		Shelves: splitShelves(field(colBookshelves)),
		Series:  parseSeries(field(colTitle)),
	}, nil
}

// convertReview turns the HTML review into markdown. Goodreads uses bare
// <br/> runs as paragraph breaks, which survive conversion as newlines.
func convertReview(converter *md.Converter, html string) (string, error) {
	if html == "" {
		return "", nil
	}

	return converter.ConvertString(html)
}

// unwrapISBN strips the ="..." wrapper goodreads puts around ISBN values to
// keep spreadsheets from treating them as numbers.
func unwrapISBN(value string) string {
	value = strings.TrimPrefix(value, `="`)
	value = strings.TrimSuffix(value, `"`)

	return value
}

func splitShelves(value string) []string {
	if value == "" {
		return nil
	}

	var shelves []string

	for part := range strings.SplitSeq(value, ",") {
		if shelf := strings.TrimSpace(part); shelf != "" {
			shelves = append(shelves, shelf)
		}
	}

	return shelves
}

// parseSeries extracts series references from a title's parenthesized
// part, "Title (Series One, #1; Series Two, #5)". The title itself stays
// untouched; parentheses without ", #N" entries yield nothing.
func parseSeries(title string) []string {
	match := titleSeriesPattern.FindStringSubmatch(title)
	if match == nil {
		return nil
	}

	var series []string

	for _, entry := range seriesEntryPattern.FindAllStringSubmatch(match[1], -1) {
		if name := strings.TrimSpace(entry[1]); name != "" {
			series = append(series, name)
		}
	}

	return series
}

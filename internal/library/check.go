package library

import (
	"fmt"
	"strings"
)

// Fixture values for template self-checks. Arbitrary but stable, so check
// output is reproducible.
const (
	checkAuthorName  = "Mark Twain"
	checkBookAuthor  = "Jules Verne"
	checkBookTitle   = "Around the World in Eighty Days"
	checkBookID      = "54479"
	checkSeriesTitle = "Voyages extraordinaires"
)

// CheckReport carries the rendered fixtures so a caller can show them.
type CheckReport struct {
	AuthorFileName string
	AuthorContent  string
	BookFileName   string
	BookContent    string
	SeriesFileName string
	SeriesContent  string
}

// Check verifies that the active template set round-trips: notes rendered
// from fixture entities must parse back to the same identities through the
// extraction rules. All fixtures run inside a detached probe library, so no
// file is touched and nothing leaks into the receiver's maps. Failures wrap
// ErrCheckFailed.
func (l *Library) Check() (*CheckReport, error) {
	probe := New("", l.templates, l.log)
	report := &CheckReport{}

	err := probe.checkAuthor(report)
	if err != nil {
		return report, err
	}

	if err := probe.checkBook(report); err != nil {
		return report, err
	}

	if err := probe.checkSeries(report); err != nil {
		return report, err
	}

	return report, nil
}

func (l *Library) checkAuthor(report *CheckReport) error {
	author := NewAuthorFile(l, "", checkAuthorName)

	name, err := author.FileName()
	if err != nil {
		return fmt.Errorf("%w: rendering author file name: %v", ErrCheckFailed, err)
	}

	content, err := author.Content()
	if err != nil {
		return fmt.Errorf("%w: rendering author content: %v", ErrCheckFailed, err)
	}

	report.AuthorFileName = name
	report.AuthorContent = content

	parsed, err := ParseAuthorFile(l, "", name, content)
	if err != nil {
		return fmt.Errorf("%w: author content did not parse back: %v", ErrCheckFailed, err)
	}

	if parsed.Name() != checkAuthorName {
		return fmt.Errorf(
			"%w: author name %q parsed back as %q",
			ErrCheckFailed, checkAuthorName, parsed.Name(),
		)
	}

	return nil
}

func (l *Library) checkBook(report *CheckReport) error {
	author := NewAuthorFile(l, "", checkBookAuthor)
	book := NewBookFile(l, "", author, BookFields{
		Title:        checkBookTitle,
		BookID:       checkBookID,
		Rating:       5,
		SeriesTitles: []string{checkSeriesTitle},
	})

	name, err := book.FileName()
	if err != nil {
		return fmt.Errorf("%w: rendering book file name: %v", ErrCheckFailed, err)
	}

	content, err := book.Content()
	if err != nil {
		return fmt.Errorf("%w: rendering book content: %v", ErrCheckFailed, err)
	}

	report.BookFileName = name
	report.BookContent = content

	parsed, err := ParseBookFile(l, "", name, content)
	if err != nil {
		return fmt.Errorf("%w: book content did not parse back: %v", ErrCheckFailed, err)
	}

	switch {
	case parsed.BookID != checkBookID:
		return fmt.Errorf("%w: book id %q parsed back as %q", ErrCheckFailed, checkBookID, parsed.BookID)
	case parsed.Title != checkBookTitle:
		return fmt.Errorf("%w: book title %q parsed back as %q", ErrCheckFailed, checkBookTitle, parsed.Title)
	case parsed.Author.Name() != checkBookAuthor:
		return fmt.Errorf(
			"%w: book author %q parsed back as %q",
			ErrCheckFailed, checkBookAuthor, parsed.Author.Name(),
		)
	case !strings.Contains(strings.Join(parsed.SeriesTitles, "\n"), checkSeriesTitle):
		return fmt.Errorf(
			"%w: series title %q lost, parsed back %q",
			ErrCheckFailed, checkSeriesTitle, parsed.SeriesTitles,
		)
	}

	return nil
}

func (l *Library) checkSeries(report *CheckReport) error {
	author := NewAuthorFile(l, "", checkBookAuthor)
	series := NewSeriesFile(l, "", author, checkSeriesTitle)

	name, err := series.FileName()
	if err != nil {
		return fmt.Errorf("%w: rendering series file name: %v", ErrCheckFailed, err)
	}

	content, err := series.Content()
	if err != nil {
		return fmt.Errorf("%w: rendering series content: %v", ErrCheckFailed, err)
	}

	report.SeriesFileName = name
	report.SeriesContent = content

	if !l.templates.IsSeriesFileName(name) {
		return fmt.Errorf(
			"%w: series file name %q not recognized by the file name rule",
			ErrCheckFailed, name,
		)
	}

	parsed, err := ParseSeriesFile(l, "", name, content)
	if err != nil {
		return fmt.Errorf("%w: series content did not parse back: %v", ErrCheckFailed, err)
	}

	switch {
	case parsed.Title != checkSeriesTitle:
		return fmt.Errorf(
			"%w: series title %q parsed back as %q",
			ErrCheckFailed, checkSeriesTitle, parsed.Title,
		)
	case parsed.AuthorName() != checkBookAuthor:
		return fmt.Errorf(
			"%w: series author %q parsed back as %q",
			ErrCheckFailed, checkBookAuthor, parsed.AuthorName(),
		)
	}

	return nil
}

package templates

import (
	"fmt"
	"regexp"
)

// An extraction rule pairs a regular expression with the capture-group
// indices that hold an entity's identity fields. Each entity kind gets its
// own rule type so parse results stay strongly typed; the shared selection
// policy lives in chooseRule.

// matcher is implemented by every extraction rule kind.
type matcher interface {
	pattern() *regexp.Regexp
}

// chooseRule returns the first rule, in declaration order, whose pattern
// matches text. Declaration order is the tie-break, not specificity: rule
// lists are ordered documents and the author of the list decides precedence.
func chooseRule[R matcher](rules []R, text string) (R, bool) {
	for _, rule := range rules {
		if rule.pattern().MatchString(text) {
			return rule, true
		}
	}

	var zero R

	return zero, false
}

// AuthorNameRule extracts author aliases from author-note content.
// Every match contributes one alias; the first one is the canonical name.
type AuthorNameRule struct {
	Regex     string `toml:"regex"`
	NameGroup int    `toml:"name_group"`

	compiled *regexp.Regexp
}

func (r AuthorNameRule) pattern() *regexp.Regexp { return r.compiled }

func (r *AuthorNameRule) compile() error {
	re, err := compileRule(r.Regex, r.NameGroup)
	if err != nil {
		return fmt.Errorf("author names rule: %w", err)
	}

	r.compiled = re

	return nil
}

// Names returns every alias captured in content, in match order.
func (r AuthorNameRule) Names(content string) []string {
	var names []string

	for _, match := range r.compiled.FindAllStringSubmatch(content, -1) {
		names = append(names, match[r.NameGroup])
	}

	return names
}

// BookLink is the identity-defining triple recovered from a book note.
type BookLink struct {
	Title  string
	Author string
	BookID string
}

// BookLinkRule extracts the goodreads book link from book-note content.
type BookLinkRule struct {
	Regex       string `toml:"regex"`
	TitleGroup  int    `toml:"title_group"`
	AuthorGroup int    `toml:"author_group"`
	BookIDGroup int    `toml:"book_id_group"`

	compiled *regexp.Regexp
}

func (r BookLinkRule) pattern() *regexp.Regexp { return r.compiled }

func (r *BookLinkRule) compile() error {
	re, err := compileRule(r.Regex, r.TitleGroup, r.AuthorGroup, r.BookIDGroup)
	if err != nil {
		return fmt.Errorf("book goodreads-link rule: %w", err)
	}

	r.compiled = re

	return nil
}

// Link returns the first book link found in content.
func (r BookLinkRule) Link(content string) (BookLink, bool) {
	match := r.compiled.FindStringSubmatch(content)
	if match == nil {
		return BookLink{}, false
	}

	return BookLink{
		Title:  match[r.TitleGroup],
		Author: match[r.AuthorGroup],
		BookID: match[r.BookIDGroup],
	}, true
}

// BookSeriesRule extracts series links from book-note content.
type BookSeriesRule struct {
	Regex       string `toml:"regex"`
	SeriesGroup int    `toml:"series_group"`

	compiled *regexp.Regexp
}

func (r BookSeriesRule) pattern() *regexp.Regexp { return r.compiled }

func (r *BookSeriesRule) compile() error {
	re, err := compileRule(r.Regex, r.SeriesGroup)
	if err != nil {
		return fmt.Errorf("book series rule: %w", err)
	}

	r.compiled = re

	return nil
}

// Titles returns every series title referenced in content, in match order.
func (r BookSeriesRule) Titles(content string) []string {
	var titles []string

	for _, match := range r.compiled.FindAllStringSubmatch(content, -1) {
		titles = append(titles, match[r.SeriesGroup])
	}

	return titles
}

// SeriesIdentity is the (author, title) pair recovered from a series note.
type SeriesIdentity struct {
	Author string
	Title  string
}

// SeriesContentRule extracts the series identity from series-note content.
type SeriesContentRule struct {
	Regex       string `toml:"regex"`
	AuthorGroup int    `toml:"author_group"`
	TitleGroup  int    `toml:"title_group"`

	compiled *regexp.Regexp
}

func (r SeriesContentRule) pattern() *regexp.Regexp { return r.compiled }

func (r *SeriesContentRule) compile() error {
	re, err := compileRule(r.Regex, r.AuthorGroup, r.TitleGroup)
	if err != nil {
		return fmt.Errorf("series content rule: %w", err)
	}

	r.compiled = re

	return nil
}

// Identity returns the first series identity found in content.
func (r SeriesContentRule) Identity(content string) (SeriesIdentity, bool) {
	match := r.compiled.FindStringSubmatch(content)
	if match == nil {
		return SeriesIdentity{}, false
	}

	return SeriesIdentity{
		Author: match[r.AuthorGroup],
		Title:  match[r.TitleGroup],
	}, true
}

// SeriesFileNameRule classifies a file name as a series descriptor without
// opening the file. Folder scans use it to tell series notes from book notes
// that share the same suffix.
type SeriesFileNameRule struct {
	Regex string `toml:"regex"`

	compiled *regexp.Regexp
}

func (r SeriesFileNameRule) pattern() *regexp.Regexp { return r.compiled }

func (r *SeriesFileNameRule) compile() error {
	re, err := compileRule(r.Regex)
	if err != nil {
		return fmt.Errorf("series file-name rule: %w", err)
	}

	r.compiled = re

	return nil
}

// compileRule compiles pattern and validates that every declared capture
// group index exists in it.
func compileRule(pattern string, groups ...int) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrConfiguration, pattern, err)
	}

	for _, group := range groups {
		if group < 1 || group > re.NumSubexp() {
			return nil, fmt.Errorf(
				"%w: %q declares group %d but has %d groups",
				ErrConfiguration, pattern, group, re.NumSubexp(),
			)
		}
	}

	return re, nil
}

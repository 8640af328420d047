package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"bookmd/internal/templates"
)

// Folder layout inside a books folder. Authors live apart from books; books
// split into two buckets so unreviewed to-read entries do not mix with
// written reviews. Series descriptors live next to the books referencing
// them.
const (
	AuthorsSubfolder = "authors"
	ReviewsSubfolder = "reviews"
	ToreadSubfolder  = "toread"

	subfolderPerms = 0o750
)

// BookSubfolders are the buckets scanned for book and series notes.
var BookSubfolders = []string{ReviewsSubfolder, ToreadSubfolder}

// Record is one external book record handed to Dump. The library is
// agnostic to how the source parsed it.
type Record struct {
	Title  string
	Author string
	BookID string
	Rating int
	Review string
	Tags   []string
	ISBN   string
	ISBN13 string
	Series []string
}

// Library owns the author and book maps and the folder they persist into.
// Many alias names may map to the same AuthorFile; book ids are unique.
// With an empty folder the library is detached: fully functional for
// template self-checks and tests, but nothing touches the filesystem.
type Library struct {
	folder    string
	templates *templates.TemplateSet
	log       Logger

	Authors map[string]*AuthorFile
	Books   map[string]*BookFile
	Stat    Stat
}

// New creates a library over folder using the given template set. A nil log
// discards notifications. Call Load to read an existing folder.
func New(folder string, set *templates.TemplateSet, log Logger) *Library {
	if log == nil {
		log = nopLogger{}
	}

	return &Library{
		folder:    folder,
		templates: set,
		log:       log,
		Authors:   make(map[string]*AuthorFile),
		Books:     make(map[string]*BookFile),
	}
}

// Folder returns the books folder. Empty for detached libraries.
func (l *Library) Folder() string { return l.folder }

// Templates returns the shared template set.
func (l *Library) Templates() *templates.TemplateSet { return l.templates }

// Load scans the books folder bottom-up: authors first, then series, then
// books, so forward references always resolve against an already-populated
// map.
func (l *Library) Load() error {
	if l.folder == "" {
		return ErrNoFolder
	}

	err := l.loadAuthors(filepath.Join(l.folder, AuthorsSubfolder))
	if err != nil {
		return err
	}

	for _, subfolder := range BookSubfolders {
		if err := l.loadSeries(filepath.Join(l.folder, subfolder)); err != nil {
			return err
		}
	}

	for _, subfolder := range BookSubfolders {
		if err := l.loadBooks(filepath.Join(l.folder, subfolder)); err != nil {
			return err
		}
	}

	return nil
}

// noteSuffix derives the note file suffix from the author template by
// rendering a placeholder name. All three entity kinds share it.
func (l *Library) noteSuffix() (string, error) {
	dummy := NewAuthorFile(l, "", "author")

	name, err := dummy.FileName()
	if err != nil {
		return "", err
	}

	return filepath.Ext(name), nil
}

// listNotes returns the note file names inside folder, sorted. A missing
// folder yields an empty list: buckets are optional.
func (l *Library) listNotes(folder string) ([]string, error) {
	suffix, err := l.noteSuffix()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("scanning %s: %w", folder, err)
	}

	var names []string

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}

		names = append(names, entry.Name())
	}

	return names, nil
}

// loadAuthors reads every author note in folder. Files that parse register
// all their aliases; files that do not are counted as unknown and ignored.
func (l *Library) loadAuthors(folder string) error {
	names, err := l.listNotes(folder)
	if err != nil {
		return err
	}

	for _, name := range names {
		raw, readErr := os.ReadFile(filepath.Join(folder, name)) //nolint:gosec // path comes from the scanned folder
		if readErr != nil {
			return fmt.Errorf("reading author file: %w", readErr)
		}

		author, parseErr := ParseAuthorFile(l, folder, name, string(raw))
		if parseErr != nil {
			if errors.Is(parseErr, ErrParse) {
				l.log.Infof("author file %s has no author links", name)
				l.Stat.SkippedUnknownFiles++

				continue
			}

			return parseErr
		}

		l.registerAuthor(author)
	}

	return nil
}

// registerAuthor claims author's names in the authors map. The canonical
// name always points to the file that declares it, so a file claiming
// another author's name as an alias never shadows that author's own file;
// MergeAuthorNames needs the distinct objects to fold them. Non-canonical
// aliases are first-wins. Scans iterate sorted file names, so the outcome
// is deterministic.
func (l *Library) registerAuthor(author *AuthorFile) {
	l.Authors[author.Name()] = author

	for _, alias := range author.Names()[1:] {
		if _, claimed := l.Authors[alias]; !claimed {
			l.Authors[alias] = author
		}
	}
}

// loadSeries reads every note in folder classified as a series descriptor
// by file name, resolves its author against the loaded authors, and hands
// it to that author. Series whose author reference does not resolve, and
// series that fail to parse, are logged and counted as unknown.
func (l *Library) loadSeries(folder string) error {
	names, err := l.listNotes(folder)
	if err != nil {
		return err
	}

	for _, name := range names {
		if !l.templates.IsSeriesFileName(name) {
			continue
		}

		raw, readErr := os.ReadFile(filepath.Join(folder, name)) //nolint:gosec // path comes from the scanned folder
		if readErr != nil {
			return fmt.Errorf("reading series file: %w", readErr)
		}

		series, parseErr := ParseSeriesFile(l, folder, name, string(raw))
		if parseErr != nil {
			if errors.Is(parseErr, ErrParse) {
				l.log.Infof("series file %s has no author name", name)
				l.Stat.SkippedUnknownFiles++

				continue
			}

			return parseErr
		}

		author, ok := l.Authors[series.AuthorName()]
		if !ok {
			l.log.Infof("series file %s references author %q without an author file", name, series.AuthorName())
			l.Stat.SkippedUnknownFiles++

			continue
		}

		series.Author = author
		author.Series = append(author.Series, series)
		l.Stat.SeriesAdded++
	}

	return nil
}

// loadBooks reads every book note in folder. Parse failures are counted as
// unknown unless the file is a series descriptor by name; a duplicate book
// id aborts the load.
func (l *Library) loadBooks(folder string) error {
	names, err := l.listNotes(folder)
	if err != nil {
		return err
	}

	for _, name := range names {
		raw, readErr := os.ReadFile(filepath.Join(folder, name)) //nolint:gosec // path comes from the scanned folder
		if readErr != nil {
			return fmt.Errorf("reading book file: %w", readErr)
		}

		book, parseErr := ParseBookFile(l, folder, name, string(raw))
		if parseErr != nil {
			if errors.Is(parseErr, ErrParse) {
				if !l.templates.IsSeriesFileName(name) {
					l.Stat.SkippedUnknownFiles++
				}

				continue
			}

			return parseErr
		}

		if existing, ok := l.Books[book.BookID]; ok {
			existingName, _ := existing.FileName()

			return fmt.Errorf(
				"%w: book id %s claimed by %s and %s",
				ErrDuplicateBookID, book.BookID, existingName, name,
			)
		}

		l.Books[book.BookID] = book
		book.Author.Books = append(book.Author.Books, book)
	}

	return nil
}

// AuthorCount returns the number of distinct author files. Aliases map
// many names to one file, so this is usually below len(Authors).
func (l *Library) AuthorCount() int {
	distinct := make(map[*AuthorFile]struct{}, len(l.Authors))
	for _, author := range l.Authors {
		distinct[author] = struct{}{}
	}

	return len(distinct)
}

// AuthorFactory resolves name to its canonical author object, creating and
// persisting a new author file for unknown names. Detached libraries return
// a transient, unregistered instance instead.
func (l *Library) AuthorFactory(name string) (*AuthorFile, error) {
	if author, ok := l.Authors[name]; ok {
		return author, nil
	}

	if l.folder == "" {
		return NewAuthorFile(l, "", name), nil
	}

	l.log.Infof("creating author %q", name)

	author := NewAuthorFile(l, filepath.Join(l.folder, AuthorsSubfolder), name)

	err := author.Write()
	if err != nil {
		return nil, err
	}

	l.Authors[name] = author

	return author, nil
}

// MergeAuthorNames replaces every alias (translation, misspelling) with its
// primary name. A primary is an author file listing more than one alias;
// every alias of it that currently resolves to a different object is folded
// into the primary, and every name of the folded object is repointed.
// Primaries are visited in canonical-name order, so a contested alias
// deterministically goes to the first primary in that order. A primary that
// was itself folded earlier in the pass is skipped: its remaining aliases
// already follow the absorber.
func (l *Library) MergeAuthorNames() error {
	for _, primary := range l.primaryAuthors() {
		if l.Authors[primary.Name()] != primary {
			continue
		}

		for _, alias := range primary.Names() {
			other, ok := l.Authors[alias]
			if !ok || other == primary {
				continue
			}

			l.log.Debugf("author %q has synonym %q to merge", primary.Name(), other.Name())
			l.Stat.AuthorsRenamed++

			err := primary.Merge(other)
			if err != nil {
				return err
			}

			for _, name := range other.Names() {
				if l.Authors[name] == other {
					l.Authors[name] = primary
				}
			}
		}
	}

	return nil
}

// primaryAuthors returns every distinct author owning aliases beyond its
// canonical name, sorted by canonical name.
func (l *Library) primaryAuthors() []*AuthorFile {
	var primaries []*AuthorFile

	for _, author := range l.Authors {
		if len(author.Names()) < 2 {
			continue
		}

		if !slices.Contains(primaries, author) {
			primaries = append(primaries, author)
		}
	}

	sort.Slice(primaries, func(i, j int) bool { return primaries[i].Name() < primaries[j].Name() })

	return primaries
}

// Dump saves records into the books folder. For each record the author name
// is normalized to its canonical form, already-known book ids are skipped,
// the author file is ensured to exist, and the book file is created along
// with any missing series files. Not transactional: a mid-run failure
// leaves prior writes on disk, and re-running is safe because
// identity-defining files are existence-checked before being written.
func (l *Library) Dump(records []Record) error {
	if l.folder == "" {
		return ErrNoFolder
	}

	for _, subfolder := range []string{AuthorsSubfolder, ReviewsSubfolder, ToreadSubfolder} {
		err := os.MkdirAll(filepath.Join(l.folder, subfolder), subfolderPerms)
		if err != nil {
			return fmt.Errorf("creating %s: %w", subfolder, err)
		}
	}

	const progressTitle = "Books"

	l.log.BeginProgress(progressTitle, len(records))
	defer l.log.EndProgress()

	for _, record := range records {
		l.log.Advance(progressTitle, record.Title)
		l.Stat.RegisterAuthor(record.Author)

		if primary, ok := l.Authors[record.Author]; ok && record.Author != primary.Name() {
			l.log.Debugf("author name %q changed to %q", record.Author, primary.Name())
			record.Author = primary.Name()
		}

		if _, ok := l.Books[record.BookID]; ok {
			continue
		}

		if _, ok := l.Authors[record.Author]; !ok {
			_, err := l.createAuthorFile(record.Author)
			if err != nil {
				return err
			}

			l.Stat.AuthorsAdded++
			l.log.Debugf("added author %q", record.Author)
		}

		path, err := l.createBookFile(record)
		if err != nil {
			return err
		}

		l.Stat.BooksAdded++
		l.log.Debugf("saved book %q to %s", record.Title, path)
	}

	return nil
}

// createAuthorFile materializes an author note, leaving an already existing
// file untouched, and registers the author.
func (l *Library) createAuthorFile(name string) (*AuthorFile, error) {
	author := NewAuthorFile(l, filepath.Join(l.folder, AuthorsSubfolder), name)

	path, err := author.Path()
	if err != nil {
		return nil, err
	}

	if !fileExists(path) {
		if err := author.Write(); err != nil {
			return nil, err
		}
	}

	l.Authors[name] = author

	return author, nil
}

// createBookFile creates the book note for record, plus any missing series
// notes, in the bucket matching the record: books with neither review nor
// rating land in toread, everything else in reviews.
func (l *Library) createBookFile(record Record) (string, error) {
	subfolder := ReviewsSubfolder
	if record.Review == "" && record.Rating == 0 {
		subfolder = ToreadSubfolder
	}

	author, err := l.AuthorFactory(record.Author)
	if err != nil {
		return "", err
	}

	book := NewBookFile(l, filepath.Join(l.folder, subfolder), author, BookFields{
		Title:        record.Title,
		BookID:       record.BookID,
		Tags:         record.Tags,
		Rating:       record.Rating,
		ISBN:         record.ISBN,
		ISBN13:       record.ISBN13,
		Review:       record.Review,
		SeriesTitles: record.Series,
	})

	// The book note goes first: a crash between the two writes must not
	// leave series notes whose referencing book never made it to disk.
	if err := book.Write(); err != nil {
		return "", err
	}

	_, err = book.CreateSeriesFiles()
	if err != nil {
		return "", err
	}

	l.Books[record.BookID] = book
	author.Books = append(author.Books, book)

	name, err := book.FileName()
	if err != nil {
		return "", err
	}

	return filepath.Join(subfolder, name), nil
}

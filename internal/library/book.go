package library

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Tags renderBody guarantees on every book note.
const (
	bookMarkerTag = "#book/book"
	ratingTagFmt  = "#book/rating%d"
)

// BookFields carries the field half of a book entity.
type BookFields struct {
	Title        string
	BookID       string
	Tags         []string
	Rating       int
	ISBN         string
	ISBN13       string
	Review       string
	SeriesTitles []string
}

// BookFile is a book note. Identity is the book id (unique within a
// Library); for file naming, (author, title).
type BookFile struct {
	file

	lib    *Library
	Author *AuthorFile

	Title        string
	BookID       string
	Tags         []string
	Rating       int
	ISBN         string
	ISBN13       string
	Review       string
	SeriesTitles []string
}

// NewBookFile creates a book from fields. Content and file name render from
// the template on first access.
func NewBookFile(lib *Library, folder string, author *AuthorFile, fields BookFields) *BookFile {
	return &BookFile{
		file:         file{folder: folder},
		lib:          lib,
		Author:       author,
		Title:        fields.Title,
		BookID:       fields.BookID,
		Tags:         fields.Tags,
		Rating:       fields.Rating,
		ISBN:         fields.ISBN,
		ISBN13:       fields.ISBN13,
		Review:       fields.Review,
		SeriesTitles: fields.SeriesTitles,
	}
}

// ParseBookFile builds a book from an existing note. The goodreads link must
// be extractable or construction fails with ErrParse. The author reference
// resolves through the library, creating the author file if it does not
// exist yet.
func ParseBookFile(lib *Library, folder, fileName, content string) (*BookFile, error) {
	book := &BookFile{
		file: file{folder: folder, fileName: fileName},
		lib:  lib,
	}

	err := book.SetContent(content)
	if err != nil {
		return nil, err
	}

	return book, nil
}

func (b *BookFile) context() (map[string]any, error) {
	links := make([]string, len(b.SeriesTitles))

	for i, title := range b.SeriesTitles {
		link, err := b.seriesFileLink(title)
		if err != nil {
			return nil, err
		}

		links[i] = link
	}

	return map[string]any{
		"AuthorName":  b.Author.Name(),
		"Title":       b.Title,
		"BookID":      b.BookID,
		"ISBN":        b.ISBN,
		"ISBN13":      b.ISBN13,
		"Rating":      b.Rating,
		"Tags":        b.Tags,
		"SeriesLinks": links,
		"Review":      b.Review,
	}, nil
}

func (b *BookFile) seriesContext(title string) map[string]any {
	return map[string]any{
		"AuthorName": b.Author.Name(),
		"Title":      title,
	}
}

func (b *BookFile) seriesFileName(title string) (string, error) {
	return b.lib.templates.Series.RenderFileName(b.seriesContext(title))
}

func (b *BookFile) seriesFileLink(title string) (string, error) {
	return b.lib.templates.Series.RenderFileLink(b.seriesContext(title))
}

// FileName renders the file name from the template on first access and
// caches it until explicitly invalidated.
func (b *BookFile) FileName() (string, error) {
	if b.fileName != "" {
		return b.fileName, nil
	}

	ctx, err := b.context()
	if err != nil {
		return "", err
	}

	name, err := b.lib.templates.Book.RenderFileName(ctx)
	if err != nil {
		return "", err
	}

	b.fileName = name

	return name, nil
}

// Content returns the note text, rendering the body on first access.
func (b *BookFile) Content() (string, error) {
	if b.hasContent {
		return b.content, nil
	}

	body, err := b.renderBody()
	if err != nil {
		return "", err
	}

	b.content = body
	b.hasContent = true

	return body, nil
}

// SetContent stores text and re-parses it.
func (b *BookFile) SetContent(content string) error {
	b.content = content
	b.hasContent = true

	return b.parse()
}

// parse recovers the identity fields from content: the goodreads link gives
// book id, title and author name (fatal when missing); series links are
// optional and yield an empty list when absent.
func (b *BookFile) parse() error {
	link, ok := b.lib.templates.ParseBookLink(b.content)
	if !ok {
		return fmt.Errorf("book file %q has no goodreads link: %w", b.fileName, ErrParse)
	}

	b.BookID = link.BookID
	b.Title = link.Title

	author, err := b.lib.AuthorFactory(link.Author)
	if err != nil {
		return err
	}

	b.Author = author
	b.SeriesTitles = b.lib.templates.ParseBookSeries(b.content)

	return nil
}

// renderBody renders the note body. Before delegating to the template it
// guarantees the tag collection carries the book marker tag and, for rated
// books, the rating-tier tag. Both insertions are idempotent.
func (b *BookFile) renderBody() (string, error) {
	if !slices.Contains(b.Tags, bookMarkerTag) {
		b.Tags = append(b.Tags, bookMarkerTag)
	}

	if b.Rating > 0 {
		ratingTag := fmt.Sprintf(ratingTagFmt, b.Rating)
		if !slices.Contains(b.Tags, ratingTag) {
			b.Tags = append(b.Tags, ratingTag)
		}
	}

	ctx, err := b.context()
	if err != nil {
		return "", err
	}

	return b.lib.templates.Book.RenderBody(ctx)
}

// Path returns the full path of the backing file.
func (b *BookFile) Path() (string, error) {
	if _, err := b.FileName(); err != nil {
		return "", err
	}

	return b.path(), nil
}

// Write persists the note. When the rendered name already exists on disk
// for a different book (the book id is not embedded in the candidate name),
// the book id is appended before the extension to disambiguate. A repeat
// write of the same book never appends the suffix twice: its name already
// embeds the id.
func (b *BookFile) Write() error {
	name, err := b.FileName()
	if err != nil {
		return err
	}

	content, err := b.Content()
	if err != nil {
		return err
	}

	if b.BookID != "" && !strings.Contains(name, b.BookID) && fileExists(filepath.Join(b.folder, name)) {
		ext := filepath.Ext(name)
		name = fmt.Sprintf("%s - %s%s", strings.TrimSuffix(name, ext), b.BookID, ext)
		b.fileName = name
	}

	return writeFile(b.folder, name, content)
}

// DeleteFile removes the backing file if present.
func (b *BookFile) DeleteFile() error { return b.deleteFile() }

// Equal compares the persisted triples of two books.
func (b *BookFile) Equal(other *BookFile) bool { return sameFile(&b.file, &other.file) }

// seriesLinks maps each referenced series title to its current link text.
func (b *BookFile) seriesLinks() (map[string]string, error) {
	links := make(map[string]string, len(b.SeriesTitles))

	for _, title := range b.SeriesTitles {
		link, err := b.seriesFileLink(title)
		if err != nil {
			return nil, err
		}

		links[title] = link
	}

	return links, nil
}

// DeleteSeriesFiles removes the series files this book references. Returns
// {series title: deleted path}.
func (b *BookFile) DeleteSeriesFiles() (map[string]string, error) {
	deleted := make(map[string]string)

	for _, title := range b.SeriesTitles {
		name, err := b.seriesFileName(title)
		if err != nil {
			return nil, err
		}

		path := filepath.Join(b.folder, name)
		if fileExists(path) {
			removeErr := (&file{folder: b.folder, fileName: name}).deleteFile()
			if removeErr != nil {
				return nil, removeErr
			}

			deleted[title] = path
		}
	}

	return deleted, nil
}

// CreateSeriesFiles writes the series files this book references, skipping
// ones that already exist. Returns {series title: created path}.
func (b *BookFile) CreateSeriesFiles() (map[string]string, error) {
	created := make(map[string]string)

	for _, title := range b.SeriesTitles {
		series := NewSeriesFile(b.lib, b.folder, b.Author, title)

		name, err := series.FileName()
		if err != nil {
			return nil, err
		}

		path := filepath.Join(b.folder, name)
		if fileExists(path) {
			continue
		}

		writeErr := series.Write()
		if writeErr != nil {
			return nil, writeErr
		}

		created[title] = path
	}

	return created, nil
}

// RenameAuthor points the book at a different author identity and rewrites
// every file that referenced the old one. The edit is a targeted substring
// replacement of the author link and series links, never a full body
// re-render, so free-text edits elsewhere in the note survive. Returns the
// deleted and newly created series paths.
func (b *BookFile) RenameAuthor(newName string) (deleted, created map[string]string, err error) {
	oldName := b.Author.Name()

	oldLinks, err := b.seriesLinks()
	if err != nil {
		return nil, nil, err
	}

	deleted, err = b.DeleteSeriesFiles()
	if err != nil {
		return nil, nil, err
	}

	if err = b.DeleteFile(); err != nil {
		return nil, nil, err
	}

	content, err := b.Content()
	if err != nil {
		return nil, nil, err
	}

	content = strings.ReplaceAll(content, "[["+oldName+"]]", "[["+newName+"]]")

	author, err := b.lib.AuthorFactory(newName)
	if err != nil {
		return nil, nil, err
	}

	b.Author = author
	b.invalidateFileName()

	for title, oldLink := range oldLinks {
		newLink, linkErr := b.seriesFileLink(title)
		if linkErr != nil {
			return nil, nil, linkErr
		}

		content = strings.ReplaceAll(content, oldLink, newLink)
	}

	if err = b.SetContent(content); err != nil {
		return nil, nil, err
	}

	created, err = b.CreateSeriesFiles()
	if err != nil {
		return nil, nil, err
	}

	if err = b.Write(); err != nil {
		return nil, nil, err
	}

	return deleted, created, nil
}

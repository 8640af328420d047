package library

import (
	"fmt"
)

// AuthorFile is an author note. Identity is the canonical name: the first
// alias extracted from content, or the construction name for transient
// authors. All aliases listed in the note resolve to this one object after
// reconciliation.
type AuthorFile struct {
	file

	lib    *Library
	name   string   // canonical name
	names  []string // all aliases, first = canonical
	Series []*SeriesFile
	Books  []*BookFile
}

// NewAuthorFile creates an author known only by name. Content renders a
// default search-link body on first access. With an empty folder the author
// is detached (template self-checks, tests).
func NewAuthorFile(lib *Library, folder, name string) *AuthorFile {
	return &AuthorFile{
		file:  file{folder: folder},
		lib:   lib,
		name:  name,
		names: []string{name},
	}
}

// ParseAuthorFile builds an author from an existing note. At least one alias
// must be extractable or construction fails with ErrParse. Content always
// wins over the file name: the canonical name is the first alias found in
// the note, not the file-name stem.
func ParseAuthorFile(lib *Library, folder, fileName, content string) (*AuthorFile, error) {
	author := &AuthorFile{
		file: file{folder: folder, fileName: fileName},
		lib:  lib,
	}

	err := author.SetContent(content)
	if err != nil {
		return nil, err
	}

	return author, nil
}

// Name returns the canonical name.
func (a *AuthorFile) Name() string { return a.name }

// Names returns every alias, in note order. The first is canonical.
func (a *AuthorFile) Names() []string { return a.names }

func (a *AuthorFile) context() map[string]any {
	return map[string]any{"Name": a.name}
}

// FileName renders the file name from the template on first access and
// caches it.
func (a *AuthorFile) FileName() (string, error) {
	if a.fileName != "" {
		return a.fileName, nil
	}

	name, err := a.lib.templates.Author.RenderFileName(a.context())
	if err != nil {
		return "", err
	}

	a.fileName = name

	return name, nil
}

// FileLink renders the cross-reference link for this author.
func (a *AuthorFile) FileLink() (string, error) {
	return a.lib.templates.Author.RenderFileLink(a.context())
}

// Content returns the note text, rendering it from fields on first access.
func (a *AuthorFile) Content() (string, error) {
	if a.hasContent {
		return a.content, nil
	}

	body, err := a.lib.templates.Author.RenderBody(a.context())
	if err != nil {
		return "", err
	}

	a.content = body
	a.hasContent = true

	return body, nil
}

// SetContent stores text and re-parses it. The note must yield at least one
// alias or the content is rejected with ErrParse.
func (a *AuthorFile) SetContent(content string) error {
	a.content = content
	a.hasContent = true

	return a.parse()
}

// parse applies the author rule list: names becomes every match's name-group
// value in match order, and the canonical name is redefined as the first.
func (a *AuthorFile) parse() error {
	names := a.lib.templates.ParseAuthorNames(a.content)
	if len(names) == 0 {
		return fmt.Errorf("author file %q has no author link: %w", a.fileName, ErrParse)
	}

	a.names = names
	a.name = names[0]

	return nil
}

// Path returns the full path of the backing file.
func (a *AuthorFile) Path() (string, error) {
	if _, err := a.FileName(); err != nil {
		return "", err
	}

	return a.path(), nil
}

// Write persists the note.
func (a *AuthorFile) Write() error {
	name, err := a.FileName()
	if err != nil {
		return err
	}

	content, err := a.Content()
	if err != nil {
		return err
	}

	return writeFile(a.folder, name, content)
}

// DeleteFile removes the backing file if present.
func (a *AuthorFile) DeleteFile() error { return a.deleteFile() }

// Equal compares the persisted triples of two authors.
func (a *AuthorFile) Equal(other *AuthorFile) bool { return sameFile(&a.file, &other.file) }

// Merge folds other into a: every book and series owned by other is renamed
// to a's canonical name, ownership moves over (deduplicated by entity
// identity, so merging the same pair twice is safe), and other's backing
// file is deleted.
func (a *AuthorFile) Merge(other *AuthorFile) error {
	if other == a {
		return nil
	}

	for _, book := range other.Books {
		_, _, err := book.RenameAuthor(a.name)
		if err != nil {
			return fmt.Errorf("merging author %q into %q: %w", other.name, a.name, err)
		}
	}

	for _, series := range other.Series {
		err := series.RenameAuthor(a.name)
		if err != nil {
			return fmt.Errorf("merging author %q into %q: %w", other.name, a.name, err)
		}
	}

	a.Books = appendMissing(a.Books, other.Books)
	a.Series = appendMissing(a.Series, other.Series)
	other.Books = nil
	other.Series = nil

	return other.DeleteFile()
}

package library

import (
	"fmt"
	"strings"
)

// SeriesFile is a series descriptor note. Identity is (author, title), both
// parsed from a single content rule. A dedicated filename-only rule lets
// folder scans classify series descriptors without opening the file.
type SeriesFile struct {
	file

	lib    *Library
	Author *AuthorFile
	Title  string

	// authorName is the parsed author reference before resolution against
	// the library's authors map. Load passes resolve it or skip the file.
	authorName string
}

// NewSeriesFile creates a series from fields.
func NewSeriesFile(lib *Library, folder string, author *AuthorFile, title string) *SeriesFile {
	return &SeriesFile{
		file:   file{folder: folder},
		lib:    lib,
		Author: author,
		Title:  title,
	}
}

// ParseSeriesFile builds a series from an existing note. The content rule
// must yield the (author, title) identity or construction fails with
// ErrParse. The author reference stays unresolved; the caller resolves it
// against the loaded authors.
func ParseSeriesFile(lib *Library, folder, fileName, content string) (*SeriesFile, error) {
	series := &SeriesFile{
		file: file{folder: folder, fileName: fileName},
		lib:  lib,
	}

	err := series.SetContent(content)
	if err != nil {
		return nil, err
	}

	return series, nil
}

// AuthorName returns the resolved author's canonical name, or the parsed
// reference when the series is not resolved yet.
func (s *SeriesFile) AuthorName() string {
	if s.Author != nil {
		return s.Author.Name()
	}

	return s.authorName
}

func (s *SeriesFile) context() map[string]any {
	return map[string]any{
		"AuthorName": s.AuthorName(),
		"Title":      s.Title,
	}
}

// FileName renders the file name from the template on first access and
// caches it.
func (s *SeriesFile) FileName() (string, error) {
	if s.fileName != "" {
		return s.fileName, nil
	}

	name, err := s.lib.templates.Series.RenderFileName(s.context())
	if err != nil {
		return "", err
	}

	s.fileName = name

	return name, nil
}

// FileLink renders the cross-reference link for this series.
func (s *SeriesFile) FileLink() (string, error) {
	return s.lib.templates.Series.RenderFileLink(s.context())
}

// Content returns the note text, rendering it from fields on first access.
func (s *SeriesFile) Content() (string, error) {
	if s.hasContent {
		return s.content, nil
	}

	body, err := s.lib.templates.Series.RenderBody(s.context())
	if err != nil {
		return "", err
	}

	s.content = body
	s.hasContent = true

	return body, nil
}

// SetContent stores text and re-parses it.
func (s *SeriesFile) SetContent(content string) error {
	s.content = content
	s.hasContent = true

	return s.parse()
}

func (s *SeriesFile) parse() error {
	identity, ok := s.lib.templates.ParseSeriesIdentity(s.content)
	if !ok {
		return fmt.Errorf("series file %q has no author and title: %w", s.fileName, ErrParse)
	}

	s.Title = identity.Title
	s.authorName = identity.Author

	return nil
}

// Path returns the full path of the backing file.
func (s *SeriesFile) Path() (string, error) {
	if _, err := s.FileName(); err != nil {
		return "", err
	}

	return s.path(), nil
}

// Write persists the note.
func (s *SeriesFile) Write() error {
	name, err := s.FileName()
	if err != nil {
		return err
	}

	content, err := s.Content()
	if err != nil {
		return err
	}

	return writeFile(s.folder, name, content)
}

// DeleteFile removes the backing file if present.
func (s *SeriesFile) DeleteFile() error { return s.deleteFile() }

// Equal compares the persisted triples of two series.
func (s *SeriesFile) Equal(other *SeriesFile) bool { return sameFile(&s.file, &other.file) }

// RenameAuthor points the series at a different author identity: delete the
// old file, substring-replace the author reference in content, recompute the
// file name, write. Free-text edits elsewhere in the note survive.
func (s *SeriesFile) RenameAuthor(newName string) error {
	oldName := s.AuthorName()

	err := s.DeleteFile()
	if err != nil {
		return err
	}

	content, err := s.Content()
	if err != nil {
		return err
	}

	author, err := s.lib.AuthorFactory(newName)
	if err != nil {
		return err
	}

	s.Author = author
	s.invalidateFileName()

	if err = s.SetContent(strings.ReplaceAll(content, oldName, newName)); err != nil {
		return err
	}

	return s.Write()
}

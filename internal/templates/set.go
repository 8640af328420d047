package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ErrConfiguration reports a template set that cannot be used: a missing
// template file, a malformed template document, or a missing or invalid
// extraction-rule section. Always fatal at startup.
var ErrConfiguration = errors.New("invalid template configuration")

// Template bundle file names. A template set is exactly these four files.
const (
	AuthorTemplateFile = "author.md"
	BookTemplateFile   = "book.md"
	SeriesTemplateFile = "series.md"
	RuleConfigFile     = "regex.toml"
)

// TemplateFiles lists every file of a template bundle, in a stable order.
var TemplateFiles = []string{
	AuthorTemplateFile,
	BookTemplateFile,
	SeriesTemplateFile,
	RuleConfigFile,
}

// DefaultBuiltinName is the builtin template set used when none is requested.
const DefaultBuiltinName = "default"

//go:embed builtin
var builtinFS embed.FS

// ruleConfig mirrors the regex.toml document: one section per entity kind,
// each holding ordered lists of extraction rules.
type ruleConfig struct {
	Author struct {
		Names []AuthorNameRule `toml:"names"`
	} `toml:"author"`
	Book struct {
		GoodreadsLink []BookLinkRule   `toml:"goodreads-link"`
		Series        []BookSeriesRule `toml:"series"`
	} `toml:"book"`
	Series struct {
		Content  []SeriesContentRule  `toml:"content"`
		FileName []SeriesFileNameRule `toml:"file-name"`
	} `toml:"series"`
}

// TemplateSet bundles one FileTemplate plus its extraction rules per entity
// kind. Loaded once and shared read-only by every entity of a Library.
type TemplateSet struct {
	Name   string
	Author *FileTemplate
	Book   *FileTemplate
	Series *FileTemplate

	authorNames     []AuthorNameRule
	bookLinks       []BookLinkRule
	bookSeries      []BookSeriesRule
	seriesContents  []SeriesContentRule
	seriesFileNames []SeriesFileNameRule
}

// ParseAuthorNames applies the first matching author rule and returns every
// alias it captures, in match order. Empty when no rule matches.
func (s *TemplateSet) ParseAuthorNames(content string) []string {
	rule, ok := chooseRule(s.authorNames, content)
	if !ok {
		return nil
	}

	return rule.Names(content)
}

// ParseBookLink recovers the identity triple from book-note content.
func (s *TemplateSet) ParseBookLink(content string) (BookLink, bool) {
	rule, ok := chooseRule(s.bookLinks, content)
	if !ok {
		return BookLink{}, false
	}

	return rule.Link(content)
}

// ParseBookSeries returns every series title referenced in book-note
// content. Empty when no rule matches: series references are optional.
func (s *TemplateSet) ParseBookSeries(content string) []string {
	rule, ok := chooseRule(s.bookSeries, content)
	if !ok {
		return nil
	}

	return rule.Titles(content)
}

// ParseSeriesIdentity recovers the (author, title) pair from series-note
// content.
func (s *TemplateSet) ParseSeriesIdentity(content string) (SeriesIdentity, bool) {
	rule, ok := chooseRule(s.seriesContents, content)
	if !ok {
		return SeriesIdentity{}, false
	}

	return rule.Identity(content)
}

// IsSeriesFileName reports whether fileName names a series descriptor.
// Classification is by file name only so folder scans never have to open the
// file to decide.
func (s *TemplateSet) IsSeriesFileName(fileName string) bool {
	_, ok := chooseRule(s.seriesFileNames, fileName)

	return ok
}

// LoadBuiltin loads an embedded template set by name. An empty name loads
// the default set.
func LoadBuiltin(name string) (*TemplateSet, error) {
	if name == "" {
		name = DefaultBuiltinName
	}

	return load(name, func(file string) ([]byte, error) {
		return BuiltinFileContent(name, file)
	})
}

// LoadFolder loads a user-supplied template set from folder. All four bundle
// files must be present.
func LoadFolder(folder string) (*TemplateSet, error) {
	return load(folder, func(file string) ([]byte, error) {
		raw, err := os.ReadFile(filepath.Join(folder, file)) //nolint:gosec // path is the configured templates folder
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s missing in %s", ErrConfiguration, file, folder)
			}

			return nil, fmt.Errorf("reading template %s: %w", file, err)
		}

		return raw, nil
	})
}

// BuiltinFileContent returns one raw file of an embedded template bundle.
func BuiltinFileContent(name, file string) ([]byte, error) {
	raw, err := fs.ReadFile(builtinFS, "builtin/"+name+"/"+file)
	if err != nil {
		return nil, fmt.Errorf("%w: no builtin template set %q (missing %s)", ErrConfiguration, name, file)
	}

	return raw, nil
}

func load(name string, read func(file string) ([]byte, error)) (*TemplateSet, error) {
	set := &TemplateSet{Name: name}

	for _, part := range []struct {
		file string
		dst  **FileTemplate
	}{
		{AuthorTemplateFile, &set.Author},
		{BookTemplateFile, &set.Book},
		{SeriesTemplateFile, &set.Series},
	} {
		raw, err := read(part.file)
		if err != nil {
			return nil, err
		}

		tmpl, err := newFileTemplate(part.file, string(raw))
		if err != nil {
			return nil, err
		}

		*part.dst = tmpl
	}

	raw, err := read(RuleConfigFile)
	if err != nil {
		return nil, err
	}

	rulesErr := set.loadRules(raw)
	if rulesErr != nil {
		return nil, rulesErr
	}

	return set, nil
}

func (s *TemplateSet) loadRules(raw []byte) error {
	var cfg ruleConfig

	err := toml.Unmarshal(raw, &cfg)
	if err != nil {
		return fmt.Errorf("%w: parsing %s: %v", ErrConfiguration, RuleConfigFile, err)
	}

	s.authorNames = cfg.Author.Names
	s.bookLinks = cfg.Book.GoodreadsLink
	s.bookSeries = cfg.Book.Series
	s.seriesContents = cfg.Series.Content
	s.seriesFileNames = cfg.Series.FileName

	for section, empty := range map[string]bool{
		"author.names":        len(s.authorNames) == 0,
		"book.goodreads-link": len(s.bookLinks) == 0,
		"book.series":         len(s.bookSeries) == 0,
		"series.content":      len(s.seriesContents) == 0,
		"series.file-name":    len(s.seriesFileNames) == 0,
	} {
		if empty {
			return fmt.Errorf("%w: %s has no %s rules", ErrConfiguration, RuleConfigFile, section)
		}
	}

	return s.compileRules()
}

func (s *TemplateSet) compileRules() error {
	for i := range s.authorNames {
		if err := s.authorNames[i].compile(); err != nil {
			return err
		}
	}

	for i := range s.bookLinks {
		if err := s.bookLinks[i].compile(); err != nil {
			return err
		}
	}

	for i := range s.bookSeries {
		if err := s.bookSeries[i].compile(); err != nil {
			return err
		}
	}

	for i := range s.seriesContents {
		if err := s.seriesContents[i].compile(); err != nil {
			return err
		}
	}

	for i := range s.seriesFileNames {
		if err := s.seriesFileNames[i].compile(); err != nil {
			return err
		}
	}

	return nil
}

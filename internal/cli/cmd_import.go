package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"bookmd/internal/goodreads"
	"bookmd/internal/library"
	"bookmd/internal/templates"
	"bookmd/internal/ui"

	flag "github.com/spf13/pflag"
)

// importCommand converts a goodreads export into the books folder.
func (a *app) importCommand() *Command {
	flags := flag.NewFlagSet("import", flag.ContinueOnError)
	csvPath := flags.StringP("in", "i", "", "Goodreads export CSV file or the folder holding it")
	templatesFolder := flags.StringP("templates-folder", "t", "", "Load templates from this folder")
	builtinName := flags.StringP("builtin-name", "b", "", "Use this builtin template set")

	return &Command{
		Flags: flags,
		Usage: "import [<books-folder>] [flags]",
		Short: "Convert goodreads export into markdown notes",
		Long: `Convert a goodreads library export into markdown notes.

Loads the books folder, merges author aliases, then adds every book from
the export that is not in the folder yet. Books without review and rating
go to toread/, the rest to reviews/. Missing author and series notes are
created on the way.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			folder, err := a.booksFolder(args)
			if err != nil {
				return err
			}

			set, err := a.loadTemplates(*templatesFolder, *builtinName)
			if err != nil {
				return err
			}

			records, err := a.readExport(*csvPath)
			if err != nil {
				return err
			}

			lib := library.New(folder, set, ui.NewLog(o.Out(), a.verbose))

			if err := lib.Load(); err != nil {
				return err
			}

			if err := lib.MergeAuthorNames(); err != nil {
				return err
			}

			if err := lib.Dump(records); err != nil {
				return err
			}

			o.Printf("Added %d books, %d authors\n", lib.Stat.BooksAdded, lib.Stat.AuthorsAdded)

			if lib.Stat.AuthorsRenamed > 0 {
				o.Printf("Renamed %d authors\n", lib.Stat.AuthorsRenamed)
			}

			if lib.Stat.SkippedUnknownFiles > 0 {
				o.Printf("Skipped %d unknown files\n", lib.Stat.SkippedUnknownFiles)
			}

			return nil
		},
	}
}

// booksFolder resolves the books folder from the first positional argument,
// falling back to the configured books_folder.
func (a *app) booksFolder(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return a.cfg.resolvePath(args[0]), nil
	}

	if a.cfg.BooksFolder != "" {
		return a.cfg.resolvePath(a.cfg.BooksFolder), nil
	}

	return "", ErrBooksFolderRequired
}

// loadTemplates loads the template set with the same precedence as config
// merging: an explicit folder wins over a builtin name, flags win over
// config fields.
func (a *app) loadTemplates(folderFlag, builtinFlag string) (*templates.TemplateSet, error) {
	folder := folderFlag
	if folder == "" && builtinFlag == "" {
		folder = a.cfg.TemplatesFolder
	}

	if folder != "" {
		return templates.LoadFolder(a.cfg.resolvePath(folder))
	}

	name := builtinFlag
	if name == "" {
		name = a.cfg.BuiltinName
	}

	return templates.LoadBuiltin(name)
}

// readExport locates, opens and parses the goodreads export. An empty path
// falls back to the configured csv_file; a folder path means the default
// export file name inside it.
func (a *app) readExport(csvPath string) ([]library.Record, error) {
	path := csvPath
	if path == "" {
		path = a.cfg.CSVFile
	}

	path = a.cfg.resolvePath(path)

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultCSVFile)
	}

	f, err := os.Open(path) //nolint:gosec // path is the user-named export file
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrCSVNotFound, path)
		}

		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	books, err := goodreads.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	records := make([]library.Record, len(books))
	for i, book := range books {
		records[i] = library.Record{
			Title:  book.Title,
			Author: book.Author,
			BookID: book.BookID,
			Rating: book.Rating,
			Review: book.Review,
			Tags:   book.Tags(),
			ISBN:   book.ISBN,
			ISBN13: book.ISBN13,
			Series: book.Series,
		}
	}

	return records, nil
}

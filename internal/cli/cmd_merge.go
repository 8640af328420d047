package cli

import (
	"context"

	"bookmd/internal/library"
	"bookmd/internal/ui"

	flag "github.com/spf13/pflag"
)

// mergeCommand folds author aliases without touching the export.
func (a *app) mergeCommand() *Command {
	flags := flag.NewFlagSet("merge", flag.ContinueOnError)
	templatesFolder := flags.StringP("templates-folder", "t", "", "Load templates from this folder")
	builtinName := flags.StringP("builtin-name", "b", "", "Use this builtin template set")

	return &Command{
		Flags: flags,
		Usage: "merge [<books-folder>] [flags]",
		Short: "Fold author aliases into their primary names",
		Long: `Load the books folder and merge author aliases.

An author note listing several names declares the first one primary. Every
book and series filed under one of the other names is renamed to the
primary, and the redundant author notes are removed. Import does this too;
merge is for running it without an export file.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			folder, err := a.booksFolder(args)
			if err != nil {
				return err
			}

			set, err := a.loadTemplates(*templatesFolder, *builtinName)
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

			o.Printf("Renamed %d authors\n", lib.Stat.AuthorsRenamed)

			if lib.Stat.SkippedUnknownFiles > 0 {
				o.Printf("Skipped %d unknown files\n", lib.Stat.SkippedUnknownFiles)
			}

			return nil
		},
	}
}

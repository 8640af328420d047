package cli

import (
	"context"

	"bookmd/internal/library"
	"bookmd/internal/ui"

	flag "github.com/spf13/pflag"
)

// checkCommand verifies that templates and extraction rules agree.
func (a *app) checkCommand() *Command {
	flags := flag.NewFlagSet("check", flag.ContinueOnError)
	templatesFolder := flags.StringP("templates-folder", "t", "", "Load templates from this folder")
	builtinName := flags.StringP("builtin-name", "b", "", "Use this builtin template set")

	return &Command{
		Flags: flags,
		Usage: "check [<books-folder>] [flags]",
		Short: "Verify templates render notes the rules can parse back",
		Long: `Render sample author, book and series notes from the active templates and
parse them back through the extraction rules. With a books folder the
folder is loaded afterwards and its counts are printed.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			set, err := a.loadTemplates(*templatesFolder, *builtinName)
			if err != nil {
				return err
			}

			probe := library.New("", set, nil)

			report, err := probe.Check()
			if err != nil {
				return err
			}

			o.Printf("Templates %q check passed\n", set.Name)

			if a.verbose {
				o.Println()
				o.Println(report.AuthorFileName)
				o.Println(report.AuthorContent)
				o.Println(report.BookFileName)
				o.Println(report.BookContent)
				o.Println(report.SeriesFileName)
				o.Println(report.SeriesContent)
			}

			if len(args) == 0 {
				return nil
			}

			folder, err := a.booksFolder(args)
			if err != nil {
				return err
			}

			lib := library.New(folder, set, ui.NewLog(o.Out(), a.verbose))

			if err := lib.Load(); err != nil {
				return err
			}

			o.Printf("Loaded %d books, %d author files\n", len(lib.Books), lib.AuthorCount())

			if lib.Stat.SkippedUnknownFiles > 0 {
				o.Printf("Skipped %d unknown files\n", lib.Stat.SkippedUnknownFiles)
			}

			return nil
		},
	}
}

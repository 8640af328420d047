package cli

import (
	"context"

	"bookmd/internal/templates"

	flag "github.com/spf13/pflag"
)

// configureCommand materializes a builtin template bundle for editing.
func (a *app) configureCommand() *Command {
	flags := flag.NewFlagSet("configure", flag.ContinueOnError)
	templatesFolder := flags.StringP("templates-folder", "t", "", "Target folder for the template bundle")
	builtinName := flags.StringP("builtin-name", "b", "", "Builtin template set to materialize")
	force := flags.BoolP("force", "f", false, "Overwrite user-edited template files")

	return &Command{
		Flags: flags,
		Usage: "configure [flags]",
		Short: "Copy builtin templates into a folder for editing",
		Long: `Copy the builtin template bundle into the templates folder.

Files you edited are left alone; the newest builtin version lands in a
".latest" sibling instead so the differences can be reviewed. --force
overwrites edited files too. A metadata.json in the folder tracks file
fingerprints to tell edits from stale builtin copies.`,
		Exec: func(_ context.Context, o *IO, _ []string) error {
			folder := *templatesFolder
			if folder == "" {
				folder = a.cfg.TemplatesFolder
			}

			if folder == "" {
				return ErrTemplatesFolderRequired
			}

			folder = a.cfg.resolvePath(folder)

			name := *builtinName
			if name == "" {
				name = a.cfg.BuiltinName
			}

			report, err := templates.Configure(folder, name, Version, *force)
			if err != nil {
				return err
			}

			for _, file := range report.Created {
				o.Println("created", file)
			}

			for _, file := range report.Updated {
				o.Println("updated", file)
			}

			for _, file := range report.Kept {
				o.Printf("kept %s (new builtin in %s%s)\n", file, file, templates.LatestSuffix)
			}

			if len(report.Created)+len(report.Updated)+len(report.Kept) == 0 {
				o.Println("templates up to date")
			}

			return nil
		},
	}
}

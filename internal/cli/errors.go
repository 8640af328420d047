package cli

import "errors"

var (
	// ErrUnknownFlag reports an unrecognized global flag.
	ErrUnknownFlag = errors.New("unknown flag")
	// ErrFlagRequiresArg reports a global flag missing its value.
	ErrFlagRequiresArg = errors.New("flag requires an argument")
	// ErrUnknownCommand reports an unrecognized command word.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrConfigFileNotFound reports an explicitly named config file that
	// does not exist.
	ErrConfigFileNotFound = errors.New("config file not found")
	// ErrConfigInvalid reports an unparseable config file.
	ErrConfigInvalid = errors.New("invalid config file")

	// ErrBooksFolderRequired reports a command run without a books folder,
	// neither as argument nor configured.
	ErrBooksFolderRequired = errors.New("books folder required (argument or books_folder in config)")
	// ErrTemplatesFolderRequired reports configure run without a templates
	// folder, neither as flag nor configured.
	ErrTemplatesFolderRequired = errors.New("templates folder required (--templates-folder or templates_folder in config)")
	// ErrCSVNotFound reports a missing goodreads export file.
	ErrCSVNotFound = errors.New("goodreads export not found")
)
